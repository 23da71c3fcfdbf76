package commands

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Status queries the device and prints its current state.
func (r *Runner) Status(ctx context.Context, ipFlag string) error {
	dev, err := r.resolveDevice(ipFlag)
	if err != nil {
		return err
	}

	status, err := dev.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Mode:      %s\n", status.Mode)
	fmt.Fprintf(r.out, "Screen:    %dx%d (rotation %d)\n", status.ScreenWidth, status.ScreenHeight, status.Rotation)
	fmt.Fprintf(r.out, "Heap free: %d bytes (min %d)\n", status.HeapFree, status.HeapMin)
	fmt.Fprintf(r.out, "WiFi RSSI: %d dBm\n", status.WifiRSSI)
	fmt.Fprintf(r.out, "Retain:    %t\n", status.Retain)
	if status.Mode == "MQTT" {
		fmt.Fprintf(r.out, "MQTT:      %s @ %s (connected: %t)\n", status.MQTTTopic, status.MQTTBroker, status.MQTTConnected)
	}
	return nil
}

// Screenshot fetches the current display contents and writes them to a
// file.
func (r *Runner) Screenshot(ctx context.Context, ipFlag, outPath string) error {
	dev, err := r.resolveDevice(ipFlag)
	if err != nil {
		return err
	}

	data, err := dev.Screenshot(ctx)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	r.logger.Info("Saved screenshot", zap.String("path", outPath), zap.Int("bytes", len(data)))
	fmt.Fprintf(r.out, "Saved %s (%d bytes)\n", outPath, len(data))
	return nil
}

// Retain enables, disables, or toggles the device's retain-on-sleep mode.
// A nil value toggles.
func (r *Runner) Retain(ctx context.Context, ipFlag string, value *bool) error {
	dev, err := r.resolveDevice(ipFlag)
	if err != nil {
		return err
	}

	retain, err := dev.SetRetain(ctx, value)
	if err != nil {
		r.reportDelivery(err)
		return nil
	}

	fmt.Fprintf(r.out, "Retain mode: %t\n", retain)
	return nil
}
