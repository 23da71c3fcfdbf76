package commands

import (
	"context"
	"fmt"

	"github.com/papers3/paperctl/pkg/models"
	"go.uber.org/zap"
)

// MQTT points the device at an MQTT broker via the HTTP API. The device
// holds the broker session itself; this client only delivers the
// configuration and echoes the result.
func (r *Runner) MQTT(ctx context.Context, ipFlag string, cfg models.MQTTConfig) error {
	dev, err := r.resolveDevice(ipFlag)
	if err != nil {
		return err
	}

	r.logger.Info("Configuring device MQTT",
		zap.String("broker", cfg.Broker),
		zap.Int("port", cfg.Port),
		zap.String("topic", cfg.Topic))

	result, err := dev.ConfigureMQTT(ctx, cfg)
	if err != nil {
		r.reportDelivery(err)
		return nil
	}

	if !result.Connected {
		r.logger.Warn("Connection status unclear", zap.String("status", result.Status))
		fmt.Fprintf(r.out, "Warning: device did not confirm the broker connection.\n")
		return nil
	}

	fmt.Fprintln(r.out, "Success! Device connected to MQTT broker.")
	fmt.Fprintf(r.out, "Broker: %s\n", result.Broker)
	fmt.Fprintf(r.out, "Topic: %s\n", result.Topic)
	fmt.Fprintln(r.out, "Device will now display messages published to this topic.")
	return nil
}
