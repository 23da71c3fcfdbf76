package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/papers3/paperctl/internal/device"
)

// Stream holds one TCP connection to the device's line port and forwards
// stdin line by line until end-of-input or interrupt. Suits piping from
// tail -f.
func (r *Runner) Stream(ctx context.Context, ipFlag string) error {
	host, err := r.cfg.ResolveDeviceIP(ipFlag)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Connecting to stream at %s:%d...\n", host, device.StreamPort)

	streamer := device.NewStreamer(r.logger)
	if err := streamer.Run(ctx, host, r.stdin); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(r.out, "Disconnected.")
			return nil
		}
		r.reportDelivery(err)
		return nil
	}

	fmt.Fprintln(r.out, "Disconnected.")
	return nil
}
