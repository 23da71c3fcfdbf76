package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Text sends a text payload to the display. When no argument is given and
// stdin is not a terminal, the text is read from stdin instead.
func (r *Runner) Text(ctx context.Context, ipFlag, text string, size int) error {
	dev, err := r.resolveDevice(ipFlag)
	if err != nil {
		return err
	}

	if text == "" {
		if r.stdinIsTTY {
			return ErrNoText
		}
		data, err := io.ReadAll(r.stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
		if text == "" {
			return ErrNoText
		}
	}

	r.logger.Info("Sending text", zap.Int("size", size))
	if err := dev.SendText(ctx, text, size); err != nil {
		r.reportDelivery(err)
		return nil
	}

	fmt.Fprintln(r.out, "Success!")
	return nil
}
