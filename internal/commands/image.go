package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/papers3/paperctl/internal/imaging"
	"go.uber.org/zap"
)

// Image sends an image to the display, normalized to the device's bounded
// dimensions unless forceRaw is set. Bytes come from the path argument or,
// when absent, from piped stdin.
func (r *Runner) Image(ctx context.Context, ipFlag, path string, forceRaw bool) error {
	dev, err := r.resolveDevice(ipFlag)
	if err != nil {
		return err
	}

	data, err := r.readImageInput(path)
	if err != nil {
		return err
	}

	normalizer := imaging.NewNormalizer(r.logger)
	normalized, err := normalizer.NormalizeGeneric(data, forceRaw)
	if err != nil {
		return err
	}

	r.logger.Info("Sending image",
		zap.Int("bytes", len(normalized.Data)),
		zap.Bool("processed", normalized.Processed))
	if err := dev.SendImage(ctx, normalized.Data, "image.jpg"); err != nil {
		r.reportDelivery(err)
		return nil
	}

	fmt.Fprintln(r.out, "Success!")
	return nil
}

func (r *Runner) readImageInput(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, nil
	}

	if r.stdinIsTTY {
		return nil, ErrNoInput
	}

	r.logger.Info("Reading image from stdin")
	data, err := io.ReadAll(r.stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoInput
	}
	return data, nil
}
