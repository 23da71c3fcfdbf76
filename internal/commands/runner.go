// Package commands maps each CLI subcommand onto its transport: one-shot
// JSON POSTs, multipart uploads, or the persistent TCP line stream. Every
// delivery is a single attempt; a failure is reported and the command
// ends.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/papers3/paperctl/internal/config"
	"github.com/papers3/paperctl/internal/device"
	"github.com/papers3/paperctl/internal/geocode"
	"github.com/papers3/paperctl/internal/staticmap"
	"github.com/papers3/paperctl/pkg/models"
	"go.uber.org/zap"
)

var (
	// ErrNoText indicates the text command got neither an argument nor
	// piped input.
	ErrNoText = errors.New("provide text as an argument or via stdin")

	// ErrNoInput indicates the image command found no bytes to send.
	ErrNoInput = errors.New("provide an image file or pipe data to stdin")

	// ErrNoCoordinates indicates the map command got no usable coordinate
	// source.
	ErrNoCoordinates = errors.New("either --lat and --lon, or --location must be provided")

	// ErrConflictingCoordinates indicates both coordinate sources were
	// given.
	ErrConflictingCoordinates = errors.New("--location and --lat/--lon are mutually exclusive")
)

type geocoder interface {
	Lookup(ctx context.Context, query string) (*models.GeocodeResult, error)
}

type mapFetcher interface {
	Fetch(ctx context.Context, lat, lon float64, zoom int, geom models.ScreenGeometry) ([]byte, error)
}

type deviceClient interface {
	Status(ctx context.Context) (*models.DeviceStatus, error)
	SendText(ctx context.Context, text string, size int) error
	SendImage(ctx context.Context, data []byte, filename string) error
	ConfigureMQTT(ctx context.Context, cfg models.MQTTConfig) (*models.MQTTResult, error)
	SetRetain(ctx context.Context, retain *bool) (bool, error)
	Screenshot(ctx context.Context) ([]byte, error)
}

// Runner executes subcommands. Collaborator factories are swappable so
// tests can point them at local servers.
type Runner struct {
	cfg    *config.Config
	logger *zap.Logger

	out   io.Writer
	stdin io.Reader

	stdinIsTTY    bool
	newDevice     func(host string) deviceClient
	newGeocoder   func() geocoder
	newMapFetcher func(apiKey, style string) mapFetcher
}

// NewRunner creates a runner wired to the real collaborators, reading
// stdin and writing results to stdout.
func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		logger:     logger,
		out:        os.Stdout,
		stdin:      os.Stdin,
		stdinIsTTY: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
		newDevice: func(host string) deviceClient {
			return device.NewClient(host, logger)
		},
		newGeocoder: func() geocoder {
			return geocode.NewClient(logger)
		},
		newMapFetcher: func(apiKey, style string) mapFetcher {
			return staticmap.NewClient(apiKey, style, logger)
		},
	}
}

// resolveDevice applies the endpoint precondition: an explicit --ip wins,
// then the configured fallback, and with neither the command fails before
// any network activity.
func (r *Runner) resolveDevice(ipFlag string) (deviceClient, error) {
	host, err := r.cfg.ResolveDeviceIP(ipFlag)
	if err != nil {
		return nil, err
	}
	return r.newDevice(host), nil
}

// reportDelivery prints a delivery failure without failing the command.
// Work already done (and messages already printed) stay visible, and the
// process exits zero.
func (r *Runner) reportDelivery(err error) {
	var deliveryErr *device.DeliveryError
	if errors.As(err, &deliveryErr) {
		fmt.Fprintf(r.out, "Error: %s\n", deliveryErr.Error())
		return
	}
	fmt.Fprintf(r.out, "Error: %v\n", err)
}
