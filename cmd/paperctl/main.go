// Command paperctl drives a PaperS3 e-ink remote display: text, images,
// maps, live line streaming, and MQTT bridge configuration.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/papers3/paperctl/internal/commands"
	"github.com/papers3/paperctl/internal/config"
	"github.com/papers3/paperctl/pkg/models"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	flagIP       = "ip"
	flagVerbose  = "verbose"
	flagSize     = "size"
	flagForceRaw = "force-raw"
	flagLat      = "lat"
	flagLon      = "lon"
	flagLocation = "location"
	flagZoom     = "zoom"
	flagAPIKey   = "api-key"
	flagStyle    = "style"
	flagBroker   = "broker"
	flagTopic    = "topic"
	flagPort     = "port"
	flagUsername = "username"
	flagPassword = "password"
	flagOut      = "out"
	flagOn       = "on"
	flagOff      = "off"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		logger *zap.Logger
		runner *commands.Runner
	)

	ipFlag := &cli.StringFlag{
		Name:  flagIP,
		Usage: "device IP address (overrides PAPER_IP)",
	}

	app := &cli.App{
		Name:  "paperctl",
		Usage: "PaperS3 remote display client",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(cc *cli.Context) error {
			var err error
			logger, err = newLogger(cc.Bool(flagVerbose))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			runner = commands.NewRunner(cfg, logger)
			return nil
		},
		After: func(cc *cli.Context) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "text",
				Usage:     "send text to the display",
				ArgsUsage: "[text]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: flagSize, Value: 3, Usage: "text size"},
					ipFlag,
				},
				Action: func(cc *cli.Context) error {
					return runner.Text(cc.Context, cc.String(flagIP), cc.Args().First(), cc.Int(flagSize))
				},
			},
			{
				Name:      "image",
				Usage:     "send an image (from a file or stdin)",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagForceRaw, Usage: "send bytes unprocessed when they cannot be decoded"},
					ipFlag,
				},
				Action: func(cc *cli.Context) error {
					return runner.Image(cc.Context, cc.String(flagIP), cc.Args().First(), cc.Bool(flagForceRaw))
				},
			},
			{
				Name:  "stream",
				Usage: "stream stdin line-by-line to the display (tail -f friendly)",
				Flags: []cli.Flag{ipFlag},
				Action: func(cc *cli.Context) error {
					return runner.Stream(cc.Context, cc.String(flagIP))
				},
			},
			{
				Name:  "map",
				Usage: "display a map of coordinates or a named location",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: flagLat, Usage: "latitude"},
					&cli.Float64Flag{Name: flagLon, Usage: "longitude"},
					&cli.StringFlag{Name: flagLocation, Usage: "location name to geocode (e.g. 'Berlin, Germany')"},
					&cli.IntFlag{Name: flagZoom, Usage: "zoom level 0-18 (default derived from the location)"},
					&cli.StringFlag{Name: flagAPIKey, Usage: "Stadia Maps API key (overrides STADIA_API_KEY)"},
					&cli.StringFlag{Name: flagStyle, Usage: "map style (default from config, stamen_toner)"},
					ipFlag,
				},
				Action: func(cc *cli.Context) error {
					req := commands.MapRequest{
						Location: cc.String(flagLocation),
						Lat:      cc.Float64(flagLat),
						Lon:      cc.Float64(flagLon),
						LatSet:   cc.IsSet(flagLat),
						LonSet:   cc.IsSet(flagLon),
						Zoom:     cc.Int(flagZoom),
						ZoomSet:  cc.IsSet(flagZoom),
						APIKey:   cc.String(flagAPIKey),
						Style:    cc.String(flagStyle),
					}
					return runner.Map(cc.Context, cc.String(flagIP), req)
				},
			},
			{
				Name:  "mqtt",
				Usage: "point the device at an MQTT broker and topic",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagBroker, Required: true, Usage: "MQTT broker hostname or IP"},
					&cli.StringFlag{Name: flagTopic, Required: true, Usage: "MQTT topic to subscribe to"},
					&cli.IntFlag{Name: flagPort, Value: 1883, Usage: "MQTT broker port"},
					&cli.StringFlag{Name: flagUsername, Usage: "MQTT username"},
					&cli.StringFlag{Name: flagPassword, Usage: "MQTT password"},
					ipFlag,
				},
				Action: func(cc *cli.Context) error {
					cfg := models.MQTTConfig{
						Broker:   cc.String(flagBroker),
						Topic:    cc.String(flagTopic),
						Port:     cc.Int(flagPort),
						Username: cc.String(flagUsername),
						Password: cc.String(flagPassword),
					}
					return runner.MQTT(cc.Context, cc.String(flagIP), cfg)
				},
			},
			{
				Name:  "status",
				Usage: "print the device status report",
				Flags: []cli.Flag{ipFlag},
				Action: func(cc *cli.Context) error {
					return runner.Status(cc.Context, cc.String(flagIP))
				},
			},
			{
				Name:  "screenshot",
				Usage: "save the current display contents to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagOut, Value: "screenshot.bmp", Usage: "output path"},
					ipFlag,
				},
				Action: func(cc *cli.Context) error {
					return runner.Screenshot(cc.Context, cc.String(flagIP), cc.String(flagOut))
				},
			},
			{
				Name:  "retain",
				Usage: "set or toggle retain-on-sleep mode",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagOn, Usage: "enable retain mode"},
					&cli.BoolFlag{Name: flagOff, Usage: "disable retain mode"},
					ipFlag,
				},
				Action: func(cc *cli.Context) error {
					var value *bool
					switch {
					case cc.Bool(flagOn) && cc.Bool(flagOff):
						return fmt.Errorf("--on and --off are mutually exclusive")
					case cc.Bool(flagOn):
						v := true
						value = &v
					case cc.Bool(flagOff):
						v := false
						value = &v
					}
					return runner.Retain(cc.Context, cc.String(flagIP), value)
				},
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a console logger writing to stderr so stdout stays
// reserved for command output.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
