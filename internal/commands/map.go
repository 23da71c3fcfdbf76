package commands

import (
	"context"
	"fmt"

	"github.com/papers3/paperctl/internal/geocode"
	"github.com/papers3/paperctl/internal/imaging"
	"github.com/papers3/paperctl/pkg/models"
	"go.uber.org/zap"
)

// DefaultPointZoom is the zoom for explicit coordinates with no --zoom.
// Deliberately distinct from geocode.DefaultPlaceZoom; the two defaults
// are independent constants.
const DefaultPointZoom = 15

// Fallback geometry when the device status query fails. The device may be
// momentarily unreachable or mid-transition; a map request should not
// hard-fail on this alone.
const (
	fallbackScreenWidth  = 960
	fallbackScreenHeight = 540
)

// MapRequest carries the map subcommand's parsed flags. Location and
// explicit coordinates are mutually exclusive sources.
type MapRequest struct {
	Location string
	Lat      float64
	Lon      float64
	LatSet   bool
	LonSet   bool
	Zoom     int
	ZoomSet  bool
	APIKey   string
	Style    string
}

// Map fetches a static map for the requested place, post-processes it for
// the e-ink panel, and uploads it. A failed tile fetch aborts before any
// device call so a broken map never overwrites the display.
func (r *Runner) Map(ctx context.Context, ipFlag string, req MapRequest) error {
	apiKey, err := r.cfg.ResolveAPIKey(req.APIKey)
	if err != nil {
		return err
	}

	dev, err := r.resolveDevice(ipFlag)
	if err != nil {
		return err
	}

	lat, lon, zoom, err := r.resolveMapCenter(ctx, req)
	if err != nil {
		return err
	}

	geom := r.queryGeometry(ctx, dev)

	style := req.Style
	if style == "" {
		style = r.cfg.MapStyle
	}

	r.logger.Info("Fetching map",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("zoom", zoom))

	fetcher := r.newMapFetcher(apiKey, style)
	tile, err := fetcher.Fetch(ctx, lat, lon, zoom, geom)
	if err != nil {
		return err
	}

	normalizer := imaging.NewNormalizer(r.logger)
	normalized, err := normalizer.NormalizeMap(tile, geom)
	if err != nil {
		return err
	}

	r.logger.Info("Sending map", zap.Int("bytes", len(normalized.Data)))
	if err := dev.SendImage(ctx, normalized.Data, "map.jpg"); err != nil {
		r.reportDelivery(err)
		return nil
	}

	fmt.Fprintln(r.out, "Success! Map displayed.")
	return nil
}

// resolveMapCenter turns the request into a coordinate and zoom, invoking
// the geocoder only when a location name was given.
func (r *Runner) resolveMapCenter(ctx context.Context, req MapRequest) (lat, lon float64, zoom int, err error) {
	hasExplicit := req.LatSet && req.LonSet

	switch {
	case req.Location != "" && (req.LatSet || req.LonSet):
		return 0, 0, 0, ErrConflictingCoordinates

	case req.Location != "":
		result, err := r.newGeocoder().Lookup(ctx, req.Location)
		if err != nil {
			return 0, 0, 0, err
		}
		zoom := req.Zoom
		if !req.ZoomSet {
			zoom = geocode.ZoomFor(result.Box)
		}
		fmt.Fprintf(r.out, "Found: %s\n", result.DisplayName)
		r.logger.Info("Geocoded location",
			zap.Float64("lat", result.Lat),
			zap.Float64("lon", result.Lon),
			zap.Int("zoom", zoom))
		return result.Lat, result.Lon, zoom, nil

	case hasExplicit:
		zoom := req.Zoom
		if !req.ZoomSet {
			zoom = DefaultPointZoom
		}
		return req.Lat, req.Lon, zoom, nil

	default:
		return 0, 0, 0, ErrNoCoordinates
	}
}

// queryGeometry asks the device for its current screen size, never
// caching it: rotation changes the geometry between invocations.
func (r *Runner) queryGeometry(ctx context.Context, dev deviceClient) models.ScreenGeometry {
	fallback := models.ScreenGeometry{Width: fallbackScreenWidth, Height: fallbackScreenHeight}

	status, err := dev.Status(ctx)
	if err != nil {
		r.logger.Warn("Could not query device, using default geometry",
			zap.Error(err),
			zap.Int("width", fallback.Width),
			zap.Int("height", fallback.Height))
		return fallback
	}

	geom := status.Geometry()
	if geom.Width <= 0 || geom.Height <= 0 {
		r.logger.Warn("Device reported no geometry, using default",
			zap.Int("width", fallback.Width),
			zap.Int("height", fallback.Height))
		return fallback
	}

	r.logger.Info("Device screen",
		zap.Int("width", geom.Width),
		zap.Int("height", geom.Height))
	return geom
}
