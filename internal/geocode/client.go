// Package geocode resolves free-text place names through the Nominatim
// search API and derives a display zoom level from the place's extent.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/papers3/paperctl/pkg/models"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org/search"

	// Nominatim's usage policy requires an identifying User-Agent.
	userAgent = "paperctl/1.0 (PaperS3 remote display client)"

	lookupTimeout = 10 * time.Second

	// DefaultPlaceZoom is used for a geocoded place that has no bounding
	// box to derive a zoom from.
	DefaultPlaceZoom = 14
)

// ErrNotFound indicates the query matched no place.
var ErrNotFound = errors.New("location not found")

// Client looks up place names against a Nominatim endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a geocode client against the public Nominatim API.
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// NewClientWithBaseURL creates a geocode client against a custom endpoint.
func NewClientWithBaseURL(baseURL string, logger *zap.Logger) *Client {
	c := NewClient(logger)
	c.baseURL = baseURL
	return c
}

// nominatimPlace mirrors the wire format: coordinates arrive as strings,
// the bounding box as [south, north, west, east].
type nominatimPlace struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	BoundingBox []string `json:"boundingbox"`
}

// Lookup resolves a free-text query to its best match. The place center
// comes from the bounding box midpoint when one exists, which centers
// areas (cities, countries) better than the representative point.
func (c *Client) Lookup(ctx context.Context, query string) (*models.GeocodeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("Geocoding", zap.String("query", query))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read geocoding response: %w", err)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	return placeToResult(places[0], query)
}

func placeToResult(place nominatimPlace, query string) (*models.GeocodeResult, error) {
	result := &models.GeocodeResult{DisplayName: place.DisplayName}
	if result.DisplayName == "" {
		result.DisplayName = query
	}

	if len(place.BoundingBox) == 4 {
		box, err := parseBoundingBox(place.BoundingBox)
		if err != nil {
			return nil, err
		}
		result.Box = box
		result.Lat, result.Lon = box.Center()
		return result, nil
	}

	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", place.Lat, err)
	}
	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", place.Lon, err)
	}
	result.Lat, result.Lon = lat, lon
	return result, nil
}

func parseBoundingBox(raw []string) (*models.BoundingBox, error) {
	vals := make([]float64, 4)
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bounding box value %q: %w", s, err)
		}
		vals[i] = v
	}
	return &models.BoundingBox{South: vals[0], North: vals[1], West: vals[2], East: vals[3]}, nil
}

// ZoomFor maps a place's bounding box size to a discrete zoom level.
// Administrative areas and points of interest have wildly different
// natural zoom levels; the box extent is the best available proxy.
func ZoomFor(box *models.BoundingBox) int {
	if box == nil {
		return DefaultPlaceZoom
	}

	maxSpan := box.MaxSpan()
	switch {
	case maxSpan > 10:
		return 5
	case maxSpan > 5:
		return 7
	case maxSpan > 1:
		return 10
	case maxSpan > 0.1:
		return 13
	case maxSpan > 0.01:
		return 15
	default:
		return 16
	}
}
