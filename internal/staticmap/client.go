// Package staticmap fetches rendered map tiles from the Stadia Maps
// static API.
package staticmap

import (
	"context"
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
	defaultBaseURL = "https://tiles.stadiamaps.com/static"

	fetchTimeout = 30 * time.Second
)

// ErrUnauthorized indicates the API key was rejected by the tile service.
var ErrUnauthorized = errors.New("invalid Stadia Maps API key")

// Client fetches static map imagery.
type Client struct {
	baseURL    string
	style      string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a static map client using the given style and API key.
func NewClient(apiKey, style string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		style:      style,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// NewClientWithBaseURL creates a static map client against a custom
// endpoint.
func NewClientWithBaseURL(baseURL, apiKey, style string, logger *zap.Logger) *Client {
	c := NewClient(apiKey, style, logger)
	c.baseURL = baseURL
	return c
}

// Fetch requests a map centered on the given coordinate with a marker at
// the same point. The logical size parameter is the device geometry while
// the @2x modifier makes the service render at double pixel density for
// the same footprint, giving a sharper source for downsampling.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, zoom int, geom models.ScreenGeometry) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	center := formatCoord(lat) + "," + formatCoord(lon)
	params := url.Values{}
	params.Set("center", center)
	params.Set("zoom", strconv.Itoa(zoom))
	params.Set("size", fmt.Sprintf("%dx%d@2x", geom.Width, geom.Height))
	params.Set("markers", center)
	params.Set("api_key", c.apiKey)

	endpoint := fmt.Sprintf("%s/%s.png?%s", c.baseURL, c.style, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetching map tile",
		zap.String("center", center),
		zap.Int("zoom", zoom),
		zap.Int("width", geom.Width),
		zap.Int("height", geom.Height),
		zap.String("style", c.style))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("map fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("map service returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read map response: %w", err)
	}
	return data, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
