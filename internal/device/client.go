package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/papers3/paperctl/pkg/models"
	"go.uber.org/zap"
)

const (
	statusTimeout = 5 * time.Second
	textTimeout   = 5 * time.Second
	mqttTimeout   = 10 * time.Second
	uploadTimeout = 30 * time.Second
)

// DeliveryError indicates the device rejected a request with a non-2xx
// response.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("device returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("device returned HTTP %d: %s", e.StatusCode, body)
}

// Client is an HTTP client for the device's /api endpoints. Every call is
// a single attempt with a fixed timeout, no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a device client for the given host or IP.
func NewClient(host string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://%s/api", host),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Status queries /api/status for the device's current state.
func (c *Client) Status(ctx context.Context) (*models.DeviceStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var status models.DeviceStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}
	return &status, nil
}

// SendText posts text to /api/text. The display is cleared before
// rendering.
func (c *Client) SendText(ctx context.Context, text string, size int) error {
	ctx, cancel := context.WithTimeout(ctx, textTimeout)
	defer cancel()

	payload := models.TextPayload{Text: text, Size: size, Clear: true}
	c.logger.Debug("Posting text", zap.Int("size", size), zap.Int("length", len(text)))
	return c.postJSON(ctx, "/text", payload, nil)
}

// SendImage posts encoded image bytes to /api/image as a multipart form
// with a single "file" field.
func (c *Client) SendImage(ctx context.Context, data []byte, filename string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/image", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debug("Uploading image", zap.Int("bytes", len(data)), zap.String("filename", filename))
	_, err = c.do(req)
	return err
}

// ConfigureMQTT posts broker settings to /api/mqtt. The device connects to
// the broker itself; the client never speaks MQTT.
func (c *Client) ConfigureMQTT(ctx context.Context, cfg models.MQTTConfig) (*models.MQTTResult, error) {
	ctx, cancel := context.WithTimeout(ctx, mqttTimeout)
	defer cancel()

	var result models.MQTTResult
	if err := c.postJSON(ctx, "/mqtt", cfg, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetRetain posts to /api/retain. A nil value sends an empty body, which
// the device treats as a toggle. Returns the resulting retain state.
func (c *Client) SetRetain(ctx context.Context, retain *bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, textTimeout)
	defer cancel()

	var reqBody io.Reader
	if retain != nil {
		data, err := json.Marshal(map[string]bool{"retain": *retain})
		if err != nil {
			return false, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/retain", reqBody)
	if err != nil {
		return false, err
	}
	if retain != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	body, err := c.do(req)
	if err != nil {
		return false, err
	}

	var resp struct {
		Retain bool `json:"retain"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("failed to parse retain response: %w", err)
	}
	return resp.Retain, nil
}

// Screenshot fetches the current display contents from /api/screenshot.
func (c *Client) Screenshot(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/screenshot", nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse device response: %w", err)
		}
	}
	return nil
}

// do executes a single request and returns the response body. Non-2xx
// responses become a DeliveryError carrying the body for the operator.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read device response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DeliveryError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
