package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"moodtrack/internal/imaging"
	"moodtrack/internal/infra"
)

// Options controls how the inference client is configured.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client talks to the model sidecar that hosts the face cascade and the FER+
// emotion model. It implements both FaceDetector and EmotionClassifier so the
// worker can use a single connection for the whole pipeline.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type detectRequest struct {
	Image string `json:"image"`
}

type detectResponse struct {
	Faces []Region `json:"faces"`
}

type classifyRequest struct {
	Image string `json:"image"`
}

type classifyResponse struct {
	Emotions map[string]float64 `json:"emotions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewClient constructs an inference client. Callers may provide a nil HTTP
// client; a reusable one with a sensible timeout will be created.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("inference: base url is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// DetectFaces sends the image to the sidecar's detector endpoint.
func (c *Client) DetectFaces(ctx context.Context, img image.Image) ([]Region, error) {
	payload, err := encodeImage(img)
	if err != nil {
		return nil, err
	}
	var resp detectResponse
	if err := c.invoke(ctx, "/v1/detect", detectRequest{Image: payload}, &resp); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("faces", len(resp.Faces)).Msg("inference: face detection complete")
	return resp.Faces, nil
}

// PredictEmotion sends a face crop to the sidecar's classifier endpoint.
func (c *Client) PredictEmotion(ctx context.Context, face image.Image) (map[string]float64, error) {
	payload, err := encodeImage(face)
	if err != nil {
		return nil, err
	}
	var resp classifyResponse
	if err := c.invoke(ctx, "/v1/classify", classifyRequest{Image: payload}, &resp); err != nil {
		return nil, err
	}
	return resp.Emotions, nil
}

func (c *Client) invoke(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("inference: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("inference: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference: call %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("inference: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("inference: %s returned %d: %s", path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("inference: %s returned %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("inference: decode response: %w", err)
	}
	return nil
}

func encodeImage(img image.Image) (string, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

var (
	_ FaceDetector      = (*Client)(nil)
	_ EmotionClassifier = (*Client)(nil)
)
