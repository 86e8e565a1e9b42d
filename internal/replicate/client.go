// Package replicate calls the hosted image-generation model that composes
// the final promotional image from a prompt and product photo URLs.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
)

type Options struct {
	BaseURL    string
	APIToken   string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	model      string
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.replicate.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "google/nano-banana"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.APIToken),
		model:      model,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

type predictionRequest struct {
	Input struct {
		Prompt     string   `json:"prompt"`
		ImageInput []string `json:"image_input"`
	} `json:"input"`
}

type predictionResponse struct {
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
	Detail string          `json:"detail"`
}

// Generate runs the model synchronously and returns the URL of the produced
// image. The API may answer with a bare string URL or an object carrying a
// url field; any other output shape is a contract violation.
func (c *Client) Generate(ctx context.Context, prompt string, imageURLs []string) (string, error) {
	if c == nil {
		return "", errors.New("replicate client not configured")
	}
	if c.token == "" {
		return "", errors.New("replicate: API token is missing")
	}

	var payload predictionRequest
	payload.Input.Prompt = prompt
	payload.Input.ImageInput = imageURLs
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s/predictions", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Prefer", "wait")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return "", fmt.Errorf("replicate: http %d", resp.StatusCode)
		}
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Error != "" {
			return "", fmt.Errorf("replicate error: %s", out.Error)
		}
		if out.Detail != "" {
			return "", fmt.Errorf("replicate error: %s", out.Detail)
		}
		return "", fmt.Errorf("replicate: http %d", resp.StatusCode)
	}
	if out.Error != "" {
		return "", fmt.Errorf("replicate error: %s", out.Error)
	}
	return parseOutput(out.Output)
}

// parseOutput accepts the two documented output shapes and rejects the rest.
func parseOutput(output json.RawMessage) (string, error) {
	if len(output) == 0 {
		return "", fmt.Errorf("%w from Replicate API", domain.ErrUnexpectedResponseFormat)
	}
	var direct string
	if err := json.Unmarshal(output, &direct); err == nil {
		if strings.TrimSpace(direct) == "" {
			return "", fmt.Errorf("%w from Replicate API", domain.ErrUnexpectedResponseFormat)
		}
		return direct, nil
	}
	var object struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(output, &object); err == nil && strings.TrimSpace(object.URL) != "" {
		return object.URL, nil
	}
	return "", fmt.Errorf("%w from Replicate API", domain.ErrUnexpectedResponseFormat)
}
