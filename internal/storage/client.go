// Package storage talks to the blob storage service: it issues upload
// destinations, uploads raw bytes, and resolves storage references to
// display URLs.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is the HTTP client side of the storage collaborator.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(opts ClientOptions) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{httpClient: client, baseURL: base}
}

// IssueUploadURL asks the storage service for a fresh upload destination.
func (c *Client) IssueUploadURL(ctx context.Context) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", errors.New("storage: client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/storage/upload-url", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage: issue upload url: http %d", resp.StatusCode)
	}
	var out struct {
		UploadURL string `json:"uploadUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.UploadURL) == "" {
		return "", errors.New("storage: empty upload url")
	}
	return out.UploadURL, nil
}

// Upload posts raw bytes to a previously issued upload destination and
// returns the opaque storage reference.
func (c *Client) Upload(ctx context.Context, uploadURL, contentType string, data []byte) (string, error) {
	if c == nil {
		return "", errors.New("storage: client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage: upload: http %d", resp.StatusCode)
	}
	var out struct {
		StorageID string `json:"storageId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.StorageID) == "" {
		return "", errors.New("storage: upload response missing storageId")
	}
	return out.StorageID, nil
}

// ResolveURL maps a storage reference to its display URL. Empty references
// resolve to the empty string.
func (c *Client) ResolveURL(ref string) string {
	if c == nil || strings.TrimSpace(ref) == "" {
		return ""
	}
	return c.baseURL + "/v1/storage/" + ref
}
