// Package clawnch is the client for the clawn.ch deployment service, which
// mints a token from a published announcement post.
package clawnch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the production launch endpoint.
const DefaultEndpoint = "https://clawn.ch/api/launch"

// DefaultTimeout bounds a single launch call. Deployments are slow; the
// service confirms the transaction before answering.
const DefaultTimeout = 120 * time.Second

// Client calls the clawn.ch launch API.
type Client struct {
	endpoint string
	client   *http.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithEndpoint overrides the launch endpoint.
func WithEndpoint(u string) ClientOption {
	return func(c *Client) {
		c.endpoint = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a clawn.ch client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LaunchResult is the deployment outcome reported by clawn.ch.
type LaunchResult struct {
	TokenAddress string
	TxHash       string
	PageURL      string
}

// Launch asks clawn.ch to deploy the token announced in postID.
// The feed credential authorizes the launch. Any non-success response or
// malformed payload is a hard failure; no retries are performed here.
func (c *Client) Launch(ctx context.Context, credential, postID string) (*LaunchResult, error) {
	body, err := json.Marshal(map[string]string{
		"moltbook_key": credential,
		"post_id":      postID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal launch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call launch service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("launch service: unexpected status %d: %s", resp.StatusCode, snippet)
	}

	var payload struct {
		TokenAddress string `json:"token_address"`
		TxHash       string `json:"tx_hash"`
		ClankerURL   string `json:"clanker_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode launch response: %w", err)
	}
	if payload.TokenAddress == "" {
		return nil, fmt.Errorf("launch service returned no token address")
	}

	return &LaunchResult{
		TokenAddress: payload.TokenAddress,
		TxHash:       payload.TxHash,
		PageURL:      payload.ClankerURL,
	}, nil
}
