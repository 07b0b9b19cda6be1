// Package moltbook is the client for the Moltbook feed API: reading candidate
// posts from a submolt and publishing announcement posts.
package moltbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"petpad-launchpad/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://www.moltbook.com/api/v1"
	DefaultSiteURL = "https://www.moltbook.com"
	DefaultTimeout = 30 * time.Second
)

// Client talks to the Moltbook REST API with a bearer credential.
type Client struct {
	baseURL string
	siteURL string
	apiKey  string
	client  *http.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithSiteURL overrides the public site URL used to build post links.
func WithSiteURL(u string) ClientOption {
	return func(c *Client) {
		c.siteURL = u
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

// NewClient creates a Moltbook API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		siteURL: DefaultSiteURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// postPayload is the wire shape of a feed post.
type postPayload struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  struct {
		Name string `json:"name"`
	} `json:"author"`
}

// GetPosts fetches up to limit newest posts from a submolt.
func (c *Client) GetPosts(ctx context.Context, submolt string, limit int) ([]domain.Post, error) {
	q := url.Values{}
	q.Set("submolt", submolt)
	q.Set("sort", "new")
	q.Set("limit", strconv.Itoa(limit))

	endpoint := c.baseURL + "/posts?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch posts: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			Posts []postPayload `json:"posts"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode posts response: %w", err)
	}

	posts := make([]domain.Post, 0, len(payload.Data.Posts))
	for _, p := range payload.Data.Posts {
		posts = append(posts, domain.Post{
			ID:      p.ID,
			Title:   p.Title,
			Content: p.Content,
			Author:  p.Author.Name,
		})
	}
	return posts, nil
}

// CreatePost publishes a post to a submolt and returns its id.
func (c *Client) CreatePost(ctx context.Context, submolt, title, content string) (*domain.Post, error) {
	body, err := json.Marshal(map[string]string{
		"submolt": submolt,
		"title":   title,
		"content": content,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("create post: unexpected status %d: %s", resp.StatusCode, snippet)
	}

	var payload struct {
		Data postPayload `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode create response: %w", err)
	}
	if payload.Data.ID == "" {
		return nil, fmt.Errorf("create post: response carries no post id")
	}

	return &domain.Post{
		ID:      payload.Data.ID,
		Title:   title,
		Content: content,
	}, nil
}

// PostURL returns the public link for a post id.
func (c *Client) PostURL(postID string) string {
	return c.siteURL + "/post/" + postID
}
