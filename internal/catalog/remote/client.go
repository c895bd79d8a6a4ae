package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the API has no quiz with the requested id.
var ErrNotFound = errors.New("remote quiz not found")

// Client fetches quizzes from the learning platform REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = "https://apshwp.ap.gov.in"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// List returns every quiz the API knows about, published or not.
func (c *Client) List(ctx context.Context) ([]Quiz, error) {
	var payload listResponse
	if err := c.get(ctx, "/api/quizzes", &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("list quizzes: response has no data array")
	}
	return payload.Data, nil
}

// Get fetches a single quiz by id.
func (c *Client) Get(ctx context.Context, id string) (Quiz, error) {
	var payload detailResponse
	if err := c.get(ctx, "/api/quizzes/"+url.PathEscape(id), &payload); err != nil {
		return Quiz{}, err
	}
	if payload.Data == nil {
		return Quiz{}, ErrNotFound
	}
	return *payload.Data, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("get %s: remote non-200: %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
