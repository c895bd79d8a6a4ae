package learning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the theme and course endpoints of the learning platform.
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

// Themes returns every theme. The platform answers with a bare array or wraps it
// in "data" or "themes".
func (c *Client) Themes(ctx context.Context) ([]Theme, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/themes", nil)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var themes []Theme
		if err := json.Unmarshal(raw, &themes); err != nil {
			return nil, fmt.Errorf("%w: decode themes: %v", ErrUpstream, err)
		}
		return themes, nil
	}
	var env themeListEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: decode themes: %v", ErrUpstream, err)
	}
	switch {
	case env.Data != nil:
		return env.Data, nil
	case env.Themes != nil:
		return env.Themes, nil
	}
	return nil, fmt.Errorf("%w: themes response has no theme array", ErrUpstream)
}

// Theme returns one theme with its media.
func (c *Client) Theme(ctx context.Context, id string) (ThemeDetail, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/themes/"+url.PathEscape(id), nil)
	if errors.Is(err, errNotFound) {
		return ThemeDetail{}, ErrThemeNotFound
	}
	if err != nil {
		return ThemeDetail{}, err
	}
	var env themeDetailEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ThemeDetail{}, fmt.Errorf("%w: decode theme %s: %v", ErrUpstream, id, err)
	}
	if !env.Success || env.Data == nil || env.Data.Theme == nil {
		return ThemeDetail{}, ErrThemeNotFound
	}
	detail := *env.Data.Theme
	if len(env.Data.ThemeMedias) > 0 {
		detail.Medias = env.Data.ThemeMedias
	}
	if detail.Medias == nil {
		detail.Medias = []Media{}
	}
	return detail, nil
}

// Courses returns the course list document.
func (c *Client) Courses(ctx context.Context) (Document, error) {
	return c.do(ctx, http.MethodGet, "/api/courses", nil)
}

// Course returns one course. A non-empty userID asks for that user's view of it.
func (c *Client) Course(ctx context.Context, id, userID string) (Document, error) {
	path := "/api/courses/" + url.PathEscape(id)
	if userID != "" {
		path += "?" + url.Values{"user_id": {userID}}.Encode()
	}
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if errors.Is(err, errNotFound) {
		return nil, ErrCourseNotFound
	}
	return raw, err
}

// Progress returns the course progress document for userID.
func (c *Client) Progress(ctx context.Context, userID string) (Document, error) {
	return c.do(ctx, http.MethodGet, "/api/courses/progress/"+url.PathEscape(userID), nil)
}

// MarkVideoComplete forwards a video completion record.
func (c *Client) MarkVideoComplete(ctx context.Context, body map[string]any) (Document, error) {
	return c.do(ctx, http.MethodPost, "/api/courses/mark-video-complete", body)
}

var errNotFound = fmt.Errorf("%w: not found", ErrUpstream)

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s: remote non-200: %d", ErrUpstream, method, path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUpstream, path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s %s: response is not JSON", ErrUpstream, method, path)
	}
	return data, nil
}
