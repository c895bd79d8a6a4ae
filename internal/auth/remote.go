package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// flexibleID decodes numeric or string identifiers into their textual form.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}

// RemoteClient calls the learning platform's login endpoint.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteClient(baseURL string, httpClient *http.Client) *RemoteClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Login posts {login, password} to /api/login.
func (c *RemoteClient) Login(ctx context.Context, req LoginRequest) (remoteLoginResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return remoteLoginResponse{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return remoteLoginResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return remoteLoginResponse{}, fmt.Errorf("remote login: %w", err)
	}
	defer resp.Body.Close()

	var out remoteLoginResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusUnprocessableEntity {
		return out, ErrInvalidCredentials
	}
	if resp.StatusCode >= 300 {
		return out, fmt.Errorf("remote login: non-200: %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return out, fmt.Errorf("decode login response: %w", decodeErr)
	}
	return out, nil
}
