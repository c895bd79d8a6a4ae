//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
)

type learner struct {
	UserKey     string
	AccessToken string
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// loginLearner logs in with INTEGRATION_LOGIN / INTEGRATION_PASSWORD against the
// learning platform behind the service. Tests that need a learner skip without them.
func loginLearner(t *testing.T, baseURL string) learner {
	t.Helper()

	login := os.Getenv("INTEGRATION_LOGIN")
	password := os.Getenv("INTEGRATION_PASSWORD")
	if login == "" || password == "" {
		t.Skip("INTEGRATION_LOGIN and INTEGRATION_PASSWORD are not set")
	}

	resp := makeAuthenticatedRequest(t, http.MethodPost, fmt.Sprintf("%s/v1/auth/login", baseURL), "", map[string]string{
		"login":    login,
		"password": password,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login response status: %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		UserKey     string `json:"user_key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login response failed: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatalf("empty access token in login response")
	}
	return learner{UserKey: out.UserKey, AccessToken: out.AccessToken}
}

func makeAuthenticatedRequest(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
}
