package auth

import (
	"github.com/gokatarajesh/learnhub/internal/userstore"
)

// LoginRequest carries credentials forwarded to the learning platform.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token     string             `json:"access_token"`
	ExpiresIn int64              `json:"expires_in"`
	UserKey   string             `json:"user_key"`
	User      userstore.UserInfo `json:"user"`
	Message   string             `json:"message,omitempty"`
}

// remoteLoginResponse is the learning platform's login response.
type remoteLoginResponse struct {
	Token   string     `json:"token"`
	User    remoteUser `json:"user"`
	Message string     `json:"message"`
}

type remoteUser struct {
	ID    flexibleID `json:"id"`
	Name  string     `json:"name"`
	Login string     `json:"login"`
}
