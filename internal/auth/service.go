package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/auth/jwt"
	"github.com/gokatarajesh/learnhub/internal/userstore"
)

var (
	// ErrInvalidCredentials is returned when the platform rejects the login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginFailed is returned when the platform answers without a token.
	ErrLoginFailed = errors.New("login failed")
)

type remoteLogin interface {
	Login(ctx context.Context, req LoginRequest) (remoteLoginResponse, error)
}

type userStore interface {
	Save(ctx context.Context, userKey string, info userstore.UserInfo) error
	Load(ctx context.Context, userKey string) (userstore.UserInfo, error)
	Delete(ctx context.Context, userKey string) error
}

// Service delegates credential checks to the learning platform, remembers the
// returned user and issues our own session tokens.
type Service struct {
	remote   remoteLogin
	users    userStore
	tokenMgr *jwt.Manager
	logger   zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
}

// NewService creates an authentication service.
func NewService(remote remoteLogin, users userStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		remote:   remote,
		users:    users,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Login authenticates against the platform and stores the user info.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: login and password are required", ErrInvalidCredentials)
	}

	resp, err := s.remote.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "no token returned"
		}
		return nil, fmt.Errorf("%w: %s", ErrLoginFailed, msg)
	}

	info := userstore.UserInfo{
		ID:    string(resp.User.ID),
		Name:  resp.User.Name,
		Login: resp.User.Login,
	}
	if info.Login == "" {
		info.Login = req.Login
	}
	userKey := UserKey(info.Login)

	if err := s.users.Save(ctx, userKey, info); err != nil {
		return nil, fmt.Errorf("store user info: %w", err)
	}

	token, err := s.tokenMgr.Generate(jwt.Subject{UserKey: userKey, Name: info.Name, RemoteUserID: info.ID})
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info().Str("user_key", userKey).Msg("user logged in")

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokenMgr.TTL().Seconds()),
		UserKey:   userKey,
		User:      info,
		Message:   resp.Message,
	}, nil
}

// Logout forgets the stored user info. Issued tokens expire on their own.
func (s *Service) Logout(ctx context.Context, userKey string) error {
	if err := s.users.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("delete user info: %w", err)
	}
	s.logger.Info().Str("user_key", userKey).Msg("user logged out")
	return nil
}

// Me returns the stored user info for userKey.
func (s *Service) Me(ctx context.Context, userKey string) (userstore.UserInfo, error) {
	return s.users.Load(ctx, userKey)
}

// ValidateToken validates a service token and returns its claims.
func (s *Service) ValidateToken(token string) (*jwt.Claims, error) {
	return s.tokenMgr.Validate(token)
}

// UserKey derives the stable key a user's sessions and info are stored under.
func UserKey(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}
