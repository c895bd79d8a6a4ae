package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrUserNotFound is returned when no user info is stored for a key.
var ErrUserNotFound = errors.New("user not found, please log in again")

const keyPrefix = "userinfo:"

// UserInfo mirrors the user object returned by the remote login endpoint.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
}

// Reader is the read-only view consumed by quiz sessions.
type Reader interface {
	UserID(ctx context.Context, userKey string) (string, error)
}

// Store keeps the logged-in user's info in Redis.
type Store struct {
	client *redis.Client
}

var _ Reader = (*Store)(nil)

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(userKey string) string { return keyPrefix + userKey }

// Save writes info for userKey. There is no expiry; logout removes it.
func (s *Store) Save(ctx context.Context, userKey string, info UserInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode user info: %w", err)
	}
	if err := s.client.Set(ctx, key(userKey), data, 0).Err(); err != nil {
		return fmt.Errorf("save user info: %w", err)
	}
	return nil
}

// Load returns the stored info or ErrUserNotFound.
func (s *Store) Load(ctx context.Context, userKey string) (UserInfo, error) {
	data, err := s.client.Get(ctx, key(userKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return UserInfo{}, ErrUserNotFound
		}
		return UserInfo{}, fmt.Errorf("load user info: %w", err)
	}
	var info UserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return UserInfo{}, fmt.Errorf("decode user info: %w", err)
	}
	return info, nil
}

// UserID returns the remote user id for userKey. An entry without an id counts
// as missing.
func (s *Store) UserID(ctx context.Context, userKey string) (string, error) {
	info, err := s.Load(ctx, userKey)
	if err != nil {
		return "", err
	}
	if info.ID == "" {
		return "", ErrUserNotFound
	}
	return info.ID, nil
}

// Delete forgets userKey.
func (s *Store) Delete(ctx context.Context, userKey string) error {
	return s.client.Del(ctx, key(userKey)).Err()
}
