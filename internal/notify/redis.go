package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/learnhub/pkg/http/ws"
)

const defaultChannel = "quiz:notices"

// RedisPublisher publishes notices on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

var _ Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = defaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, n Notice) error {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}

// Broadcaster listens for published notices and forwards them to local sockets.
type Broadcaster struct {
	redis   *redis.Client
	hub     *ws.Hub
	channel string
	logger  zerolog.Logger
}

// NewBroadcaster creates a Pub/Sub powered notice broadcaster.
func NewBroadcaster(redis *redis.Client, hub *ws.Hub, channel string, logger zerolog.Logger) *Broadcaster {
	if channel == "" {
		channel = defaultChannel
	}
	return &Broadcaster{
		redis:   redis,
		hub:     hub,
		channel: channel,
		logger:  logger.With().Str("component", "notice_broadcaster").Logger(),
	}
}

// Run subscribes to the notice channel and blocks until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.redis == nil || b.hub == nil {
		return nil
	}

	sub := b.redis.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.forward(msg.Payload)
		}
	}
}

func (b *Broadcaster) forward(payload string) {
	var n Notice
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		b.logger.Warn().Err(err).Msg("failed to decode notice payload")
		return
	}
	if n.UserKey == "" {
		return
	}
	// Only the instance holding the user's socket delivers.
	if !b.hub.Connected(n.UserKey) {
		return
	}

	msg, err := ws.NewMessage(ws.TypeNotice, ws.NoticePayload{
		Kind:      string(n.Kind),
		SessionID: n.SessionID,
		QuizID:    n.QuizID,
		Message:   n.Message,
		At:        n.At.Format(time.RFC3339),
	})
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to marshal notice WS payload")
		return
	}
	if err := b.hub.SendToUser(n.UserKey, msg); err != nil {
		b.logger.Warn().Err(err).Str("user_key", n.UserKey).Msg("failed to deliver notice")
	}
}
