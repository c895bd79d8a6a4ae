package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Record(_ context.Context, evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return s.err
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Name)
	}
	return out
}

func TestEmitterDeliversToEverySinkAndFlushes(t *testing.T) {
	good := &recordingSink{}
	failing := &recordingSink{err: errors.New("sink down")}
	em := NewEmitter(8, zerolog.Nop(), failing, good)

	em.Emit("asha", EventQuizStart, map[string]any{"quiz_id": "1"})
	em.Emit("asha", EventQuizComplete, map[string]any{"percentage": 67})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, em.Run(ctx), context.Canceled)

	assert.Equal(t, []string{EventQuizStart, EventQuizComplete}, good.names())
	assert.Equal(t, []string{EventQuizStart, EventQuizComplete}, failing.names())
}

func TestEmitterDropsWhenFull(t *testing.T) {
	em := NewEmitter(1, zerolog.Nop())
	em.Emit("u", EventQuizStart, nil)
	em.Emit("u", EventQuizStart, nil)
	em.Emit("u", EventQuizStart, nil)

	assert.Equal(t, int64(2), em.Dropped())
}

func TestNilEmitterIsSafe(t *testing.T) {
	var em *Emitter
	assert.NotPanics(t, func() { em.Emit("u", EventQuizStart, nil) })
}

func TestMetricsSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewMetricsSink(reg)
	require.NoError(t, err)

	require.NoError(t, sink.Record(context.Background(), Event{Name: EventQuizStart}))
	require.NoError(t, sink.Record(context.Background(), Event{Name: EventQuizComplete, Params: map[string]any{"percentage": 67}}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.events.WithLabelValues(EventQuizStart)))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.scores))

	_, err = NewMetricsSink(reg)
	assert.Error(t, err, "duplicate registration must fail")
}

func TestRedisSinkPublishes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sub := client.Subscribe(context.Background(), "analytics:test")
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	sink := NewRedisSink(client, "analytics:test")
	require.NoError(t, sink.Record(context.Background(), Event{Name: EventQuizRetake, UserKey: "asha"}))

	select {
	case msg := <-sub.Channel():
		var evt Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
		assert.Equal(t, EventQuizRetake, evt.Name)
		assert.Equal(t, "asha", evt.UserKey)
	case <-time.After(2 * time.Second):
		t.Fatal("no analytics message published")
	}
}

func TestRemoteSinkPostsEvent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analytics/event", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewRemoteSink(srv.URL, srv.Client())
	err := sink.Record(context.Background(), Event{
		Name:   EventQuizComplete,
		Params: map[string]any{"quiz_id": "1", "score": 2},
		At:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "quiz_complete", got["event"])
	assert.Equal(t, "2026-01-02T03:04:05Z", got["timestamp"])
}
