package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LogSink writes every event as a structured log line.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "analytics_log").Logger()}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Record(_ context.Context, evt Event) error {
	s.logger.Info().
		Str("event", evt.Name).
		Str("user_key", evt.UserKey).
		Fields(evt.Params).
		Time("at", evt.At).
		Msg("analytics event")
	return nil
}

// MetricsSink counts events per name and tracks completion percentages.
type MetricsSink struct {
	events *prometheus.CounterVec
	scores prometheus.Histogram
}

// NewMetricsSink registers its collectors on reg (prometheus.DefaultRegisterer when nil).
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &MetricsSink{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quizrunner",
			Name:      "analytics_events_total",
			Help:      "Analytics events by name.",
		}, []string{"event"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quizrunner",
			Name:      "quiz_score_percentage",
			Help:      "Percentage score of completed quiz attempts.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	for _, c := range []prometheus.Collector{s.events, s.scores} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register analytics metrics: %w", err)
		}
	}
	return s, nil
}

func (s *MetricsSink) Name() string { return "metrics" }

func (s *MetricsSink) Record(_ context.Context, evt Event) error {
	s.events.WithLabelValues(evt.Name).Inc()
	if evt.Name == EventQuizComplete {
		if pct, ok := evt.Params["percentage"].(int); ok {
			s.scores.Observe(float64(pct))
		}
	}
	return nil
}

// RedisSink publishes events as JSON on a pub/sub channel.
type RedisSink struct {
	client  *redis.Client
	channel string
}

func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	if channel == "" {
		channel = "analytics:events"
	}
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Record(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, data).Err()
}

// RemoteSink forwards events to the learning platform's analytics endpoint.
type RemoteSink struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteSink(baseURL string, httpClient *http.Client) *RemoteSink {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteSink{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (s *RemoteSink) Name() string { return "remote" }

type remoteEvent struct {
	Event     string         `json:"event"`
	Params    map[string]any `json:"params,omitempty"`
	Timestamp string         `json:"timestamp"`
}

func (s *RemoteSink) Record(ctx context.Context, evt Event) error {
	body, err := json.Marshal(remoteEvent{Event: evt.Name, Params: evt.Params, Timestamp: evt.At.Format(time.RFC3339)})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/analytics/event", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("analytics endpoint non-200: %d", resp.StatusCode)
	}
	return nil
}
