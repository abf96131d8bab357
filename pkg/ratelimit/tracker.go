package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota tracking.
var (
	quotaAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vault_upstream_quota_available",
		Help: "Requests remaining in the current football-data.org minute",
	})

	quotaBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_upstream_quota_blocks_total",
		Help: "Total number of upstream calls refused locally because the quota was spent",
	})
)

// Tracker monitors the upstream quota and gates requests. State lives in
// memory; when a Redis client is given it is also shared through Redis so
// every server instance spends the same token's quota.
type Tracker struct {
	mu     sync.Mutex
	state  QuotaState
	redis  *redis.Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewTracker creates a new quota tracker. redisClient may be nil.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
		now:    time.Now,
	}
}

// GetState returns the current quota state. Without any data an unknown
// state is returned, which never blocks.
func (t *Tracker) GetState(ctx context.Context) (*QuotaState, error) {
	if t.redis == nil {
		t.mu.Lock()
		state := t.state
		t.mu.Unlock()
		return &state, nil
	}

	data, err := t.redis.Get(ctx, RedisKeyQuota).Bytes()
	if errors.Is(err, redis.Nil) {
		t.logger.Debug().Msg("No quota state in Redis, assuming quota available")
		return &QuotaState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quota state: %w", err)
	}

	var state QuotaState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse quota state: %w", err)
	}
	return &state, nil
}

// UpdateFromHeaders records the quota reported in an upstream response.
// Responses without quota headers are ignored.
func (t *Tracker) UpdateFromHeaders(ctx context.Context, headers http.Header) error {
	availableStr := headers.Get(HeaderAvailableMinute)
	if availableStr == "" {
		return nil
	}

	available, err := strconv.Atoi(availableStr)
	if err != nil {
		return fmt.Errorf("parse %s header: %w", HeaderAvailableMinute, err)
	}

	// Reset defaults to a full minute when the provider omits it.
	resetSeconds := 60
	if resetStr := headers.Get(HeaderCounterReset); resetStr != "" {
		resetSeconds, err = strconv.Atoi(resetStr)
		if err != nil {
			return fmt.Errorf("parse %s header: %w", HeaderCounterReset, err)
		}
	}

	now := t.now()
	state := QuotaState{
		Available:  available,
		ResetAt:    now.Add(time.Duration(resetSeconds) * time.Second),
		LastUpdate: now,
		Known:      true,
	}

	t.mu.Lock()
	t.state = state
	t.mu.Unlock()

	if t.redis != nil {
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshal quota state: %w", err)
		}
		ttl := time.Duration(resetSeconds)*time.Second + time.Minute
		if err := t.redis.Set(ctx, RedisKeyQuota, data, ttl).Err(); err != nil {
			return fmt.Errorf("store quota state in redis: %w", err)
		}
	}

	quotaAvailable.Set(float64(available))

	logEvent := t.logger.Debug()
	if state.IsLow() {
		logEvent = t.logger.Warn()
	}
	logEvent.
		Int("available_minute", available).
		Time("reset_at", state.ResetAt).
		Msg("Upstream quota updated")

	return nil
}

// ShouldAllowRequest reports whether an upstream call may be made now.
// It never sleeps: a spent quota fails fast until the counter resets.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, fmt.Errorf("get quota state: %w", err)
	}

	now := t.now()
	if state.ExhaustedAt(now) {
		t.logger.Warn().
			Dur("wait_duration", state.TimeUntilReset(now)).
			Msg("Upstream quota spent - blocking request")

		quotaBlocksTotal.Inc()
		return false, nil
	}

	return true, nil
}
