// Package ratelimit tracks the football-data.org request quota.
// It reads the X-Requests-Available-Minute and X-RequestCounter-Reset headers
// from every upstream response and gates further calls while the quota is
// spent, so an exhausted minute fails locally instead of earning another 429.
package ratelimit

import (
	"time"
)

// Response headers carrying the provider's per-minute quota.
const (
	HeaderAvailableMinute = "X-Requests-Available-Minute"
	HeaderCounterReset    = "X-RequestCounter-Reset"
)

// RedisKeyQuota holds the JSON-encoded QuotaState when state is shared.
const RedisKeyQuota = "vault:ratelimit:quota"

// Thresholds for quota decisions.
const (
	// QuotaThresholdLow logs a warning when fewer requests remain.
	// The free tier allows 10 per minute.
	QuotaThresholdLow = 3
)

// QuotaState is the last quota reported by the provider.
type QuotaState struct {
	// Available is the number of requests left in the current minute.
	Available int `json:"available"`

	// ResetAt is when the provider's request counter resets.
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when the headers were last seen.
	LastUpdate time.Time `json:"last_update"`

	// Known is false until the first response with quota headers arrives.
	Known bool `json:"known"`
}

// ExhaustedAt reports whether no requests remain at the given instant.
// Once ResetAt passes the quota is assumed refilled.
func (s *QuotaState) ExhaustedAt(now time.Time) bool {
	return s.Known && s.Available <= 0 && now.Before(s.ResetAt)
}

// IsLow returns true when the quota is known and close to running out.
func (s *QuotaState) IsLow() bool {
	return s.Known && s.Available < QuotaThresholdLow
}

// TimeUntilReset returns the duration from now until the counter resets.
// Returns 0 if the reset time has already passed.
func (s *QuotaState) TimeUntilReset(now time.Time) time.Duration {
	duration := s.ResetAt.Sub(now)
	if duration < 0 {
		return 0
	}
	return duration
}
