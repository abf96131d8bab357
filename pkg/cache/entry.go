package cache

import "time"

// Entry is a cached JSON payload with its expiry.
type Entry struct {
	// Value is the serialized response payload.
	Value []byte `json:"value"`

	// ExpiresAt is computed at write time as CachedAt + ttl.
	ExpiresAt time.Time `json:"expires_at"`

	// CachedAt is when the entry was written.
	CachedAt time.Time `json:"cached_at"`
}

func newEntry(value []byte, now time.Time, ttl time.Duration) Entry {
	return Entry{
		Value:     append([]byte(nil), value...),
		ExpiresAt: now.Add(ttl),
		CachedAt:  now,
	}
}

// ExpiredAt reports whether the entry is stale at the given instant.
// An entry is still valid at exactly ExpiresAt.
func (e *Entry) ExpiredAt(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return e.ExpiredAt(time.Now())
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}
