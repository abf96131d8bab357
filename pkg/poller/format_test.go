package poller

import (
	"testing"
	"time"

	"github.com/nufcvault/vault/pkg/footballdata"
)

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"due", 0, "Kick-off time!"},
		{"past", -time.Minute, "Kick-off time!"},
		{"seconds", 59 * time.Second, "0d 00h 00m 59s"},
		{"days", 26*time.Hour + 3*time.Minute + 4*time.Second, "1d 02h 03m 04s"},
		{"sub-second truncated", 1500 * time.Millisecond, "0d 00h 00m 01s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCountdown(tt.in); got != tt.want {
				t.Errorf("FormatCountdown(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatShortCountdown(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"due", 0, "LIVE"},
		{"hours", 2*time.Hour + 3*time.Minute + 4*time.Second, "02:03:04"},
		{"days", 50 * time.Hour, "2d 02:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatShortCountdown(tt.in); got != tt.want {
				t.Errorf("FormatShortCountdown(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormDots(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name string
		in   *string
		want string
	}{
		{"nil", nil, "—"},
		{"blank", str(" "), "—"},
		{"short", str("w,d"), "W D"},
		{"last five", str("W,W,D,L,W,L"), "W D L W L"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormDots(tt.in); got != tt.want {
				t.Errorf("FormDots() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsMatchday(t *testing.T) {
	now := time.Date(2025, 9, 13, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) string { return now.Add(d).Format(time.RFC3339) }

	tests := []struct {
		name  string
		match footballdata.Match
		want  bool
	}{
		{"kickoff later today", footballdata.Match{UTCDate: at(3 * time.Hour), Status: footballdata.StatusTimed}, true},
		{"kickoff now", footballdata.Match{UTCDate: at(0), Status: footballdata.StatusTimed}, true},
		{"kickoff tomorrow", footballdata.Match{UTCDate: at(25 * time.Hour), Status: footballdata.StatusTimed}, false},
		{"kicked off, not live", footballdata.Match{UTCDate: at(-time.Hour), Status: footballdata.StatusFinished}, false},
		{"in play", footballdata.Match{UTCDate: at(-time.Hour), Status: footballdata.StatusInPlay}, true},
		{"half time", footballdata.Match{Status: footballdata.StatusPaused}, true},
		{"undated", footballdata.Match{Status: footballdata.StatusScheduled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMatchday(tt.match, now); got != tt.want {
				t.Errorf("IsMatchday() = %v, want %v", got, tt.want)
			}
		})
	}
}
