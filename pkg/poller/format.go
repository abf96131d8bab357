package poller

import (
	"fmt"
	"strings"
	"time"

	"github.com/nufcvault/vault/pkg/footballdata"
)

// matchdayWindow is how long before kickoff a day counts as matchday.
const matchdayWindow = 24 * time.Hour

// FormatCountdown renders "Xd HHh MMm SSs", or "Kick-off time!" once due.
func FormatCountdown(d time.Duration) string {
	if d <= 0 {
		return "Kick-off time!"
	}
	days, hours, mins, secs := split(d)
	return fmt.Sprintf("%dd %02dh %02dm %02ds", days, hours, mins, secs)
}

// FormatShortCountdown renders "Xd HH:MM:SS" or "HH:MM:SS", or "LIVE" once due.
func FormatShortCountdown(d time.Duration) string {
	if d <= 0 {
		return "LIVE"
	}
	days, hours, mins, secs := split(d)
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
}

func split(d time.Duration) (days, hours, mins, secs int) {
	total := int(d / time.Second)
	return total / 86400, (total % 86400) / 3600, (total % 3600) / 60, total % 60
}

// FormDots renders the last five results of a "W,D,L" form string.
func FormDots(form *string) string {
	if form == nil || strings.TrimSpace(*form) == "" {
		return footballdata.Placeholder
	}
	results := strings.Split(*form, ",")
	if len(results) > 5 {
		results = results[len(results)-5:]
	}
	for i, r := range results {
		results[i] = strings.ToUpper(strings.TrimSpace(r))
	}
	return strings.Join(results, " ")
}

// IsMatchday reports whether m is live or kicks off within the next day.
func IsMatchday(m footballdata.Match, now time.Time) bool {
	if m.IsLive() {
		return true
	}
	kickoff, ok := m.Kickoff()
	if !ok {
		return false
	}
	until := kickoff.Sub(now)
	return until >= 0 && until < matchdayWindow
}

// FormatKickoff renders a kickoff in the local zone.
func FormatKickoff(m footballdata.Match) string {
	kickoff, ok := m.Kickoff()
	if !ok {
		return footballdata.Placeholder
	}
	return kickoff.Local().Format("Mon 2 Jan 15:04")
}

func plural(n int) string {
	if n == 1 {
		return fmt.Sprintf("%d match", n)
	}
	return fmt.Sprintf("%d matches", n)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
