package footballdata

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Match statuses reported by the provider. LIVE is only a query filter
// covering IN_PLAY and PAUSED.
const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusSuspended = "SUSPENDED"
	StatusCancelled = "CANCELLED"
	StatusLive      = "LIVE"
)

// Placeholder is rendered for absent values.
const Placeholder = "—"

// TeamRef is the team summary embedded in matches and standings rows.
type TeamRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	ShortName string `json:"shortName,omitempty"`
	TLA       string `json:"tla,omitempty"`
	Crest     string `json:"crest,omitempty"`
}

// DisplayName prefers the short name, then the full name.
func (t TeamRef) DisplayName() string {
	if t.ShortName != "" {
		return t.ShortName
	}
	if t.Name != "" {
		return t.Name
	}
	return Placeholder
}

// CompetitionRef is the competition summary embedded in a match.
type CompetitionRef struct {
	ID   int64  `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

// Goals is one side-by-side score snapshot. Nil means not reported yet.
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// UnmarshalJSON decodes each side on its own; a malformed side stays nil.
func (g *Goals) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode goals: %w", err)
	}
	*g = Goals{}
	decodeField(fields, "home", &g.Home)
	decodeField(fields, "away", &g.Away)
	return nil
}

// Score holds the half-time and full-time snapshots.
type Score struct {
	Winner   string `json:"winner,omitempty"`
	FullTime Goals  `json:"fullTime"`
	HalfTime Goals  `json:"halfTime"`
}

// UnmarshalJSON decodes each snapshot on its own.
func (s *Score) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode score: %w", err)
	}
	*s = Score{}
	decodeField(fields, "winner", &s.Winner)
	decodeField(fields, "fullTime", &s.FullTime)
	decodeField(fields, "halfTime", &s.HalfTime)
	return nil
}

// Match is a provider match. The provider's JSON is kept verbatim in Raw and
// re-emitted on marshal; the typed fields are a best-effort view used for
// sorting, merging and rendering.
type Match struct {
	ID          int64
	UTCDate     string
	Status      string
	Stage       string
	Matchday    *int
	Competition CompetitionRef
	HomeTeam    TeamRef
	AwayTeam    TeamRef
	Score       Score

	Raw json.RawMessage
}

// UnmarshalJSON decodes each known field on its own so that one malformed
// optional field leaves its zero value instead of failing the whole match.
func (m *Match) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode match: %w", err)
	}

	*m = Match{Raw: append(json.RawMessage(nil), data...)}
	decodeField(fields, "id", &m.ID)
	decodeField(fields, "utcDate", &m.UTCDate)
	decodeField(fields, "status", &m.Status)
	decodeField(fields, "stage", &m.Stage)
	decodeField(fields, "matchday", &m.Matchday)
	decodeField(fields, "competition", &m.Competition)
	decodeField(fields, "homeTeam", &m.HomeTeam)
	decodeField(fields, "awayTeam", &m.AwayTeam)
	decodeField(fields, "score", &m.Score)
	return nil
}

// MarshalJSON re-emits the provider's JSON when available.
func (m Match) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	return json.Marshal(struct {
		ID          int64          `json:"id"`
		UTCDate     string         `json:"utcDate,omitempty"`
		Status      string         `json:"status,omitempty"`
		Stage       string         `json:"stage,omitempty"`
		Matchday    *int           `json:"matchday,omitempty"`
		Competition CompetitionRef `json:"competition"`
		HomeTeam    TeamRef        `json:"homeTeam"`
		AwayTeam    TeamRef        `json:"awayTeam"`
		Score       Score          `json:"score"`
	}{m.ID, m.UTCDate, m.Status, m.Stage, m.Matchday, m.Competition, m.HomeTeam, m.AwayTeam, m.Score})
}

// decodeField sets *dst only when fields[name] decodes cleanly, so a
// malformed value never leaves a partially built result behind.
func decodeField[T any](fields map[string]json.RawMessage, name string, dst *T) {
	raw, ok := fields[name]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// Kickoff parses UTCDate. ok is false when the date is absent or malformed.
func (m Match) Kickoff() (t time.Time, ok bool) {
	if m.UTCDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, m.UTCDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsLive reports whether the match is being played or at half-time.
func (m Match) IsLive() bool {
	return IsLiveStatus(m.Status)
}

// IsLiveStatus reports whether status denotes a match in progress.
func IsLiveStatus(status string) bool {
	switch status {
	case StatusInPlay, StatusPaused, StatusLive:
		return true
	}
	return false
}

// IsPending reports whether the match has not kicked off yet.
func (m Match) IsPending() bool {
	return m.Status == StatusScheduled || m.Status == StatusTimed
}

// StatusLabel shows PAUSED as HT.
func (m Match) StatusLabel() string {
	switch m.Status {
	case "":
		return Placeholder
	case StatusPaused:
		return "HT"
	default:
		return m.Status
	}
}

// ScoreText renders "h–a", taking each side from full time, then half time.
func (m Match) ScoreText() string {
	return goalText(m.Score.FullTime.Home, m.Score.HalfTime.Home) + "–" +
		goalText(m.Score.FullTime.Away, m.Score.HalfTime.Away)
}

// FullTimeText renders the full-time score only.
func (m Match) FullTimeText() string {
	return goalText(m.Score.FullTime.Home, nil) + "–" + goalText(m.Score.FullTime.Away, nil)
}

func goalText(primary, fallback *int) string {
	switch {
	case primary != nil:
		return fmt.Sprint(*primary)
	case fallback != nil:
		return fmt.Sprint(*fallback)
	default:
		return Placeholder
	}
}

// CompetitionLabel prefers the competition name, then its code.
func (m Match) CompetitionLabel() string {
	if m.Competition.Name != "" {
		return m.Competition.Name
	}
	if m.Competition.Code != "" {
		return m.Competition.Code
	}
	return "Match"
}

// SortByKickoff orders matches by kickoff. Matches without a parseable date
// go last. The sort is stable.
func SortByKickoff(matches []Match, ascending bool) {
	sort.SliceStable(matches, func(i, j int) bool {
		ti, okI := matches[i].Kickoff()
		tj, okJ := matches[j].Kickoff()
		switch {
		case !okI:
			return false
		case !okJ:
			return true
		case ascending:
			return ti.Before(tj)
		default:
			return ti.After(tj)
		}
	})
}

// NextAfter returns the earliest pending match kicking off after now.
func NextAfter(matches []Match, now time.Time) (Match, bool) {
	var (
		best     Match
		bestTime time.Time
		found    bool
	)
	for _, m := range matches {
		kickoff, ok := m.Kickoff()
		if !ok || !kickoff.After(now) {
			continue
		}
		if m.Status != "" && !m.IsPending() {
			continue
		}
		if !found || kickoff.Before(bestTime) {
			best, bestTime, found = m, kickoff, true
		}
	}
	return best, found
}
