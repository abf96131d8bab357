package footballdata

import (
	"encoding/json"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestMatch_UnmarshalDefensive(t *testing.T) {
	data := []byte(`{
		"id": 537785,
		"utcDate": "2025-08-16T16:30:00Z",
		"status": "TIMED",
		"matchday": "not-a-number",
		"homeTeam": {"id": 67, "name": "Newcastle United FC", "shortName": "Newcastle"},
		"awayTeam": "garbled",
		"score": {"fullTime": {"home": null, "away": null}}
	}`)

	var m Match
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.ID != 537785 || m.Status != StatusTimed {
		t.Errorf("got id %d status %s", m.ID, m.Status)
	}
	if m.Matchday != nil {
		t.Errorf("Matchday = %v, want nil for malformed field", *m.Matchday)
	}
	if m.AwayTeam.DisplayName() != Placeholder {
		t.Errorf("AwayTeam.DisplayName() = %q, want placeholder", m.AwayTeam.DisplayName())
	}
	if m.HomeTeam.DisplayName() != "Newcastle" {
		t.Errorf("HomeTeam.DisplayName() = %q", m.HomeTeam.DisplayName())
	}
}

func TestMatch_UnmarshalMalformedScore(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantText string
	}{
		{
			name:     "one side malformed",
			data:     `{"score":{"fullTime":{"home":"x","away":2}},"matchday":"n/a"}`,
			wantText: "—–2",
		},
		{
			name:     "full time malformed falls back to half time",
			data:     `{"score":{"fullTime":"garbled","halfTime":{"home":1,"away":0}}}`,
			wantText: "1–0",
		},
		{
			name:     "score not an object",
			data:     `{"score":[1,2]}`,
			wantText: "—–—",
		},
		{
			name:     "null sides",
			data:     `{"score":{"winner":null,"fullTime":{"home":null,"away":3}}}`,
			wantText: "—–3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Match
			if err := json.Unmarshal([]byte(tt.data), &m); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got := m.ScoreText(); got != tt.wantText {
				t.Errorf("ScoreText() = %q, want %q", got, tt.wantText)
			}
			if m.Matchday != nil {
				t.Errorf("Matchday = %d, want nil", *m.Matchday)
			}
		})
	}
}

func TestMatch_MarshalPassesThrough(t *testing.T) {
	data := []byte(`{"id":1,"utcDate":"2025-08-16T16:30:00Z","referees":[{"name":"A. Taylor"}]}`)

	var m Match
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != string(data) {
		t.Errorf("Marshal() = %s, want provider JSON verbatim", out)
	}
}

func TestMatch_Kickoff(t *testing.T) {
	tests := []struct {
		name    string
		utcDate string
		wantOK  bool
	}{
		{"valid", "2025-08-16T16:30:00Z", true},
		{"empty", "", false},
		{"malformed", "next saturday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Match{UTCDate: tt.utcDate}.Kickoff()
			if ok != tt.wantOK {
				t.Errorf("Kickoff() ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestMatch_ScoreText(t *testing.T) {
	tests := []struct {
		name  string
		score Score
		want  string
	}{
		{
			name:  "full time",
			score: Score{FullTime: Goals{Home: intPtr(2), Away: intPtr(1)}},
			want:  "2–1",
		},
		{
			name:  "half time fallback",
			score: Score{HalfTime: Goals{Home: intPtr(0), Away: intPtr(0)}},
			want:  "0–0",
		},
		{
			name: "not started",
			want: "—–—",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Match{Score: tt.score}).ScoreText(); got != tt.want {
				t.Errorf("ScoreText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatch_StatusLabel(t *testing.T) {
	tests := map[string]string{
		StatusPaused: "HT",
		StatusInPlay: StatusInPlay,
		"":           Placeholder,
	}
	for status, want := range tests {
		if got := (Match{Status: status}).StatusLabel(); got != want {
			t.Errorf("StatusLabel(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestSortByKickoff(t *testing.T) {
	matches := []Match{
		{ID: 3, UTCDate: "2025-09-01T15:00:00Z"},
		{ID: 9, UTCDate: ""},
		{ID: 1, UTCDate: "2025-08-16T16:30:00Z"},
		{ID: 2, UTCDate: "2025-08-23T14:00:00Z"},
	}

	SortByKickoff(matches, true)
	wantAsc := []int64{1, 2, 3, 9}
	for i, id := range wantAsc {
		if matches[i].ID != id {
			t.Fatalf("ascending[%d] = %d, want %d", i, matches[i].ID, id)
		}
	}

	SortByKickoff(matches, false)
	wantDesc := []int64{3, 2, 1, 9}
	for i, id := range wantDesc {
		if matches[i].ID != id {
			t.Fatalf("descending[%d] = %d, want %d", i, matches[i].ID, id)
		}
	}
}

func TestNextAfter(t *testing.T) {
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	matches := []Match{
		{ID: 1, UTCDate: "2025-08-16T16:30:00Z", Status: StatusFinished},
		{ID: 2, UTCDate: "2025-08-30T14:00:00Z", Status: StatusTimed},
		{ID: 3, UTCDate: "2025-08-23T14:00:00Z", Status: StatusScheduled},
		{ID: 4, UTCDate: "2025-08-21T19:00:00Z", Status: StatusPostponed},
	}

	next, ok := NextAfter(matches, now)
	if !ok {
		t.Fatal("NextAfter() found nothing")
	}
	if next.ID != 3 {
		t.Errorf("NextAfter() = %d, want 3", next.ID)
	}

	if _, ok := NextAfter(matches[:1], now); ok {
		t.Error("NextAfter() should ignore past matches")
	}
}
