package fixtures

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFile = `{
  "matches": [
    {"utcDate": "2025-08-30T14:00:00Z", "homeTeam": {"name": "Newcastle United FC", "shortName": "Newcastle"}, "awayTeam": {"shortName": "Leeds"}},
    {"utcDate": "2025-08-23T11:30:00Z", "status": "TIMED", "homeTeam": {"shortName": "Liverpool"}, "awayTeam": {"shortName": "Newcastle"}}
  ]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParse_Valid(t *testing.T) {
	matches, err := Parse([]byte(validFile))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "Newcastle", matches[0].HomeTeam.DisplayName())
	assert.Equal(t, "TIMED", matches[1].Status)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{matches: nope`},
		{"missing matches", `{}`},
		{"matches not array", `{"matches": {}}`},
		{"missing utcDate", `{"matches": [{"status": "TIMED"}]}`},
		{"utcDate not a string", `{"matches": [{"utcDate": 20250816}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidFile)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	matches, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSource_Next(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	writeFile(t, path, validFile)

	source := NewSource(path, zerolog.Nop())
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

	next, ok := source.Next(now)
	require.True(t, ok)
	assert.Equal(t, "2025-08-23T11:30:00Z", next.UTCDate)

	_, ok = source.Next(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestSource_Disabled(t *testing.T) {
	source := NewSource("", zerolog.Nop())

	assert.NoError(t, source.Reload())
	assert.Empty(t, source.Matches())
	_, ok := source.Next(time.Now())
	assert.False(t, ok)
}

func TestSource_ReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	writeFile(t, path, validFile)
	source := NewSource(path, zerolog.Nop())
	require.Len(t, source.Matches(), 2)

	writeFile(t, path, `{"matches": [{"status": "TIMED"}]}`)
	assert.ErrorIs(t, source.Reload(), ErrInvalidFile)
	assert.Len(t, source.Matches(), 2)
}

func TestSource_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	writeFile(t, path, `{"matches": []}`)
	source := NewSource(path, zerolog.Nop())
	require.Empty(t, source.Matches())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- source.Watch(ctx) }()

	// Rewrite until the watcher, which starts asynchronously, sees a change.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(validFile), 0o644)
		return len(source.Matches()) == 2
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
