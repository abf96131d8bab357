// Package fixtures loads the optional local fixture override file.
//
// The file lets the site owner announce a match before the provider lists it:
//
//	{"matches": [{"utcDate": "2025-08-16T16:30:00Z", "homeTeam": {"name": "Aston Villa"}, ...}]}
//
// Each match needs a utcDate; everything else is passed through as given.
// The file is validated against a JSON schema and reloaded when it changes.
package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nufcvault/vault/pkg/footballdata"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidFile is wrapped by errors for files that are not valid fixture JSON.
var ErrInvalidFile = errors.New("invalid fixtures file")

const fileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["matches"],
  "properties": {
    "matches": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["utcDate"],
        "properties": {
          "id": {"type": "integer"},
          "utcDate": {"type": "string", "format": "date-time"},
          "status": {"type": "string"},
          "homeTeam": {"type": "object"},
          "awayTeam": {"type": "object"},
          "competition": {"type": "object"}
        }
      }
    }
  }
}`

var compiledSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(fileSchema))
	if err != nil {
		panic(fmt.Sprintf("fixtures: compile schema: %v", err))
	}
	return schema
}()

type file struct {
	Matches []footballdata.Match `json:"matches"`
}

// Parse validates data against the fixture schema and decodes its matches.
func Parse(data []byte) ([]footballdata.Match, error) {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if !result.Valid() {
		var problems []string
		for _, resultErr := range result.Errors() {
			problems = append(problems, resultErr.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, strings.Join(problems, "; "))
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return f.Matches, nil
}

// Load reads and parses the file at path. A missing file yields no matches.
func Load(path string) ([]footballdata.Match, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fixtures file: %w", err)
	}
	return Parse(data)
}

// Source holds the current contents of the fixture file. A Source with an
// empty path is disabled and always empty.
type Source struct {
	path   string
	logger zerolog.Logger

	mu      sync.RWMutex
	matches []footballdata.Match
}

// NewSource creates a Source for path and performs the initial load.
// An invalid file is logged and leaves the Source empty.
func NewSource(path string, logger zerolog.Logger) *Source {
	s := &Source{path: path, logger: logger}
	if path != "" {
		if err := s.Reload(); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Fixtures file rejected")
		}
	}
	return s
}

// Reload re-reads the file. On error the previous contents are kept.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}

	matches, err := Load(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.matches = matches
	s.mu.Unlock()

	s.logger.Debug().Str("path", s.path).Int("matches", len(matches)).Msg("Fixtures file loaded")
	return nil
}

// Matches returns a copy of the current matches.
func (s *Source) Matches() []footballdata.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]footballdata.Match(nil), s.matches...)
}

// Next returns the earliest match in the file kicking off after now.
func (s *Source) Next(now time.Time) (footballdata.Match, bool) {
	if s == nil {
		return footballdata.Match{}, false
	}
	return footballdata.NextAfter(s.Matches(), now)
}
