package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nufcvault/vault/internal/testutil"
	"github.com/nufcvault/vault/pkg/cache"
	"github.com/nufcvault/vault/pkg/fixtures"
	"github.com/nufcvault/vault/pkg/footballdata"
	"github.com/rs/zerolog"
)

var testNow = time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

type testServer struct {
	*Server
	mock  *testutil.MockFootballData
	clock *testClock
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// newTestServer builds a Server backed by a mock provider and an in-memory
// cache sharing one controllable clock.
func newTestServer(t *testing.T, token string, mutate func(*Options), source *fixtures.Source) *testServer {
	t.Helper()

	mock := testutil.NewMockFootballData()
	t.Cleanup(mock.Close)

	cfg := footballdata.DefaultConfig(token)
	cfg.BaseURL = mock.URL()
	cfg.Timeout = 2 * time.Second
	client, err := footballdata.New(cfg)
	if err != nil {
		t.Fatalf("footballdata.New() error = %v", err)
	}

	clock := &testClock{now: testNow}
	opts := DefaultOptions()
	opts.StaticDir = ""
	if mutate != nil {
		mutate(&opts)
	}

	server := NewServer(opts, cache.NewMemoryStore(cache.WithClock(clock.Now)), client, source)
	server.now = clock.Now

	return &testServer{Server: server, mock: mock, clock: clock}
}

func (ts *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		hasToken bool
	}{
		{"with token", "token", true},
		{"without token", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.token, func(o *Options) { o.Port = 4321 }, nil)
			rec := ts.get(t, "/health")

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var body healthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !body.OK || body.Port != 4321 || body.HasToken != tt.hasToken {
				t.Errorf("health = %+v", body)
			}
		})
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	ts := newTestServer(t, "token", nil, nil)
	rec := ts.get(t, "/api/nope")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec); !env.Error || env.Status != http.StatusNotFound {
		t.Errorf("envelope = %+v", env)
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>NUFC Vault</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	ts := newTestServer(t, "token", func(o *Options) { o.StaticDir = dir }, nil)
	rec := ts.get(t, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "NUFC Vault") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, "token", nil, nil)
	ts.mock.SetTeamMatches(testutil.NewcastleID)
	ts.get(t, "/api/live")

	rec := ts.get(t, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vault_route_requests_total") {
		t.Error("route metrics missing from /metrics")
	}
}

func writeFixtures(t *testing.T, content string) *fixtures.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return fixtures.NewSource(path, zerolog.Nop())
}
