package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// failingStore always errors.
type failingStore struct{}

var errBackendDown = errors.New("backend down")

func (failingStore) Get(context.Context, string) (*Entry, error) { return nil, errBackendDown }
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errBackendDown
}
func (failingStore) Close() error { return nil }

func TestLayeredStore_WritesBothLayers(t *testing.T) {
	ctx := context.Background()
	l1, l2 := NewMemoryStore(), NewMemoryStore()
	store := NewLayeredStore(l1, l2)

	if err := store.Set(ctx, "k", []byte(`"v"`), 5*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	e1, err := l1.Get(ctx, "k")
	if err != nil {
		t.Fatalf("l1.Get() error = %v", err)
	}
	if ttl := e1.TTL(); ttl > MaxL1TTL {
		t.Errorf("L1 TTL = %v, want <= %v", ttl, MaxL1TTL)
	}

	e2, err := l2.Get(ctx, "k")
	if err != nil {
		t.Fatalf("l2.Get() error = %v", err)
	}
	if ttl := e2.TTL(); ttl <= MaxL1TTL {
		t.Errorf("L2 TTL = %v, want full ttl", ttl)
	}
}

func TestLayeredStore_BackfillsL1(t *testing.T) {
	ctx := context.Background()
	l1, l2 := NewMemoryStore(), NewMemoryStore()
	store := NewLayeredStore(l1, l2)

	_ = l2.Set(ctx, "k", []byte(`"shared"`), time.Minute)

	entry, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(entry.Value) != `"shared"` {
		t.Errorf("Value = %s", entry.Value)
	}
	if _, err := l1.Get(ctx, "k"); err != nil {
		t.Errorf("L1 was not back-filled: %v", err)
	}
}

func TestLayeredStore_MissOnBothLayers(t *testing.T) {
	store := NewLayeredStore(NewMemoryStore(), NewMemoryStore())

	if _, err := store.Get(context.Background(), "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestLayeredStore_L2Failure(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryStore()
	store := NewLayeredStore(l1, failingStore{})

	err := store.Set(ctx, "k", []byte(`1`), time.Minute)
	if !errors.Is(err, errBackendDown) {
		t.Errorf("Set() error = %v, want errBackendDown", err)
	}

	// L1 still serves the value.
	if _, err := store.Get(ctx, "k"); err != nil {
		t.Errorf("Get() error = %v, want L1 hit", err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default is memory", Options{}, false},
		{"memory", Options{Backend: BackendMemory}, false},
		{"bigcache", Options{Backend: BackendBigCache, LifeWindow: time.Minute}, false},
		{"redis without client", Options{Backend: BackendRedis}, true},
		{"layered without client", Options{Backend: BackendLayered}, true},
		{"unknown", Options{Backend: "memcached"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if store != nil {
				store.Close()
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "memcached"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open() error = %v, want ErrUnknownBackend", err)
	}
}
