package provider

import (
	"errors"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(t.TempDir(), time.Minute)

	if _, ok := c.Get("snapshot:AAPL"); ok {
		t.Error("Expected a miss on a fresh cache")
	}

	if err := c.Set("snapshot:AAPL", []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	data, ok := c.Get("snapshot:AAPL")
	if !ok {
		t.Fatal("Expected a hit after set")
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("Unexpected cached payload: %s", data)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(t.TempDir(), 50*time.Millisecond)

	if err := c.Set("k", []byte("v")); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected the entry to expire")
	}
}

func TestGetOrFetch(t *testing.T) {
	c := NewCache(t.TempDir(), time.Minute)

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("payload"), nil
	}

	for i := 0; i < 3; i++ {
		data, err := c.GetOrFetch("k", fetch)
		if err != nil {
			t.Fatalf("Failed to fetch: %v", err)
		}
		if string(data) != "payload" {
			t.Errorf("Unexpected payload: %s", data)
		}
	}
	if calls != 1 {
		t.Errorf("Expected exactly one upstream fetch, got %d", calls)
	}
}

func TestGetOrFetchErrorNotCached(t *testing.T) {
	c := NewCache(t.TempDir(), time.Minute)

	boom := errors.New("upstream down")
	if _, err := c.GetOrFetch("k", func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("Expected the fetch error to surface, got %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Expected a failed fetch to leave nothing cached")
	}
}
