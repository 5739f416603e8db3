package watchlist

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "watchlist.json"))
}

func TestAddAndList(t *testing.T) {
	s := newTestStore(t)

	if err := s.Add("aapl", "MSFT", " googl "); err != nil {
		t.Fatalf("Failed to add: %v", err)
	}

	tickers, err := s.List()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	want := []string{"AAPL", "MSFT", "GOOGL"}
	if len(tickers) != len(want) {
		t.Fatalf("Expected %d tickers, got %d", len(want), len(tickers))
	}
	for i, w := range want {
		if tickers[i] != w {
			t.Errorf("Expected %s at position %d, got %s", w, i, tickers[i])
		}
	}
}

func TestAddDeduplicates(t *testing.T) {
	s := newTestStore(t)

	if err := s.Add("AAPL"); err != nil {
		t.Fatalf("Failed to add: %v", err)
	}
	if err := s.Add("aapl", "AAPL", "MSFT"); err != nil {
		t.Fatalf("Failed to add: %v", err)
	}

	tickers, _ := s.List()
	if len(tickers) != 2 {
		t.Errorf("Expected 2 tickers after duplicate adds, got %d: %v", len(tickers), tickers)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	if err := s.Add("AAPL", "MSFT"); err != nil {
		t.Fatalf("Failed to add: %v", err)
	}
	if err := s.Remove("aapl"); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}

	tickers, _ := s.List()
	if len(tickers) != 1 || tickers[0] != "MSFT" {
		t.Errorf("Expected only MSFT to remain, got %v", tickers)
	}

	// Removing an absent ticker is not an error.
	if err := s.Remove("TSLA"); err != nil {
		t.Errorf("Expected removing an absent ticker to succeed, got %v", err)
	}
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(t)
	tickers, err := s.List()
	if err != nil {
		t.Fatalf("Expected no error on a fresh store, got %v", err)
	}
	if len(tickers) != 0 {
		t.Errorf("Expected an empty list, got %v", tickers)
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")

	if err := New(path).Add("AAPL"); err != nil {
		t.Fatalf("Failed to add: %v", err)
	}
	tickers, err := New(path).List()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(tickers) != 1 || tickers[0] != "AAPL" {
		t.Errorf("Expected AAPL to survive a reload, got %v", tickers)
	}
}
