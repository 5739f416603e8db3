package watchlist

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Entry struct {
	Ticker  string    `json:"ticker"`
	AddedAt time.Time `json:"added_at"`
}

// Store persists the watchlist as a JSON file. Tickers are uppercased
// and deduplicated on insert.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Add inserts tickers not already present, keeping insertion order.
func (s *Store) Add(tickers ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	present := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		present[e.Ticker] = struct{}{}
	}
	now := time.Now().UTC()
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := present[t]; ok {
			continue
		}
		present[t] = struct{}{}
		entries = append(entries, Entry{Ticker: t, AddedAt: now})
	}
	return s.save(entries)
}

func (s *Store) Remove(ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	kept := entries[:0]
	for _, e := range entries {
		if e.Ticker != ticker {
			kept = append(kept, e)
		}
	}
	return s.save(kept)
}

// List returns the watched tickers in insertion order.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	tickers := make([]string, len(entries))
	for i, e := range entries {
		tickers[i] = e.Ticker
	}
	return tickers, nil
}

func (s *Store) load() ([]Entry, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}
