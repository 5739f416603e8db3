package history

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"fundamental-scanner/internal/types"
)

// Log persists scan results as one JSONL file per UTC day.
type Log struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) *Log {
	if dir == "" {
		dir = "data/history"
	}
	return &Log{dir: dir}
}

func (l *Log) dailyFilepath(t time.Time) string {
	return filepath.Join(l.dir, t.UTC().Format("2006-01-02")+".jsonl")
}

// Append writes one scan result to today's file.
func (l *Log) Append(result *types.ScanResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.dailyFilepath(time.Now())
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// Recent returns up to n results, newest first, walking day files
// backwards from the most recent.
func (l *Log) Recent(n int) ([]types.ScanResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	var results []types.ScanResult
	for _, name := range files {
		dayResults, err := readResults(filepath.Join(l.dir, name))
		if err != nil {
			continue
		}
		// newest lines last in file
		for i := len(dayResults) - 1; i >= 0 && len(results) < n; i-- {
			results = append(results, dayResults[i])
		}
		if len(results) >= n {
			break
		}
	}
	return results, nil
}

func readResults(path string) ([]types.ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var results []types.ScanResult
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var r types.ScanResult
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			continue
		}
		results = append(results, r)
	}
	return results, sc.Err()
}

// CompressOlder gzips day files older than the retention window and
// removes the originals.
func (l *Log) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(l.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}
		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()
		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}

var csvHeaders = []string{
	"ticker", "timestamp", "price", "score_pct", "recommendation",
	"fcf_yield_pct", "rsi", "ma_short", "ma_long",
}

// ExportCSV writes a scan's results as a summary CSV, blank cells for
// metrics that were not computable.
func ExportCSV(results []*types.ScanResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(csvHeaders); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Ticker,
			r.Timestamp.UTC().Format(time.RFC3339),
			fmtFloat(r.Price),
			fmtFloat(r.ScorePct),
			string(r.Recommendation),
			fmtFloat(r.Metric("fcf_yield_pct")),
			fmtFloat(r.Metric("rsi")),
			fmtFloat(r.Metric("ma_short")),
			fmtFloat(r.Metric("ma_long")),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
