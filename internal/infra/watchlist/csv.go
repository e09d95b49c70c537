// Package watchlist implements the file-backed watchlist store.
package watchlist

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"estate-watch/internal/domain/entity"
)

var header = []string{"region", "district", "asset_name"}

// CSVStore persists watchlist entries as a three-column CSV file. The file is
// the source of truth; every Load re-reads it so external edits are picked up.
type CSVStore struct {
	mu            sync.Mutex
	path          string
	defaultRegion string
	seed          []entity.WatchlistEntry
}

// NewCSVStore creates a store over the given file path. When the file does
// not exist yet, the first Load creates it populated with the seed entries.
// Rows missing a region column are attributed to defaultRegion.
func NewCSVStore(path, defaultRegion string, seed []entity.WatchlistEntry) *CSVStore {
	return &CSVStore{
		path:          path,
		defaultRegion: defaultRegion,
		seed:          seed,
	}
}

// Load reads the full watchlist snapshot. A missing file is seeded, an
// unreadable or corrupt file degrades to an empty watchlist so the merged
// view still renders.
func (s *CSVStore) Load(ctx context.Context) ([]entity.WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write(s.seed); err != nil {
			return nil, fmt.Errorf("seed watchlist file: %w", err)
		}
		slog.Info("watchlist file created from seed",
			slog.String("path", s.path),
			slog.Int("entries", len(s.seed)))
		return append([]entity.WatchlistEntry(nil), s.seed...), nil
	}
	if err != nil {
		slog.Warn("watchlist file unreadable, continuing with empty watchlist",
			slog.String("path", s.path),
			slog.Any("error", err))
		return nil, nil
	}
	defer f.Close()

	entries, err := s.parse(f)
	if err != nil {
		slog.Warn("watchlist file corrupt, continuing with empty watchlist",
			slog.String("path", s.path),
			slog.Any("error", err))
		return nil, nil
	}
	return entries, nil
}

// Save rewrites the whole watchlist file. The write goes through a temp file
// in the same directory so a crash mid-write never truncates the original.
func (s *CSVStore) Save(ctx context.Context, entries []entity.WatchlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(entries)
}

func (s *CSVStore) parse(r io.Reader) ([]entity.WatchlistEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var entries []entity.WatchlistEntry
	first := true
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read watchlist row: %w", err)
		}
		if first {
			first = false
			if isHeader(row) {
				continue
			}
		}

		entry, ok := s.entryFromRow(row)
		if !ok {
			slog.Warn("skipping malformed watchlist row", slog.Any("row", row))
			continue
		}
		entries = append(entries, entry)
	}
}

// isHeader recognizes both the current three-column header and the legacy
// two-column one.
func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "region" || first == "district"
}

func (s *CSVStore) entryFromRow(row []string) (entity.WatchlistEntry, bool) {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	var entry entity.WatchlistEntry
	switch len(row) {
	case 2:
		// Legacy two-column files predate region scoping.
		entry = entity.WatchlistEntry{Region: s.defaultRegion, District: row[0], AssetName: row[1]}
	case 3:
		entry = entity.WatchlistEntry{Region: row[0], District: row[1], AssetName: row[2]}
		if entry.Region == "" {
			entry.Region = s.defaultRegion
		}
	default:
		return entity.WatchlistEntry{}, false
	}

	if err := entry.Validate(); err != nil {
		return entity.WatchlistEntry{}, false
	}
	return entry, true
}

func (s *CSVStore) write(entries []entity.WatchlistEntry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create watchlist directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".watchlist-*.csv")
	if err != nil {
		return fmt.Errorf("create temp watchlist file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write watchlist header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write([]string{e.Region, e.District, e.AssetName}); err != nil {
			tmp.Close()
			return fmt.Errorf("write watchlist row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush watchlist file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp watchlist file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace watchlist file: %w", err)
	}
	return nil
}
