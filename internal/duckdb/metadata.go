package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for an exported input file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// WriteSource records fp, replacing any earlier record for the same path.
// Modification times are stored with microsecond precision.
func (s *Store) WriteSource(fp FileFingerprint) error {
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO sources VALUES (?, ?, ?)`,
		fp.Path, fp.Size, fp.ModTime.UTC().Truncate(time.Microsecond)); err != nil {
		return fmt.Errorf("write source: %w", err)
	}
	return nil
}

// Source returns the recorded fingerprint for path.
func (s *Store) Source(path string) (FileFingerprint, bool, error) {
	fp := FileFingerprint{Path: path}
	err := s.db.QueryRow(`SELECT size, mod_time FROM sources WHERE source = ?`, path).
		Scan(&fp.Size, &fp.ModTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FileFingerprint{}, false, nil
		}
		return FileFingerprint{}, false, fmt.Errorf("query source: %w", err)
	}
	return fp, true, nil
}

// Unchanged reports whether fp matches the fingerprint recorded for its path.
func (s *Store) Unchanged(fp FileFingerprint) (bool, error) {
	got, ok, err := s.Source(fp.Path)
	if err != nil || !ok {
		return false, err
	}
	return got.Size == fp.Size && got.ModTime.Equal(fp.ModTime.UTC().Truncate(time.Microsecond)), nil
}

// Clear removes every row exported from source.
func (s *Store) Clear(source string) error {
	for _, table := range []string{"sources", "params", "frequencies", "stats"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE source = ?", source); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
