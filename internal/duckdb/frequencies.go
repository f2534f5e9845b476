package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/vsbuffalo/slper/internal/params"
	"github.com/vsbuffalo/slper/internal/slim"
)

// TrajectoryPoint is the frequency of one locus at one generation.
type TrajectoryPoint struct {
	Generation int64
	Freq       float64
}

// WriteParams stores the parameter header of source.
func (s *Store) WriteParams(source string, ps params.Params) error {
	for _, k := range ps.Keys() {
		v, _ := ps.Get(k)
		var text, num any
		if t, ok := v.Text(); ok {
			text = t
		} else {
			n, _ := v.Number()
			num = n
		}
		if _, err := s.db.Exec(`INSERT OR REPLACE INTO params VALUES (?, ?, ?, ?, ?)`,
			source, k, v.Kind().String(), text, num); err != nil {
			return fmt.Errorf("write param %q: %w", k, err)
		}
	}
	return nil
}

// WriteFreqs batch-inserts the non-zero, non-missing cells of f using the
// Appender API.
func (s *Store) WriteFreqs(source string, f *slim.SlimFreqs) error {
	return s.withAppender("frequencies", func(a *goduckdb.Appender) error {
		labels := f.RowLabels()
		rows, cols := f.Freqs.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v := f.Freqs.At(i, j)
				if v == 0 || math.IsNaN(v) {
					continue
				}
				if err := a.AppendRow(source, labels[i], f.IDs[j], f.Positions[j], v); err != nil {
					return fmt.Errorf("append frequency: %w", err)
				}
			}
		}
		return nil
	})
}

// WriteStats stores the statistics table of source in long format.
func (s *Store) WriteStats(source string, st *slim.SlimStats) error {
	if err := s.WriteParams(source, st.Params); err != nil {
		return err
	}
	return s.withAppender("stats", func(a *goduckdb.Appender) error {
		for i, row := range st.Stats.Rows {
			for j, cell := range row {
				if err := a.AppendRow(source, int64(i), st.Stats.Columns[j], cell); err != nil {
					return fmt.Errorf("append stat: %w", err)
				}
			}
		}
		return nil
	})
}

// withAppender runs fn with an appender on table and flushes it.
func (s *Store) withAppender(table string, fn func(*goduckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fn(appender); err != nil {
		return err
	}
	return appender.Flush()
}

// LocusTrajectory returns the exported frequencies of a locus ordered by
// generation.
func (s *Store) LocusTrajectory(source string, locusID int64) ([]TrajectoryPoint, error) {
	rows, err := s.db.Query(`SELECT generation, sum(freq)
		FROM frequencies
		WHERE source=? AND locus_id=?
		GROUP BY generation
		ORDER BY generation`, source, locusID)
	if err != nil {
		return nil, fmt.Errorf("query trajectory: %w", err)
	}
	defer rows.Close()

	var points []TrajectoryPoint
	for rows.Next() {
		var p TrajectoryPoint
		if err := rows.Scan(&p.Generation, &p.Freq); err != nil {
			return nil, fmt.Errorf("scan trajectory: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trajectory: %w", err)
	}
	return points, nil
}

// FrequencyCount returns the number of exported frequency cells for source.
func (s *Store) FrequencyCount(source string) (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT count(*) FROM frequencies WHERE source=?`, source).Scan(&n); err != nil {
		return 0, fmt.Errorf("count frequencies: %w", err)
	}
	return n, nil
}

// Param returns the stored text form of a parameter.
func (s *Store) Param(source, key string) (string, error) {
	var kind string
	var text *string
	var num *float64
	err := s.db.QueryRow(`SELECT kind, text_value, num_value FROM params WHERE source=? AND key=?`,
		source, key).Scan(&kind, &text, &num)
	if err != nil {
		return "", fmt.Errorf("query param %q: %w", key, err)
	}
	if text != nil {
		return *text, nil
	}
	if num != nil {
		return strconv.FormatFloat(*num, 'g', -1, 64), nil
	}
	return "", nil
}
