package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/dceoy/tmber/internal/tally"
	"github.com/dceoy/tmber/internal/vcf"
)

// WriteCounts batch-inserts raw per-allele-pair tallies using the
// Appender API.
func (s *Store) WriteCounts(counts []tally.Count) error {
	if len(counts) == 0 {
		return nil
	}
	return s.appendRows("variant_counts", len(counts), func(a *goduckdb.Appender, i int) error {
		c := counts[i]
		return a.AppendRow(c.Bed, c.Size, string(c.Class), c.Ref, c.Alt, c.Observed)
	})
}

// WriteRows batch-inserts final TMB table rows using the Appender API.
func (s *Store) WriteRows(rows []tally.Row) error {
	if len(rows) == 0 {
		return nil
	}
	return s.appendRows("tmb", len(rows), func(a *goduckdb.Appender, i int) error {
		r := rows[i]
		return a.AppendRow(r.Bed, r.Size, string(r.Class), r.Observed, r.PerMB)
	})
}

// appendRows streams n rows into table through one appender on a dedicated
// connection.
func (s *Store) appendRows(table string, n int, appendRow func(*goduckdb.Appender, int) error) error {
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

	for i := 0; i < n; i++ {
		if err := appendRow(appender, i); err != nil {
			return fmt.Errorf("append %s row: %w", table, err)
		}
	}
	return appender.Flush()
}

// ReadRows returns the stored TMB table for one region set, ordered by
// variant type.
func (s *Store) ReadRows(bedName string) ([]tally.Row, error) {
	rows, err := s.db.Query(`
		SELECT bed_name, bed_size, variant_type, observed_count, mutations_per_mb
		FROM tmb
		WHERE bed_name = ?
		ORDER BY bed_name, bed_size, variant_type
	`, bedName)
	if err != nil {
		return nil, fmt.Errorf("query tmb: %w", err)
	}
	defer rows.Close()

	var out []tally.Row
	for rows.Next() {
		var r tally.Row
		var class string
		if err := rows.Scan(&r.Bed, &r.Size, &class, &r.Observed, &r.PerMB); err != nil {
			return nil, fmt.Errorf("scan tmb row: %w", err)
		}
		r.Class = vcf.Class(class)
		out = append(out, r)
	}
	return out, rows.Err()
}
