// Package store implements the temporal lookup contract on PostgreSQL.
// It is the durable engine behind the in-memory index: bulk loads are
// transactional full replacements (delete then COPY), so readers on
// other connections never see a half-loaded table.
package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"refdata"
)

//go:embed schema.sql
var schema string

// DB is a postgres-backed temporal store.
type DB struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// Open connects a pool and pings it. The logger may be nil.
func Open(ctx context.Context, connStr string, log *zap.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return New(pool, log), nil
}

// New wraps an existing pool. The logger may be nil.
func New(pool *pgxpool.Pool, log *zap.Logger) *DB {
	if log == nil {
		log = zap.NewNop()
	}
	return &DB{pool: pool, log: log}
}

// Init creates the tables and indexes.
func (db *DB) Init(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	db.pool.Close()
}

// ReplaceCrosswalk deletes every entry for the code system and bulk
// copies the new batch inside one transaction.
func (db *DB) ReplaceCrosswalk(ctx context.Context, system refdata.CodeSystem, entries []refdata.CrosswalkEntry) error {
	start := time.Now()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM crosswalk_entries WHERE code_system = $1`, int16(system)); err != nil {
		return fmt.Errorf("clear crosswalk entries: %w", err)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"crosswalk_entries"},
		[]string{"code_system", "previous_code", "current_code", "effective_date"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{
				int16(system),
				refdata.NormalizeCode(e.PreviousCode),
				refdata.NormalizeCode(e.CurrentCode),
				pgtype.Date{Time: e.EffectiveDate, Valid: true},
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy crosswalk entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.log.Info("crosswalk reloaded",
		zap.Stringer("system", system),
		zap.Int64("rows", copied),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// ReplaceReference deletes every record in the namespace and bulk
// copies the new batch inside one transaction. End-date sentinels are
// normalized to the open-ended date before storage.
func (db *DB) ReplaceReference(ctx context.Context, namespace string, records []refdata.ReferenceRecord) error {
	start := time.Now()

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reference_records WHERE namespace = $1`, namespace); err != nil {
		return fmt.Errorf("clear reference records: %w", err)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"reference_records"},
		[]string{"namespace", "entity_key", "effective_date", "end_date", "attributes"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			attrs, err := marshalAttributes(r.Attributes)
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", r.EntityKey, err)
			}
			return []any{
				namespace,
				r.EntityKey,
				pgtype.Date{Time: r.EffectiveDate, Valid: true},
				pgtype.Date{Time: refdata.NormalizeEndDate(r.EndDate), Valid: true},
				attrs,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy reference records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.log.Info("reference records reloaded",
		zap.String("namespace", namespace),
		zap.Int64("rows", copied),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// LatestAtOrBefore returns the record with the greatest effective date
// at or before asOf. Equal effective dates resolve to the row inserted
// last; false means no historical data.
func (db *DB) LatestAtOrBefore(ctx context.Context, namespace, key string, asOf time.Time) (refdata.ReferenceRecord, bool, error) {
	row := db.pool.QueryRow(ctx, `
		SELECT entity_key, effective_date, end_date, attributes
		FROM reference_records
		WHERE namespace = $1 AND entity_key = $2 AND effective_date <= $3
		ORDER BY effective_date DESC, id DESC
		LIMIT 1`,
		namespace, key, pgtype.Date{Time: asOf, Valid: true})
	return scanReferenceRecord(row)
}

// EarliestAfter returns the record with the smallest effective date
// strictly after asOf.
func (db *DB) EarliestAfter(ctx context.Context, namespace, key string, asOf time.Time) (refdata.ReferenceRecord, bool, error) {
	row := db.pool.QueryRow(ctx, `
		SELECT entity_key, effective_date, end_date, attributes
		FROM reference_records
		WHERE namespace = $1 AND entity_key = $2 AND effective_date > $3
		ORDER BY effective_date ASC, id ASC
		LIMIT 1`,
		namespace, key, pgtype.Date{Time: asOf, Valid: true})
	return scanReferenceRecord(row)
}

// AllAtOrBefore returns every record for key effective at or before
// asOf, ascending by effective date.
func (db *DB) AllAtOrBefore(ctx context.Context, namespace, key string, asOf time.Time) ([]refdata.ReferenceRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT entity_key, effective_date, end_date, attributes
		FROM reference_records
		WHERE namespace = $1 AND entity_key = $2 AND effective_date <= $3
		ORDER BY effective_date ASC, id ASC`,
		namespace, key, pgtype.Date{Time: asOf, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("query reference records: %w", err)
	}
	defer rows.Close()

	var records []refdata.ReferenceRecord
	for rows.Next() {
		rec, _, err := scanReferenceRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// EarliestCurrentAfter returns the crosswalk entry with the smallest
// effective date strictly after asOf whose current code is code.
func (db *DB) EarliestCurrentAfter(ctx context.Context, system refdata.CodeSystem, code string, asOf time.Time) (refdata.CrosswalkEntry, bool, error) {
	var entry refdata.CrosswalkEntry
	var eff pgtype.Date
	err := db.pool.QueryRow(ctx, `
		SELECT previous_code, current_code, effective_date
		FROM crosswalk_entries
		WHERE code_system = $1 AND current_code = $2 AND effective_date > $3
		ORDER BY effective_date ASC, id ASC
		LIMIT 1`,
		int16(system), refdata.NormalizeCode(code), pgtype.Date{Time: asOf, Valid: true}).
		Scan(&entry.PreviousCode, &entry.CurrentCode, &eff)
	if err == pgx.ErrNoRows {
		return refdata.CrosswalkEntry{}, false, nil
	}
	if err != nil {
		return refdata.CrosswalkEntry{}, false, fmt.Errorf("query crosswalk: %w", err)
	}
	entry.EffectiveDate = eff.Time
	entry.System = system
	return entry, true, nil
}

// AllPreviousAtOrBefore returns every crosswalk entry effective at or
// before asOf whose previous code is code, ascending by effective date.
func (db *DB) AllPreviousAtOrBefore(ctx context.Context, system refdata.CodeSystem, code string, asOf time.Time) ([]refdata.CrosswalkEntry, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT previous_code, current_code, effective_date
		FROM crosswalk_entries
		WHERE code_system = $1 AND previous_code = $2 AND effective_date <= $3
		ORDER BY effective_date ASC, id ASC`,
		int16(system), refdata.NormalizeCode(code), pgtype.Date{Time: asOf, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("query crosswalk: %w", err)
	}
	defer rows.Close()

	var entries []refdata.CrosswalkEntry
	for rows.Next() {
		var entry refdata.CrosswalkEntry
		var eff pgtype.Date
		if err := rows.Scan(&entry.PreviousCode, &entry.CurrentCode, &eff); err != nil {
			return nil, fmt.Errorf("scan crosswalk entry: %w", err)
		}
		entry.EffectiveDate = eff.Time
		entry.System = system
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanReferenceRecord(row pgx.Row) (refdata.ReferenceRecord, bool, error) {
	var rec refdata.ReferenceRecord
	var eff, end pgtype.Date
	var attrs []byte
	err := row.Scan(&rec.EntityKey, &eff, &end, &attrs)
	if err == pgx.ErrNoRows {
		return refdata.ReferenceRecord{}, false, nil
	}
	if err != nil {
		return refdata.ReferenceRecord{}, false, fmt.Errorf("scan reference record: %w", err)
	}
	rec.EffectiveDate = eff.Time
	rec.EndDate = end.Time
	rec.Attributes, err = unmarshalAttributes(attrs)
	if err != nil {
		return refdata.ReferenceRecord{}, false, err
	}
	return rec, true, nil
}
