package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// maxBatch keeps IN lists well under SQLite's bound-variable limit.
const maxBatch = 500

// Fixed-width so stored timestamps also sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}

func nullableString(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) interface{} {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// jsonColumn encodes a value for a TEXT column; nil maps to SQL NULL.
func jsonColumn(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return string(raw), nil
}

func scanJSON(ns sql.NullString, dest interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), dest)
}

// inClause returns "?,?,?" and the matching args for ids.
func inClause(ids []string) (string, []interface{}) {
	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders, args
}

func chunkIDs(ids []string) [][]string {
	var chunks [][]string
	for len(ids) > maxBatch {
		chunks = append(chunks, ids[:maxBatch])
		ids = ids[maxBatch:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// deleteWhereIn runs DELETE FROM table WHERE column IN (...) in batches.
func deleteWhereIn(ctx context.Context, db dbtx, table, column string, ids []string) error {
	for _, chunk := range chunkIDs(ids) {
		placeholders, args := inClause(chunk)
		query := fmt.Sprintf(`DELETE FROM %s WHERE %s IN (%s)`, table, column, placeholders)
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func truncate(ctx context.Context, db dbtx, table string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("reset %s: %w", table, err)
	}
	return nil
}

// withTx runs fn in a transaction when db can begin one, otherwise directly.
func withTx(ctx context.Context, db dbtx, fn func(dbtx) error) error {
	beginner, ok := db.(interface {
		BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	})
	if !ok {
		return fn(db)
	}
	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
