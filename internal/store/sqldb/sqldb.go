// Package sqldb implements store.Store on database/sql for both Postgres and SQLite.
// Queries are written with ? placeholders and rebound per dialect.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/store"
)

// Dialect selects placeholder syntax.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders to $n for Postgres.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

// DB is a database/sql backed store.
type DB struct {
	db *sql.DB
	d  Dialect
}

// New wraps an open connection pool. Call Migrate before first use.
func New(db *sql.DB, d Dialect) *DB { return &DB{db: db, d: d} }

func (s *DB) Restaurants() store.Restaurants { return &restaurants{s} }
func (s *DB) Menus() store.Menus             { return &menus{s} }
func (s *DB) Reviews() store.Reviews         { return &reviews{s} }
func (s *DB) Collections() store.Collections { return &collections{s} }

// HealthPing implements health.HealthPinger.
func (s *DB) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close closes the underlying pool.
func (s *DB) Close() error { return s.db.Close() }

// Migrate creates the schema if it does not exist.
func (s *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.d, err)
		}
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *DB) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.d.rebind(query), args...)
}

func (s *DB) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.d.rebind(query), args...)
}

func (s *DB) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.d.rebind(query), args...)
}

func (s *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *DB) exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var one int
	err := s.queryRow(ctx, q, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (s *DB) requireRestaurant(ctx context.Context, q querier, id string) error {
	ok, err := s.exists(ctx, q, `SELECT 1 FROM restaurants WHERE restaurant_id=?`, id)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewNotFoundError("restaurant", id)
	}
	return nil
}

func (s *DB) touch(ctx context.Context, q querier, restaurantID string) error {
	_, err := s.exec(ctx, q, `UPDATE restaurants SET update_time=? WHERE restaurant_id=?`, millis(now()), restaurantID)
	return err
}

func affected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

func millis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(s sql.NullString, v any) error {
	if !s.Valid || s.String == "" || s.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), v)
}

func nullableJSON(v any, present bool) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	s, err := encodeJSON(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: s, Valid: true}, nil
}

// DBHandle exposes the pool for maintenance tasks and tests.
func (s *DB) DBHandle() *sql.DB { return s.db }
