package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// createCreatorsTable mirrors the hosted creators table. Column "imageURL" is
// mixed case, so every identifier goes through pgx.Identifier quoting.
const createCreatorsTable = `
CREATE TABLE IF NOT EXISTS "creators" (
  "id"          TEXT PRIMARY KEY,
  "name"        VARCHAR(50)   NOT NULL,
  "url"         VARCHAR(2048) NOT NULL,
  "description" VARCHAR(500)  NOT NULL,
  "imageURL"    VARCHAR(2048) NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS "idx_creators_url" ON "creators" ("url");
`

// PostgresStore implements RecordStore on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a pool for dsn, capped at maxConns connections when maxConns > 0.
func NewPostgresStore(ctx context.Context, dsn string, maxConns int32) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, table string, record Record) (Record, error) {
	if err := checkRequest(table, record, nil); err != nil {
		return nil, err
	}
	query, args := buildInsert(table, withID(record, uuid.NewString))
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return single(rows)
}

func (s *PostgresStore) Select(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
	if err := checkRequest(table, nil, filters); err != nil {
		return nil, err
	}
	query, args := buildSelect(table, filters)
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", table, err)
	}
	return rows, nil
}

func (s *PostgresStore) SelectOne(ctx context.Context, table string, filters ...Filter) (Record, error) {
	rows, err := s.Select(ctx, table, filters...)
	if err != nil {
		return nil, err
	}
	return single(rows)
}

func (s *PostgresStore) Update(ctx context.Context, table string, fields Record, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrMissingFilter
	}
	if err := checkRequest(table, fields, filters); err != nil {
		return 0, err
	}
	query, args := buildUpdate(table, fields, filters)
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Delete(ctx context.Context, table string, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrMissingFilter
	}
	if err := checkRequest(table, nil, filters); err != nil {
		return 0, err
	}
	query, args := buildDelete(table, filters)
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createCreatorsTable); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args []interface{}) ([]Record, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sortedColumns(record Record) []string {
	columns := make([]string, 0, len(record))
	for column := range record {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

// whereClause renders filters as positional predicates starting at $start.
func whereClause(filters []Filter, start int) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}
	predicates := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	for i, f := range filters {
		operator := "="
		if f.Op == OpNeq {
			operator = "<>"
		}
		predicates = append(predicates, fmt.Sprintf("%s %s $%d", quote(f.Field), operator, start+i))
		args = append(args, f.Value)
	}
	return " WHERE " + strings.Join(predicates, " AND "), args
}

func buildInsert(table string, record Record) (string, []interface{}) {
	columns := sortedColumns(record)
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		quoted[i] = quote(column)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = record[column]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		quote(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	return query, args
}

func buildSelect(table string, filters []Filter) (string, []interface{}) {
	where, args := whereClause(filters, 1)
	return fmt.Sprintf("SELECT * FROM %s%s", quote(table), where), args
}

func buildUpdate(table string, fields Record, filters []Filter) (string, []interface{}) {
	columns := sortedColumns(fields)
	assignments := make([]string, len(columns))
	args := make([]interface{}, 0, len(columns)+len(filters))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", quote(column), i+1)
		args = append(args, fields[column])
	}
	where, whereArgs := whereClause(filters, len(columns)+1)
	args = append(args, whereArgs...)
	return fmt.Sprintf("UPDATE %s SET %s%s", quote(table), strings.Join(assignments, ", "), where), args
}

func buildDelete(table string, filters []Filter) (string, []interface{}) {
	where, args := whereClause(filters, 1)
	return fmt.Sprintf("DELETE FROM %s%s", quote(table), where), args
}
