// Package store exposes the record store the creator forms talk to, along with
// the backends that implement it (embedded SQLite through GORM, PostgreSQL through
// pgx, and a hosted PostgREST endpoint).
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Record is one row of a table, keyed by column name.
type Record = map[string]interface{}

var (
	// ErrNoRows is returned by SelectOne when nothing matched.
	ErrNoRows = errors.New("no rows in result set")
	// ErrMultipleRows is returned by SelectOne when more than one row matched.
	ErrMultipleRows = errors.New("multiple rows in result set")
	// ErrInvalidIdentifier is returned for table or column names that are not plain identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrMissingFilter is returned when an update or delete would touch the whole table.
	ErrMissingFilter = errors.New("update and delete require at least one filter")
)

// Op is a filter comparison.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
)

// Filter narrows a select, update or delete to the rows whose Field compares to Value.
type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

// Eq matches rows where field equals value.
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Neq matches rows where field differs from value.
func Neq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpNeq, Value: value}
}

// RecordStore is the table API of the hosted database.
// Every method reports failures through its error result; callers treat any
// non-nil error as a failed operation.
type RecordStore interface {
	// Insert stores a new row and returns it as persisted, id included.
	// A missing id is assigned by the store.
	Insert(ctx context.Context, table string, record Record) (Record, error)
	Select(ctx context.Context, table string, filters ...Filter) ([]Record, error)
	// SelectOne is Select narrowed to a single expected row.
	SelectOne(ctx context.Context, table string, filters ...Filter) (Record, error)
	// Update sets fields on every matching row and returns how many rows matched.
	Update(ctx context.Context, table string, fields Record, filters ...Filter) (int64, error)
	Delete(ctx context.Context, table string, filters ...Filter) (int64, error)
}

// Backend is a RecordStore the process owns: it can create its schema, be
// health-checked and must be closed.
type Backend interface {
	RecordStore
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// checkRequest validates the table, the record columns and the filter columns of a call.
func checkRequest(table string, record Record, filters []Filter) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	for column := range record {
		if err := checkIdentifier(column); err != nil {
			return err
		}
	}
	for _, f := range filters {
		if err := checkIdentifier(f.Field); err != nil {
			return err
		}
		if f.Op != OpEq && f.Op != OpNeq {
			return fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}
	return nil
}

// single narrows a result set to exactly one row.
func single(rows []Record) (Record, error) {
	switch len(rows) {
	case 0:
		return nil, ErrNoRows
	case 1:
		return rows[0], nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrMultipleRows, len(rows))
	}
}

// withID copies record and assigns a fresh id when none was provided.
func withID(record Record, newID func() string) Record {
	row := make(Record, len(record)+1)
	for k, v := range record {
		row[k] = v
	}
	if id, ok := row["id"]; !ok || id == nil || id == "" {
		row["id"] = newID()
	}
	return row
}
