package forms

import (
	"context"
	"fmt"
	"sync"

	"github.com/axellelanca/creatorverse/internal/store"
)

type storeCall struct {
	method  string
	table   string
	record  store.Record
	filters []store.Filter
}

// fakeStore is an in-memory RecordStore that records every call.
type fakeStore struct {
	mu     sync.Mutex
	calls  []storeCall
	rows   []store.Record
	nextID int

	insertErr error
	selectErr error // Select only, not SelectOne
	loadErr   error // SelectOne
	updateErr error
	deleteErr error
	panicOn   string
}

func (s *fakeStore) record(method, table string, record store.Record, filters []store.Filter) {
	s.calls = append(s.calls, storeCall{method: method, table: table, record: record, filters: filters})
	if s.panicOn == method {
		panic("store exploded")
	}
}

func (s *fakeStore) methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.method)
	}
	return out
}

func (s *fakeStore) lastCall(method string) (storeCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].method == method {
			return s.calls[i], true
		}
	}
	return storeCall{}, false
}

func (s *fakeStore) seed(id string, fields Fields) {
	row := fields.record()
	row["id"] = id
	s.rows = append(s.rows, row)
}

func matches(row store.Record, filters []store.Filter) bool {
	for _, f := range filters {
		equal := fmt.Sprint(row[f.Field]) == fmt.Sprint(f.Value)
		if (f.Op == store.OpEq) != equal {
			return false
		}
	}
	return true
}

func (s *fakeStore) Insert(ctx context.Context, table string, record store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Insert", table, record, nil)
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	s.nextID++
	row := make(store.Record, len(record)+1)
	for k, v := range record {
		row[k] = v
	}
	row["id"] = fmt.Sprintf("id-%d", s.nextID)
	s.rows = append(s.rows, row)
	return row, nil
}

func (s *fakeStore) selectRows(filters []store.Filter) []store.Record {
	var out []store.Record
	for _, row := range s.rows {
		if matches(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func (s *fakeStore) Select(ctx context.Context, table string, filters ...store.Filter) ([]store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Select", table, nil, filters)
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	return s.selectRows(filters), nil
}

func (s *fakeStore) SelectOne(ctx context.Context, table string, filters ...store.Filter) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("SelectOne", table, nil, filters)
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	rows := s.selectRows(filters)
	if len(rows) == 0 {
		return nil, store.ErrNoRows
	}
	return rows[0], nil
}

func (s *fakeStore) Update(ctx context.Context, table string, fields store.Record, filters ...store.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Update", table, fields, filters)
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	var n int64
	for _, row := range s.rows {
		if matches(row, filters) {
			for k, v := range fields {
				row[k] = v
			}
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) Delete(ctx context.Context, table string, filters ...store.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("Delete", table, nil, filters)
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	kept := s.rows[:0]
	var n int64
	for _, row := range s.rows {
		if matches(row, filters) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return n, nil
}

// recorder collects navigations and confirmation questions.
type recorder struct {
	routes    []string
	questions []string
	answer    bool
}

func (r *recorder) GoTo(route string) { r.routes = append(r.routes, route) }

func (r *recorder) Ask(message string) bool {
	r.questions = append(r.questions, message)
	return r.answer
}
