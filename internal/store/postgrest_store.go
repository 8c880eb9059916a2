package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	postgrest "github.com/supabase-community/postgrest-go"
)

// PostgRESTStore implements RecordStore against a hosted PostgREST API such as a
// Supabase project. Authentication is the project's API key, nothing more.
type PostgRESTStore struct {
	restURL   string
	apiKey    string
	transport *http.Transport
}

// NewPostgRESTStore targets baseURL (the project URL, without /rest/v1).
func NewPostgRESTStore(baseURL, apiKey string, timeout time.Duration) *PostgRESTStore {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &PostgRESTStore{
		restURL:   strings.TrimRight(baseURL, "/") + "/rest/v1",
		apiKey:    apiKey,
		transport: transport,
	}
}

// contextTransport attaches the caller's context to every request the client sends.
// Error bodies are buffered and closed here, the client never closes them.
type contextTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req.WithContext(t.ctx))
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

// client builds a client bound to ctx. Clients keep their first error, so one is
// built per call.
func (s *PostgRESTStore) client(ctx context.Context) (*postgrest.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := postgrest.NewClient(s.restURL, "", nil)
	if c.ClientError != nil {
		return nil, fmt.Errorf("invalid postgrest url: %w", c.ClientError)
	}
	c.Transport.Parent = contextTransport{ctx: ctx, next: s.transport}
	if s.apiKey != "" {
		c.SetApiKey(s.apiKey).SetAuthToken(s.apiKey)
	}
	return c, nil
}

func (s *PostgRESTStore) Insert(ctx context.Context, table string, record Record) (Record, error) {
	if err := checkRequest(table, record, nil); err != nil {
		return nil, err
	}
	c, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.run(c, c.From(table).Insert([]Record{record}, false, "", "representation", ""), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return single(rows)
}

func (s *PostgRESTStore) Select(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
	if err := checkRequest(table, nil, filters); err != nil {
		return nil, err
	}
	c, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.run(c, c.From(table).Select("*", "", false), filters)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", table, err)
	}
	return rows, nil
}

func (s *PostgRESTStore) SelectOne(ctx context.Context, table string, filters ...Filter) (Record, error) {
	rows, err := s.Select(ctx, table, filters...)
	if err != nil {
		return nil, err
	}
	return single(rows)
}

func (s *PostgRESTStore) Update(ctx context.Context, table string, fields Record, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrMissingFilter
	}
	if err := checkRequest(table, fields, filters); err != nil {
		return 0, err
	}
	c, err := s.client(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := s.run(c, c.From(table).Update(fields, "representation", ""), filters)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", table, err)
	}
	return int64(len(rows)), nil
}

func (s *PostgRESTStore) Delete(ctx context.Context, table string, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrMissingFilter
	}
	if err := checkRequest(table, nil, filters); err != nil {
		return 0, err
	}
	c, err := s.client(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := s.run(c, c.From(table).Delete("representation", ""), filters)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return int64(len(rows)), nil
}

// Migrate is a no-op: the hosted table is managed from the provider's dashboard.
func (s *PostgRESTStore) Migrate(ctx context.Context) error {
	return nil
}

// Ping issues a one-row select on the creators table.
func (s *PostgRESTStore) Ping(ctx context.Context) error {
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	_, _, err = c.From("creators").Select("*", "", false).Limit(1, "").Execute()
	return err
}

func (s *PostgRESTStore) Close() error {
	s.transport.CloseIdleConnections()
	return nil
}

// run applies filters, sends the request and decodes the returned rows.
func (s *PostgRESTStore) run(c *postgrest.Client, query *postgrest.FilterBuilder, filters []Filter) ([]Record, error) {
	// A body that failed to encode leaves an empty builder behind.
	if c.ClientError != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", c.ClientError)
	}
	seen := make(map[string]bool, len(filters))
	for _, f := range filters {
		// The query string holds one condition per column.
		if seen[f.Field] {
			return nil, fmt.Errorf("postgrest: more than one filter on column %q", f.Field)
		}
		seen[f.Field] = true
		switch f.Op {
		case OpEq:
			query = query.Eq(f.Field, fmt.Sprint(f.Value))
		case OpNeq:
			query = query.Neq(f.Field, fmt.Sprint(f.Value))
		}
	}
	data, _, err := query.Execute()
	if err != nil {
		return nil, err
	}
	return decodeRows(data)
}

// decodeRows keeps numbers as json.Number so integer ids survive intact.
func decodeRows(data []byte) ([]Record, error) {
	var rows []Record
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return rows, nil
}
