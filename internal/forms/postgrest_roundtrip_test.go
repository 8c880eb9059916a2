package forms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axellelanca/creatorverse/internal/store"
)

// A hosted table with a bigint id must keep the id readable in routes.
func TestFormsAgainstPostgRESTWithNumericID(t *testing.T) {
	const row = `[{"id":1234567,"name":"Ada","url":"https://ada.dev","description":"Writes about analytical engines","imageURL":""}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Query().Get("url") != "":
			_, _ = w.Write([]byte(`[]`))
		case r.Method == http.MethodGet:
			assert.Equal(t, "eq.1234567", r.URL.Query().Get("id"))
			_, _ = w.Write([]byte(row))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(row))
		case r.Method == http.MethodPatch:
			assert.Equal(t, "eq.1234567", r.URL.Query().Get("id"))
			_, _ = w.Write([]byte(row))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	t.Cleanup(server.Close)
	s := store.NewPostgRESTStore(server.URL, "anon", 5*time.Second)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	r := &recorder{}
	deps := Deps{Store: s, Navigator: r, Confirmer: r, Logger: zerolog.Nop()}

	id, err := NewCreationForm(deps).Submit(ctx, validFields())
	require.NoError(t, err)
	assert.Equal(t, "1234567", id)

	edit := NewEditForm(id, deps)
	require.NoError(t, edit.Load(ctx))
	assert.Equal(t, validFields(), edit.Fields())

	require.NoError(t, edit.Submit(ctx, validFields()))
	assert.Equal(t, []string{"/", DetailRoute("1234567")}, r.routes)
	assert.Equal(t, "/creator/1234567", DetailRoute(id))
}
