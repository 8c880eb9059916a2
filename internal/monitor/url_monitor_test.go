package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/axellelanca/creatorverse/internal/models"
)

type staticSource struct {
	creators []models.Creator
	err      error
}

func (s staticSource) ListCreators(ctx context.Context) ([]models.Creator, error) {
	return s.creators, s.err
}

func sortResults(results []CheckResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatorID != results[j].CreatorID {
			return results[i].CreatorID < results[j].CreatorID
		}
		return results[i].Field < results[j].Field
	})
}

func TestCheckOnceTracksTransitions(t *testing.T) {
	defer goleak.VerifyNone(t)

	var imageUp atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/moved":
			http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
		case "/image":
			if imageUp.Load() {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	source := staticSource{creators: []models.Creator{
		{ID: "1", Name: "Ada", URL: server.URL + "/ok", ImageURL: server.URL + "/image"},
		{ID: "2", Name: "Grace", URL: server.URL + "/moved"},
		{ID: "3", Name: "Linus", URL: server.URL + "/broken"},
	}}
	m := NewUrlMonitor(source, time.Minute, 2, time.Second, zerolog.Nop())
	defer m.Close()

	results, err := m.CheckOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)
	sortResults(results)

	assert.Equal(t, CheckResult{CreatorID: "1", Field: models.ColumnImageURL, URL: server.URL + "/image", Accessible: false, First: true}, results[0])
	assert.Equal(t, CheckResult{CreatorID: "1", Field: models.ColumnURL, URL: server.URL + "/ok", Accessible: true, First: true}, results[1])
	assert.True(t, results[2].Accessible, "redirects count as accessible")
	assert.False(t, results[3].Accessible)

	imageUp.Store(true)
	results, err = m.CheckOnce(context.Background())
	require.NoError(t, err)
	sortResults(results)

	assert.True(t, results[0].Accessible)
	assert.True(t, results[0].Changed)
	assert.False(t, results[0].First)
	for _, r := range results[1:] {
		assert.False(t, r.Changed, r.URL)
	}
}

func TestCheckOnceSourceError(t *testing.T) {
	m := NewUrlMonitor(staticSource{err: errors.New("store down")}, time.Minute, 1, time.Second, zerolog.Nop())
	defer m.Close()

	_, err := m.CheckOnce(context.Background())
	assert.EqualError(t, err, "store down")
}

func TestCheckOnceInvalidURL(t *testing.T) {
	source := staticSource{creators: []models.Creator{{ID: "1", URL: "://nope"}}}
	m := NewUrlMonitor(source, time.Minute, 1, time.Second, zerolog.Nop())
	defer m.Close()

	results, err := m.CheckOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Accessible)
}

func TestStartStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewUrlMonitor(staticSource{}, time.Hour, 1, time.Second, zerolog.Nop())
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestNewUrlMonitorDefaults(t *testing.T) {
	m := NewUrlMonitor(staticSource{}, 0, 0, 0, zerolog.Nop())
	assert.Equal(t, 5*time.Minute, m.interval)
	assert.Equal(t, 1, m.workerCount)
	assert.Equal(t, 5*time.Second, m.requestTimeout)
}

func TestCheckOnceForgetsRemovedLinks(t *testing.T) {
	defer goleak.VerifyNone(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ada := models.Creator{ID: "1", Name: "Ada", URL: server.URL + "/ada", ImageURL: server.URL + "/ada.png"}
	grace := models.Creator{ID: "2", Name: "Grace", URL: server.URL + "/grace"}
	source := &staticSource{creators: []models.Creator{ada, grace}}
	m := NewUrlMonitor(source, time.Minute, 2, time.Second, zerolog.Nop())
	defer m.Close()

	_, err := m.CheckOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.knownStates, 3)

	// Grace is deleted and Ada clears her image.
	ada.ImageURL = ""
	source.creators = []models.Creator{ada}
	_, err = m.CheckOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"1#" + models.ColumnURL: true}, m.knownStates)

	// A creator coming back is checked as new.
	source.creators = []models.Creator{ada, grace}
	results, err := m.CheckOnce(context.Background())
	require.NoError(t, err)
	sortResults(results)
	require.Len(t, results, 2)
	assert.False(t, results[0].First)
	assert.True(t, results[1].First)
}

func TestCheckOnceCancelledKeepsStates(t *testing.T) {
	source := &staticSource{creators: []models.Creator{{ID: "1", URL: "://nope"}}}
	m := NewUrlMonitor(source, time.Minute, 1, time.Second, zerolog.Nop())
	defer m.Close()

	_, err := m.CheckOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, m.knownStates, 1)

	source.creators = nil
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.CheckOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, m.knownStates, 1)
}
