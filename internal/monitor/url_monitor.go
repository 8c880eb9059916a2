package monitor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	customerrors "github.com/axellelanca/creatorverse/internal/errors"
	"github.com/axellelanca/creatorverse/internal/models"
)

// CreatorSource lists the creators whose links are monitored.
type CreatorSource interface {
	ListCreators(ctx context.Context) ([]models.Creator, error)
}

// CheckResult is the outcome of checking one creator link.
type CheckResult struct {
	CreatorID  string
	Field      string // models.ColumnURL or models.ColumnImageURL
	URL        string
	Accessible bool
	Changed    bool // state differs from the previous check
	First      bool // first time this link was checked
}

type checkJob struct {
	creator models.Creator
	field   string
	url     string
}

// UrlMonitor periodically checks that creator links (profile URL and image URL) still answer.
// It keeps the last known state per link and logs every transition.
type UrlMonitor struct {
	source         CreatorSource
	interval       time.Duration
	workerCount    int
	requestTimeout time.Duration
	knownStates    map[string]bool // "<creator id>#<field>" -> accessible
	mu             sync.Mutex
	httpClient     *http.Client
	logger         zerolog.Logger
}

// NewUrlMonitor creates a monitor checking links every interval with workerCount concurrent requests.
func NewUrlMonitor(source CreatorSource, interval time.Duration, workerCount int, requestTimeout time.Duration, logger zerolog.Logger) *UrlMonitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if workerCount < 1 {
		workerCount = 1
	}
	if requestTimeout <= 0 {
		requestTimeout = 5 * time.Second
	}
	return &UrlMonitor{
		source:         source,
		interval:       interval,
		workerCount:    workerCount,
		requestTimeout: requestTimeout,
		knownStates:    make(map[string]bool),
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   requestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.With().Str("component", "monitor").Logger(),
	}
}

// Start runs a check immediately, then every interval, until ctx is cancelled.
func (m *UrlMonitor) Start(ctx context.Context) {
	m.logger.Info().Dur("interval", m.interval).Int("workers", m.workerCount).Msg("starting URL monitor")
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.checkAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("URL monitor stopped")
			return
		case <-ticker.C:
			m.checkAndLog(ctx)
		}
	}
}

// Close releases idle connections kept by the monitor's HTTP client.
func (m *UrlMonitor) Close() {
	m.httpClient.CloseIdleConnections()
}

func (m *UrlMonitor) checkAndLog(ctx context.Context) {
	if _, err := m.CheckOnce(ctx); err != nil && ctx.Err() == nil {
		m.logger.Error().Err(err).Msg("error retrieving creators for monitoring")
	}
}

// CheckOnce checks every creator link once through the worker pool.
func (m *UrlMonitor) CheckOnce(ctx context.Context) ([]CheckResult, error) {
	creators, err := m.source.ListCreators(ctx)
	if err != nil {
		return nil, err
	}

	var jobs []checkJob
	for _, c := range creators {
		jobs = append(jobs, checkJob{creator: c, field: models.ColumnURL, url: c.URL})
		if c.ImageURL != "" {
			jobs = append(jobs, checkJob{creator: c, field: models.ColumnImageURL, url: c.ImageURL})
		}
	}

	jobsChan := make(chan checkJob)
	resultsChan := make(chan CheckResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < m.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobsChan {
				resultsChan <- m.check(ctx, job)
			}
		}()
	}

feed:
	for _, job := range jobs {
		select {
		case jobsChan <- job:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobsChan)
	wg.Wait()
	close(resultsChan)

	results := make([]CheckResult, 0, len(jobs))
	for r := range resultsChan {
		results = append(results, r)
	}
	// An interrupted pass did not see every link, keep what it skipped.
	if ctx.Err() == nil {
		m.forgetMissing(jobs)
	}
	m.logger.Debug().Int("links", len(results)).Msg("URL status verification completed")
	return results, ctx.Err()
}

func (m *UrlMonitor) check(ctx context.Context, job checkJob) CheckResult {
	accessible := m.isUrlAccessible(ctx, job.url)
	key := stateKey(job)

	m.mu.Lock()
	previous, exists := m.knownStates[key]
	m.knownStates[key] = accessible
	m.mu.Unlock()

	result := CheckResult{
		CreatorID:  job.creator.ID,
		Field:      job.field,
		URL:        job.url,
		Accessible: accessible,
		First:      !exists,
		Changed:    exists && previous != accessible,
	}

	event := m.logger.Debug()
	if result.Changed {
		event = m.logger.Warn()
	}
	event.
		Str("creator_id", job.creator.ID).
		Str("creator", job.creator.Name).
		Str("field", job.field).
		Str("url", job.url).
		Str("state", formatState(accessible)).
		Bool("changed", result.Changed).
		Msg("creator link checked")
	return result
}

// forgetMissing drops the state of links that are no longer listed: deleted creators
// or image URLs that were cleared.
func (m *UrlMonitor) forgetMissing(jobs []checkJob) {
	current := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		current[stateKey(job)] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.knownStates {
		if _, ok := current[key]; !ok {
			delete(m.knownStates, key)
		}
	}
}

func stateKey(job checkJob) string {
	return job.creator.ID + "#" + job.field
}

// isUrlAccessible sends a HEAD request; 2xx and 3xx count as accessible.
func (m *UrlMonitor) isUrlAccessible(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, m.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		m.logger.Debug().Err(customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}).Msg("invalid link")
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.Debug().Err(customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}).Msg("link unreachable")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// formatState makes the state readable in logs.
func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}
