package forms

import (
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/axellelanca/creatorverse/internal/store"
)

// ListingRoute is the page listing every creator.
const ListingRoute = "/"

// DeleteConfirmMessage is the question asked before a creator is deleted.
const DeleteConfirmMessage = "Are you sure you want to delete this creator?"

// DetailRoute is the page of a single creator.
func DetailRoute(id string) string {
	return "/creator/" + url.PathEscape(id)
}

// Navigator moves the user to another page once a form succeeded.
type Navigator interface {
	GoTo(route string)
}

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Ask(message string) bool
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (fn NavigatorFunc) GoTo(route string) { fn(route) }

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(message string) bool

func (fn ConfirmerFunc) Ask(message string) bool { return fn(message) }

// Deps are the collaborators a form needs.
type Deps struct {
	Store     store.RecordStore
	Navigator Navigator
	Confirmer Confirmer
	Logger    zerolog.Logger
	Metrics   *Metrics
}

// Metrics counts form outcomes. A nil *Metrics records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	loads       *prometheus.CounterVec
}

// NewMetrics creates the form counters and registers them with registry.
// A nil registry leaves them unregistered.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "creatorverse_form_submissions_total",
			Help: "Creator form submissions by form and outcome",
		}, []string{"form", "outcome"}),
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "creatorverse_form_loads_total",
			Help: "Edit form loads by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeSubmission(form, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(form, outcome).Inc()
}

func (m *Metrics) observeLoad(outcome string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(outcome).Inc()
}
