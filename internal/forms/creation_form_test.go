package forms

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/axellelanca/creatorverse/internal/errors"
	"github.com/axellelanca/creatorverse/internal/models"
)

func validFields() Fields {
	return Fields{
		Name:        "Ada",
		URL:         "https://ada.dev",
		Description: "Writes about analytical engines",
	}
}

func newDeps(s *fakeStore, r *recorder) Deps {
	return Deps{Store: s, Navigator: r, Confirmer: r, Logger: zerolog.Nop()}
}

// counterValue reads a counter from registry, 0 when it was never incremented.
func counterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if labels[label.GetName()] != label.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCreationForm_SubmitInsertsAndNavigates(t *testing.T) {
	s := &fakeStore{}
	r := &recorder{}
	form := NewCreationForm(newDeps(s, r))

	id, err := form.Submit(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	assert.Equal(t, []string{"Insert"}, s.methods())
	call, _ := s.lastCall("Insert")
	assert.Equal(t, models.CreatorsTable, call.table)
	assert.Equal(t, map[string]interface{}{
		"name":        "Ada",
		"url":         "https://ada.dev",
		"description": "Writes about analytical engines",
		"imageURL":    "",
	}, call.record)
	assert.Equal(t, []string{"/"}, r.routes)
}

func TestCreationForm_SubmitSendsImageURL(t *testing.T) {
	s := &fakeStore{}
	form := NewCreationForm(newDeps(s, &recorder{}))

	fields := validFields()
	fields.ImageURL = "https://ada.dev/portrait.png"
	_, err := form.Submit(context.Background(), fields)
	require.NoError(t, err)

	call, _ := s.lastCall("Insert")
	assert.Equal(t, "https://ada.dev/portrait.png", call.record["imageURL"])
}

func TestCreationForm_InsertFailureKeepsValues(t *testing.T) {
	s := &fakeStore{insertErr: errors.New("permission denied")}
	r := &recorder{}
	form := NewCreationForm(newDeps(s, r))

	_, err := form.Submit(context.Background(), validFields())
	require.Error(t, err)

	var writeErr *customerrors.WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "insert", writeErr.Op)
	assert.Empty(t, r.routes)
	assert.Equal(t, validFields(), form.Fields())
}

func TestCreationForm_InvalidFieldsNeverReachStore(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		field  string
	}{
		{"missing name", Fields{URL: "https://ada.dev", Description: "d"}, "name"},
		{"missing url", Fields{Name: "Ada", Description: "d"}, "url"},
		{"missing description", Fields{Name: "Ada", URL: "https://ada.dev"}, "description"},
		{"name too long", Fields{Name: strings.Repeat("a", 51), URL: "https://ada.dev", Description: "d"}, "name"},
		{"description too long", Fields{Name: "Ada", URL: "https://ada.dev", Description: strings.Repeat("d", 501)}, "description"},
		{"relative url", Fields{Name: "Ada", URL: "ada.dev", Description: "d"}, "url"},
		{"bad image url", Fields{Name: "Ada", URL: "https://ada.dev", Description: "d", ImageURL: "portrait"}, "imageURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeStore{}
			r := &recorder{}
			form := NewCreationForm(newDeps(s, r))

			_, err := form.Submit(context.Background(), tt.fields)
			assert.ErrorIs(t, err, customerrors.ErrInvalidFields)
			assert.Contains(t, form.FieldErrors(), tt.field)
			assert.Empty(t, s.methods())
			assert.Empty(t, r.routes)
		})
	}
}

func TestCreationForm_LengthsCountCharacters(t *testing.T) {
	s := &fakeStore{}
	form := NewCreationForm(newDeps(s, &recorder{}))

	fields := validFields()
	fields.Name = strings.Repeat("é", models.NameMaxLength)
	_, err := form.Submit(context.Background(), fields)
	assert.NoError(t, err)
}

func TestCreationForm_PanicBecomesUnexpectedError(t *testing.T) {
	s := &fakeStore{panicOn: "Insert"}
	r := &recorder{}
	form := NewCreationForm(newDeps(s, r))

	_, err := form.Submit(context.Background(), validFields())
	var unexpected *customerrors.UnexpectedError
	require.True(t, errors.As(err, &unexpected))
	assert.Equal(t, "adding", unexpected.Op)
	assert.Empty(t, r.routes)
}

func TestCreationForm_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	deps := newDeps(&fakeStore{}, &recorder{})
	deps.Metrics = NewMetrics(registry)

	form := NewCreationForm(deps)
	_, err := form.Submit(context.Background(), validFields())
	require.NoError(t, err)
	_, err = form.Submit(context.Background(), Fields{})
	require.Error(t, err)

	assert.Equal(t, 1.0, counterValue(t, registry, "creatorverse_form_submissions_total",
		map[string]string{"form": "create", "outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, registry, "creatorverse_form_submissions_total",
		map[string]string{"form": "create", "outcome": "invalid"}))
}
