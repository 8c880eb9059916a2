package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	customerrors "github.com/axellelanca/creatorverse/internal/errors"
	"github.com/axellelanca/creatorverse/internal/models"
)

// CreationForm collects a new creator and inserts it.
type CreationForm struct {
	deps        Deps
	fields      Fields
	fieldErrors map[string]string
}

// NewCreationForm returns an empty creation form.
func NewCreationForm(deps Deps) *CreationForm {
	return &CreationForm{deps: deps}
}

// Fields returns the values last submitted, so a failed submission can be shown again.
func (f *CreationForm) Fields() Fields { return f.fields }

// FieldErrors returns per-field validation messages of the last submission.
func (f *CreationForm) FieldErrors() map[string]string { return f.fieldErrors }

// Submit inserts a creator with fields and navigates to the listing.
// The id of the new creator is assigned by the store and returned.
// Store failures are logged and returned; the form keeps its values.
func (f *CreationForm) Submit(ctx context.Context, fields Fields) (id string, err error) {
	defer func() { f.deps.Metrics.observeSubmission("create", outcome(err)) }()
	defer recoverUnexpected(f.deps.Logger, "adding", &err)

	f.fields = fields
	f.fieldErrors = nil

	if verr := fields.Validate(); verr != nil {
		f.fieldErrors = fieldMessages(verr)
		return "", fmt.Errorf("%w: %v", customerrors.ErrInvalidFields, verr)
	}

	row, err := f.deps.Store.Insert(ctx, models.CreatorsTable, fields.record())
	if err != nil {
		f.deps.Logger.Error().Err(err).Str("op", "insert").Msg("Error adding creator")
		return "", &customerrors.WriteError{Op: "insert", Err: err}
	}

	created := models.CreatorFromRecord(row)
	f.deps.Logger.Info().Str("creator_id", created.ID).Msg("creator added")
	f.deps.Navigator.GoTo(ListingRoute)
	return created.ID, nil
}

// recoverUnexpected turns a panic raised while talking to the store into an UnexpectedError.
func recoverUnexpected(logger zerolog.Logger, op string, errp *error) {
	if r := recover(); r != nil {
		logger.Error().Interface("panic", r).Str("op", op).Msgf("Unexpected error %s creator", op)
		*errp = &customerrors.UnexpectedError{Op: op, Cause: r}
	}
}

// outcome labels err for the form metrics.
func outcome(err error) string {
	var (
		duplicate  *customerrors.DuplicateURLError
		fetch      *customerrors.FetchError
		write      *customerrors.WriteError
		unexpected *customerrors.UnexpectedError
	)
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, customerrors.ErrInvalidFields):
		return "invalid"
	case errors.Is(err, customerrors.ErrFormNotReady):
		return "not_ready"
	case errors.As(err, &duplicate):
		return "duplicate_url"
	case errors.As(err, &unexpected):
		return "unexpected"
	case errors.As(err, &fetch):
		return "fetch_error"
	case errors.As(err, &write):
		return "write_error"
	default:
		return "error"
	}
}
