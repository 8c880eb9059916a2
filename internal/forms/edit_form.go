package forms

import (
	"context"
	"fmt"

	customerrors "github.com/axellelanca/creatorverse/internal/errors"
	"github.com/axellelanca/creatorverse/internal/models"
	"github.com/axellelanca/creatorverse/internal/store"
)

// EditState is the lifecycle of an EditForm.
type EditState int

const (
	// StateLoading is the state before Load returned.
	StateLoading EditState = iota
	// StateReady means the creator was loaded and the form can be submitted or deleted.
	StateReady
	// StateLoadError means the creator could not be loaded. Only Retry leaves it.
	StateLoadError
)

func (s EditState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadError:
		return "load_error"
	default:
		return fmt.Sprintf("EditState(%d)", int(s))
	}
}

// EditForm loads an existing creator, updates it after checking its URL is not
// used by another creator, and deletes it after confirmation.
type EditForm struct {
	deps         Deps
	id           string
	state        EditState
	fields       Fields
	fieldErrors  map[string]string
	errorMessage string
	loadErr      error
}

// NewEditForm returns a form for the creator id, in the loading state.
func NewEditForm(id string, deps Deps) *EditForm {
	return &EditForm{deps: deps, id: id, state: StateLoading}
}

// ID is the id of the creator being edited.
func (f *EditForm) ID() string { return f.id }

// State reports where the form is in its lifecycle.
func (f *EditForm) State() EditState { return f.state }

// Fields returns the values shown in the form: the loaded creator, or the last submission.
func (f *EditForm) Fields() Fields { return f.fields }

// FieldErrors maps a field name to its validation message after a rejected Submit.
func (f *EditForm) FieldErrors() map[string]string { return f.fieldErrors }

// LoadErr is the error of the last failed Load, nil otherwise.
func (f *EditForm) LoadErr() error { return f.loadErr }

// ErrorMessage is the message shown above the form, empty when there is none.
func (f *EditForm) ErrorMessage() string { return f.errorMessage }

// Load fetches the creator and fills the form. On failure the form enters StateLoadError.
func (f *EditForm) Load(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			f.state = StateLoadError
			f.loadErr = err
			f.deps.Metrics.observeLoad("error")
			return
		}
		f.deps.Metrics.observeLoad("success")
	}()
	defer recoverUnexpected(f.deps.Logger, "fetching", &err)

	f.state = StateLoading
	f.loadErr = nil

	row, err := f.deps.Store.SelectOne(ctx, models.CreatorsTable, store.Eq(models.ColumnID, f.id))
	if err != nil {
		f.deps.Logger.Error().Err(err).Str("creator_id", f.id).Msg("Error fetching creator")
		return &customerrors.FetchError{ID: f.id, Err: err}
	}

	f.fields = FieldsFromCreator(models.CreatorFromRecord(row))
	f.state = StateReady
	return nil
}

// Retry loads the creator again after a failed Load. It does nothing in any other state.
func (f *EditForm) Retry(ctx context.Context) error {
	if f.state != StateLoadError {
		return nil
	}
	return f.Load(ctx)
}

// Submit checks that no other creator uses fields.URL, updates the creator and
// navigates to its page. A duplicate URL sets ErrorMessage and writes nothing.
// The check and the update are two separate requests.
func (f *EditForm) Submit(ctx context.Context, fields Fields) (err error) {
	defer func() { f.deps.Metrics.observeSubmission("edit", outcome(err)) }()
	defer recoverUnexpected(f.deps.Logger, "updating", &err)

	if f.state != StateReady {
		return customerrors.ErrFormNotReady
	}

	f.fields = fields
	f.fieldErrors = nil
	f.errorMessage = ""

	if verr := fields.Validate(); verr != nil {
		f.fieldErrors = fieldMessages(verr)
		return fmt.Errorf("%w: %v", customerrors.ErrInvalidFields, verr)
	}

	others, err := f.deps.Store.Select(ctx, models.CreatorsTable,
		store.Eq(models.ColumnURL, fields.URL),
		store.Neq(models.ColumnID, f.id),
	)
	if err != nil {
		f.deps.Logger.Error().Err(err).Str("creator_id", f.id).Msg("Error checking creator URL")
		return &customerrors.FetchError{ID: f.id, Err: err}
	}
	if len(others) > 0 {
		f.errorMessage = customerrors.DuplicateURLMessage
		return &customerrors.DuplicateURLError{URL: fields.URL}
	}

	updated, err := f.deps.Store.Update(ctx, models.CreatorsTable, fields.record(), store.Eq(models.ColumnID, f.id))
	if err != nil {
		f.deps.Logger.Error().Err(err).Str("creator_id", f.id).Msg("Error updating creator")
		return &customerrors.WriteError{Op: "update", ID: f.id, Err: err}
	}
	if updated == 0 {
		f.deps.Logger.Warn().Str("creator_id", f.id).Msg("update matched no creator")
	}

	f.deps.Navigator.GoTo(DetailRoute(f.id))
	return nil
}

// Delete asks for confirmation, deletes the creator and navigates to the listing.
// It reports whether the creator was deleted; a declined confirmation is not an error.
func (f *EditForm) Delete(ctx context.Context) (deleted bool, err error) {
	declined := false
	defer func() {
		if declined {
			f.deps.Metrics.observeSubmission("delete", "declined")
			return
		}
		f.deps.Metrics.observeSubmission("delete", outcome(err))
	}()
	defer recoverUnexpected(f.deps.Logger, "deleting", &err)

	if f.state != StateReady {
		return false, customerrors.ErrFormNotReady
	}

	if !f.deps.Confirmer.Ask(DeleteConfirmMessage) {
		declined = true
		return false, nil
	}

	if _, err := f.deps.Store.Delete(ctx, models.CreatorsTable, store.Eq(models.ColumnID, f.id)); err != nil {
		f.deps.Logger.Error().Err(err).Str("creator_id", f.id).Msg("Error deleting creator")
		return false, &customerrors.WriteError{Op: "delete", ID: f.id, Err: err}
	}

	f.deps.Logger.Info().Str("creator_id", f.id).Msg("creator deleted")
	f.deps.Navigator.GoTo(ListingRoute)
	return true, nil
}
