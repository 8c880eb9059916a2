// Package forms holds the create and edit/delete workflows for creator records.
// Forms talk to a store.RecordStore and leave page changes and confirmation prompts
// to the injected Navigator and Confirmer, so the same workflow backs the HTML
// pages and the CLI.
package forms

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/axellelanca/creatorverse/internal/models"
)

// Fields are the four editable inputs of a creator form.
type Fields struct {
	Name        string `json:"name" form:"name"`
	URL         string `json:"url" form:"url"`
	Description string `json:"description" form:"description"`
	ImageURL    string `json:"imageURL" form:"imageURL"`
}

// FieldsFromCreator copies the editable values of c.
func FieldsFromCreator(c models.Creator) Fields {
	return Fields{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

// Validate applies the input constraints of the form: name, url and description are
// required; lengths are bounded in characters; url and imageURL must be absolute URLs.
// It returns validation.Errors keyed by field name, or nil.
func (f Fields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.RuneLength(1, models.NameMaxLength)),
		validation.Field(&f.URL, validation.Required, validation.RuneLength(1, models.URLMaxLength), is.RequestURL),
		validation.Field(&f.Description, validation.Required, validation.RuneLength(1, models.DescriptionMaxLength)),
		validation.Field(&f.ImageURL, validation.RuneLength(0, models.ImageURLMaxLength), is.RequestURL),
	)
}

func (f Fields) record() map[string]interface{} {
	return models.Creator{
		Name:        f.Name,
		URL:         f.URL,
		Description: f.Description,
		ImageURL:    f.ImageURL,
	}.Fields()
}

// fieldMessages flattens validation errors into one message per field.
func fieldMessages(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	messages := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		messages[field] = fieldErr.Error()
	}
	return messages
}
