package foodies

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate checks that every required field is present. Call Normalize first
// so that whitespace-only values count as blank.
func (f MealForm) Validate() error {
	err := validation.Errors{
		"title":         validation.Validate(f.Title, validation.Required.Error("title is required")),
		"summary":       validation.Validate(f.Summary, validation.Required.Error("summary is required")),
		"instructions":  validation.Validate(f.Instructions, validation.Required.Error("instructions are required")),
		"creator":       validation.Validate(f.Creator, validation.Required.Error("your name is required")),
		"creator_email": validation.Validate(f.CreatorEmail, validation.Required.Error("your email is required"), is.EmailFormat.Error("email is not valid")),
		"image":         validation.Validate(f.Image, validation.NotNil.Error("an image is required")),
	}.Filter()
	if err != nil {
		return asValidationError(err)
	}
	return nil
}
