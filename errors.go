package foodies

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrNotFound is returned by stores when no meal has the requested slug.
	ErrNotFound = errors.New("foodies: meal not found")
	// ErrSlugExists is the constraint violation raised for a duplicate slug.
	ErrSlugExists = errors.New("foodies: slug already exists")
	// ErrInvalidImage is returned when an upload cannot be decoded as an image.
	ErrInvalidImage = errors.New("foodies: invalid image")
	// ErrImageTooLarge is wrapped together with ErrInvalidImage when the
	// image's pixel dimensions exceed maxImagePixels.
	ErrImageTooLarge = errors.New("foodies: image dimensions too large")
)

// SlugConflictError reports an insert that collided with an existing slug.
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	if e == nil || strings.TrimSpace(e.Slug) == "" {
		return ErrSlugExists.Error()
	}
	return fmt.Sprintf("%s: slug=%s", ErrSlugExists.Error(), e.Slug)
}

func (e *SlugConflictError) Unwrap() error {
	return ErrSlugExists
}

// ValidationError carries a user-facing message plus per-field problems for a
// rejected share submission.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "foodies: invalid input"
	}
	return "foodies: " + e.Message
}

// newFieldError builds a ValidationError for a single field.
func newFieldError(field, msg string) *ValidationError {
	return &ValidationError{
		Message: "Invalid input: " + field + ": " + msg + ".",
		Fields:  map[string]string{field: msg},
	}
}

// asValidationError converts ozzo validation errors into a ValidationError.
// Other errors are returned unchanged.
func asValidationError(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make(map[string]string, len(errs))
	keys := make([]string, 0, len(errs))
	for k, fe := range errs {
		if fe == nil {
			continue
		}
		fields[k] = fe.Error()
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return &ValidationError{
		Message: "Invalid input: " + strings.Join(parts, "; ") + ".",
		Fields:  fields,
	}
}

// UserMessage returns the message to show on the share form for err, and
// whether err is a failure the user can fix.
func UserMessage(err error) (string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message, true
	}
	if errors.Is(err, ErrSlugExists) {
		return "A meal with this title already exists. Pick a different title.", true
	}
	return "", false
}
