package foodies

import (
	"io"
	"strings"
)

// Meal is the shared recipe stored in the database and rendered by templates.
type Meal struct {
	Slug         string
	Title        string
	Summary      string
	Instructions string
	Image        string
	Creator      string
	CreatorEmail string
}

// Link returns the public path of the meal page.
func (m Meal) Link() string {
	return "/meals/" + m.Slug + "/"
}

// MealForm is the validated record built from a share submission.
type MealForm struct {
	Title        string
	Summary      string
	Instructions string
	Creator      string
	CreatorEmail string
	Image        *ImageUpload
}

// ImageUpload is the binary payload attached to a share submission.
type ImageUpload struct {
	Size    int64
	Content io.Reader
}

// Normalize trims surrounding whitespace from every text field.
func (f *MealForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Summary = strings.TrimSpace(f.Summary)
	f.Instructions = strings.TrimSpace(f.Instructions)
	f.Creator = strings.TrimSpace(f.Creator)
	f.CreatorEmail = strings.TrimSpace(f.CreatorEmail)
}

// ShareFormState is what the share form template needs to re-render after a
// failed submission.
type ShareFormState struct {
	Message string
	Fields  map[string]string
	Values  MealForm
}
