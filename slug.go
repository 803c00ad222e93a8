package foodies

import (
	"github.com/goliatone/go-slug"
)

// Slugify converts a title to a URL-safe slug: lowercase ASCII words joined by
// hyphens. Accented letters and symbols go through go-slug's character map
// first ("Crème Brûlée" -> "creme-brulee", "&" -> "and"). It returns "" when
// the title has nothing slug-able in it.
func Slugify(title string) string {
	mapped, err := slug.HashNormalize(title)
	if err != nil {
		// Char map failed to load; strip to ASCII without transliterating.
		mapped = title
	}
	s, err := slug.Normalize(mapped)
	if err != nil || !slug.IsValid(s) {
		return ""
	}
	return s
}
