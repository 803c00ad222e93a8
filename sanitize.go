package foodies

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// instructionsPolicy allows basic formatting and drops scripts, event
// handlers, styles and non-http links. Policies are safe for concurrent use
// once built.
var instructionsPolicy = bluemonday.UGCPolicy()

// SanitizeInstructions neutralizes executable markup in free text before it
// is stored. It never fails; unsafe content is simply removed.
func SanitizeInstructions(raw string) string {
	return strings.TrimSpace(instructionsPolicy.Sanitize(raw))
}
