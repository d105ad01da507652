// internal/app/system/sanitize/sanitize.go

// Package sanitize scrubs user-supplied text before it is forwarded to the
// data service. Nicknames and group display names are plain text, so the
// strict policy strips all markup rather than allowlisting any.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text returns s with all HTML removed and surrounding whitespace trimmed.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
