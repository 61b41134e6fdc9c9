package ingest

import (
	"strings"

	"github.com/driveline/placetrack/internal/models"
)

// mergeField implements the safe-override rule: an extracted value
// replaces the stored one only when it is present and not the
// placeholder. A partial or low-confidence extraction can therefore never
// clobber known-good data.
func mergeField(old, extracted string) string {
	v := strings.TrimSpace(extracted)
	if v == "" || v == models.PlaceholderField {
		return old
	}
	return v
}

// normalizeName canonicalizes a round name for matching.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
