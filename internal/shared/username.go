package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeUsername trims and case-folds a login name so lookups are
// case-insensitive across scripts.
func NormalizeUsername(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
