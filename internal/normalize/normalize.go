// Package normalize builds the comparison keys used for lead deduplication.
// Normalization is pure and total: any string in, a key out, never an error.
// An empty key never matches anything.
package normalize

import "strings"

var phoneStripper = strings.NewReplacer(
	" ", "",
	"\t", "",
	"\n", "",
	"(", "",
	")", "",
	"-", "",
	"+", "",
)

// Phone strips whitespace, parentheses, hyphens and plus signs and
// lower-cases the rest. Empty or absent input yields the empty key.
func Phone(raw string) string {
	return strings.ToLower(phoneStripper.Replace(strings.TrimSpace(raw)))
}

// Email lower-cases and trims. Empty input yields the empty key.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
