package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()
}

// SanitizeTitle sanitizes a todo title by trimming whitespace and removing
// control characters. An empty result means the title was blank and must be
// rejected before it reaches persistence.
func SanitizeTitle(title string) string {
	title = strings.TrimSpace(title)

	var sanitized strings.Builder
	for _, r := range title {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return strings.TrimSpace(sanitized.String())
}
