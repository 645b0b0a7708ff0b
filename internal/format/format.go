package format

import (
	"strings"

	"github.com/avelar-dev/doc-ocr-service/internal/types"
)

// PageSeparator is the blank line inserted between consecutive page texts.
const PageSeparator = "\n\n"

// Combine joins per-page texts in ordinal order, separated by blank lines,
// and trims the result. Empty pages keep their position; separators at the
// edges disappear in the final trim.
func Combine(pages []types.PageResult) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString(PageSeparator)
		}
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// CleanText normalizes line endings and trims surrounding whitespace.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}
