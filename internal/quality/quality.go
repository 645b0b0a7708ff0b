package quality

import "strings"

// Decision summarizes a page's native text layer.
type Decision struct {
	WordCount int
	// NeedsOCR is true when the text layer is empty or whitespace-only,
	// i.e. the page is a scanned image with no extractable text.
	NeedsOCR bool
}

func Score(text string) Decision {
	trimmed := strings.TrimSpace(text)
	return Decision{
		WordCount: CountWords(trimmed),
		NeedsOCR:  trimmed == "",
	}
}

func CountWords(s string) int {
	return len(strings.Fields(s))
}
