package ocr

import "context"

// Sentinel is returned in place of recognized text when no backend is
// available or every available backend failed. Callers can always treat the
// cascade's return value as text; this string is the degraded-capability
// marker, distinct from a backend succeeding with empty output.
const Sentinel = "Text extraction failed - no OCR method available"

// Engine is a single text-recognition backend. Input is a PNG-encoded
// RGBA bitmap; output is the recognized plain text. Engines report failure
// through the error return and must leave no shared state behind — a failed
// attempt never affects the next engine's attempt on the same image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, png []byte) (string, error)
}
