package types

// Kind classifies raw document bytes.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindImage   Kind = "image"
	KindUnknown Kind = "unknown"
)

// PageResult holds the extracted text for a single PDF page.
type PageResult struct {
	Page      int    `json:"page"` // 1-based ordinal
	Text      string `json:"text"`
	Method    string `json:"method"` // "text-layer" | "ocr" | "error"
	WordCount int    `json:"wordCount"`
}

// ExtractionResult is the uniform output of every extraction. Pages is 0 for
// unrecognized or unopenable documents and 1 for single images. PageResults
// is populated only where page granularity applies (PDFs); when present,
// len(PageResults) == Pages.
type ExtractionResult struct {
	Text        string       `json:"text"`
	Pages       int          `json:"pages"`
	PageResults []PageResult `json:"page_results,omitempty"`
}
