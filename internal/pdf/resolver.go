package pdf

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/avelar-dev/doc-ocr-service/internal/format"
	"github.com/avelar-dev/doc-ocr-service/internal/quality"
	"github.com/avelar-dev/doc-ocr-service/internal/types"
)

// Recognizer is the slice of the image cascade the resolver needs: a way to
// ask whether recognition is possible at all, and a call that always comes
// back with text (possibly the failure sentinel).
type Recognizer interface {
	Available() bool
	Recognize(ctx context.Context, img image.Image) string
}

// Resolver walks a PDF page by page, preferring each page's native text
// layer and falling back to rasterization plus recognition for scanned
// pages.
type Resolver struct {
	rec    Recognizer
	dpi    float64
	logger *zap.Logger

	// raster renders one page to a bitmap; swappable so tests can force
	// per-page rendering failures.
	raster func(doc *fitz.Document, index int, dpi float64) (image.Image, error)
}

func NewResolver(rec Recognizer, dpi float64, logger *zap.Logger) *Resolver {
	return &Resolver{rec: rec, dpi: dpi, logger: logger, raster: rasterPage}
}

func rasterPage(doc *fitz.Document, index int, dpi float64) (image.Image, error) {
	return doc.ImageDPI(index, dpi)
}

// Resolve extracts text from every page of the document, in ordinal order.
// A single page failing never aborts the rest; an unopenable container
// yields a zero-page result carrying the error as text.
func (r *Resolver) Resolve(ctx context.Context, data []byte) types.ExtractionResult {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		r.logger.Error("failed to open PDF", zap.Error(err))
		return types.ExtractionResult{
			Text:  fmt.Sprintf("Error processing PDF: %v", err),
			Pages: 0,
		}
	}
	defer doc.Close()

	total := doc.NumPage()
	pages := make([]types.PageResult, 0, total)

	for i := 0; i < total; i++ {
		ordinal := i + 1

		text, err := doc.Text(i)
		if err != nil {
			r.logger.Warn("text layer extraction failed",
				zap.Int("page", ordinal), zap.Error(err))
			text = ""
		}
		text = format.CleanText(text)
		method := "text-layer"

		if d := quality.Score(text); d.NeedsOCR && r.rec.Available() {
			text, method = r.recognizePage(ctx, doc, i)
		}

		pages = append(pages, types.PageResult{
			Page:      ordinal,
			Text:      text,
			Method:    method,
			WordCount: quality.CountWords(text),
		})
	}

	return types.ExtractionResult{
		Text:        format.Combine(pages),
		Pages:       total,
		PageResults: pages,
	}
}

// recognizePage rasterizes a text-less page and routes the bitmap through
// the recognition cascade. Rasterization failure becomes the page's text;
// processing of the remaining pages continues.
func (r *Resolver) recognizePage(ctx context.Context, doc *fitz.Document, index int) (text, method string) {
	ordinal := index + 1
	img, err := r.raster(doc, index, r.dpi)
	if err != nil {
		r.logger.Error("failed to rasterize page",
			zap.Int("page", ordinal), zap.Error(err))
		return fmt.Sprintf("Error processing page %d: %v", ordinal, err), "error"
	}
	return r.rec.Recognize(ctx, img), "ocr"
}
