package extract

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/avelar-dev/doc-ocr-service/internal/detect"
	"github.com/avelar-dev/doc-ocr-service/internal/types"
)

// ErrEmptyInput signals the one precondition violation callers can commit:
// handing over zero document bytes. Every other failure mode is absorbed
// into the ExtractionResult.
var ErrEmptyInput = errors.New("document bytes must be provided")

// UnsupportedTypeText is the text of the fixed zero-page result returned
// for bytes that are neither a PDF nor a decodable image.
const UnsupportedTypeText = "File type not supported for text extraction"

// ImageRecognizer runs a raw image byte buffer through the recognition
// cascade.
type ImageRecognizer interface {
	RecognizeBytes(ctx context.Context, data []byte) string
}

// PDFResolver extracts a PDF document page by page.
type PDFResolver interface {
	Resolve(ctx context.Context, data []byte) types.ExtractionResult
}

// Service is the top-level entry point: it classifies the input, dispatches
// to the PDF resolver or the image cascade, and normalizes the result
// shape. It performs no recognition itself.
type Service struct {
	images ImageRecognizer
	pdfs   PDFResolver
	logger *zap.Logger
}

func NewService(images ImageRecognizer, pdfs PDFResolver, logger *zap.Logger) *Service {
	return &Service{images: images, pdfs: pdfs, logger: logger}
}

// Extract converts document bytes into text. Any non-empty hint is honored
// as the declared type — a declared type the pipeline cannot handle yields
// the unsupported result. An empty hint means the bytes classify themselves.
func (s *Service) Extract(ctx context.Context, data []byte, hint string) (types.ExtractionResult, error) {
	if len(data) == 0 {
		return types.ExtractionResult{}, ErrEmptyInput
	}

	kind := types.Kind(hint)
	if hint == "" {
		kind = detect.Detect(data)
	}

	switch kind {
	case types.KindPDF:
		return s.pdfs.Resolve(ctx, data), nil
	case types.KindImage:
		return types.ExtractionResult{
			Text:  s.images.RecognizeBytes(ctx, data),
			Pages: 1,
		}, nil
	default:
		s.logger.Info("unrecognized document bytes", zap.Int("size", len(data)))
		return types.ExtractionResult{Text: UnsupportedTypeText, Pages: 0}, nil
	}
}
