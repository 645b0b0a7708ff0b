package detect

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/avelar-dev/doc-ocr-service/internal/types"
)

var pdfSignature = []byte("%PDF")

// Detect classifies raw document bytes from content alone; a caller-supplied
// label is never trusted. Bytes starting with the PDF signature are a PDF;
// anything a registered image codec can parse a header for is an image;
// everything else is unknown. Detection never consumes or mutates the input.
func Detect(data []byte) types.Kind {
	if bytes.HasPrefix(data, pdfSignature) {
		return types.KindPDF
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		return types.KindImage
	}
	return types.KindUnknown
}
