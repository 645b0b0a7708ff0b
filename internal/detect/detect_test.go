package detect

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/avelar-dev/doc-ocr-service/internal/types"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetectPDFSignature(t *testing.T) {
	assert.Equal(t, types.KindPDF, Detect([]byte("%PDF-1.4\nrest of the document")))
	assert.Equal(t, types.KindPDF, Detect([]byte("%PDF")))
	// Signature must be at the very start.
	assert.NotEqual(t, types.KindPDF, Detect([]byte(" %PDF-1.4")))
}

func TestDetectImage(t *testing.T) {
	assert.Equal(t, types.KindImage, Detect(pngBytes(t)))

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	assert.Equal(t, types.KindImage, Detect(buf.Bytes()))
}

func TestDetectUnknown(t *testing.T) {
	assert.Equal(t, types.KindUnknown, Detect([]byte("plain text is not a document")))
	assert.Equal(t, types.KindUnknown, Detect([]byte{0x00, 0x01, 0x02}))
	assert.Equal(t, types.KindUnknown, Detect(nil))
}

func TestDetectIsPureAndNonConsuming(t *testing.T) {
	data := pngBytes(t)
	orig := append([]byte(nil), data...)

	first := Detect(data)
	second := Detect(data)

	assert.Equal(t, first, second)
	assert.Equal(t, orig, data)
}
