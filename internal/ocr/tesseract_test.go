package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func requireTesseract(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderText(t *testing.T, text string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 240, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 40),
	}
	d.DrawString(text)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTesseractEngineRecognize(t *testing.T) {
	requireTesseract(t)

	e := NewTesseractEngine([]string{"eng"})
	got, err := e.Recognize(context.Background(), renderText(t, "HELLO WORLD"))
	require.NoError(t, err)
	if !strings.Contains(strings.ToUpper(got), "HELLO") {
		t.Fatalf("expected recognized text to contain HELLO, got %q", got)
	}
}

func TestProbeTesseract(t *testing.T) {
	requireTesseract(t)

	version, err := ProbeTesseract()
	require.NoError(t, err)
	require.NotEmpty(t, version)
}

func TestTesseractEngineRejectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewTesseractEngine(nil)
	_, err := e.Recognize(ctx, []byte{1})
	require.Error(t, err)
}
