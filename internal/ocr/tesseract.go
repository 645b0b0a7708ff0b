package ocr

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine is the classical bitmap-OCR backend, backed by the
// gosseract client. A fresh client is created per call so concurrent
// recognitions never share Tesseract state.
type TesseractEngine struct {
	languages []string
}

func NewTesseractEngine(languages []string) *TesseractEngine {
	return &TesseractEngine{languages: languages}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Recognize(ctx context.Context, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := gosseract.NewClient()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetVariable("tessedit_pageseg_mode", "3"); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetVariable("preserve_interword_spaces", "1"); err != nil {
		return "", fmt.Errorf("set interword spaces: %w", err)
	}

	if err := c.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ProbeTesseract reports whether the Tesseract engine is usable in this
// environment. The binary lookup guards against the native library aborting
// on hosts where Tesseract was never installed.
func ProbeTesseract() (version string, err error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", fmt.Errorf("tesseract not in PATH: %w", err)
	}
	c := gosseract.NewClient()
	defer c.Close()
	v := c.Version()
	if v == "" {
		return "", fmt.Errorf("tesseract library reported no version")
	}
	return v, nil
}
