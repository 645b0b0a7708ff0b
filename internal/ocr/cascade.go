package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"go.uber.org/zap"
)

// NewAvailability builds an Availability from an explicit engine priority
// list, bypassing probing. Used by tests and by callers that already know
// which backends exist.
func NewAvailability(engines ...Engine) *Availability {
	return &Availability{engines: engines}
}

// Cascade tries recognition backends in priority order, one pass, no
// retries. A failing backend is logged and absorbed; the next one sees the
// same untouched bitmap. When every attempt fails, or no backend exists,
// the sentinel string comes back instead of an error, so callers can always
// treat the return value as text.
type Cascade struct {
	avail  *Availability
	logger *zap.Logger
}

func NewCascade(avail *Availability, logger *zap.Logger) *Cascade {
	return &Cascade{avail: avail, logger: logger}
}

// Available reports whether the cascade has at least one backend to try.
func (c *Cascade) Available() bool { return c.avail.Any() }

// Recognize runs the decoded bitmap through the backend cascade. Bitmaps
// that are not already full-color are converted first; backends may reject
// other encodings.
func (c *Cascade) Recognize(ctx context.Context, img image.Image) string {
	encoded, err := encodePNG(normalizeRGBA(img))
	if err != nil {
		c.logger.Error("failed to encode bitmap for recognition", zap.Error(err))
		return Sentinel
	}
	return c.recognizeEncoded(ctx, encoded)
}

// RecognizeBytes decodes an image byte buffer and runs it through the
// cascade. Undecodable buffers degrade to the sentinel.
func (c *Cascade) RecognizeBytes(ctx context.Context, data []byte) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.logger.Error("failed to decode image for recognition", zap.Error(err))
		return Sentinel
	}
	return c.Recognize(ctx, img)
}

func (c *Cascade) recognizeEncoded(ctx context.Context, encoded []byte) string {
	for _, engine := range c.avail.Engines() {
		text, err := engine.Recognize(ctx, encoded)
		if err != nil {
			c.logger.Warn("recognition backend failed, falling through",
				zap.String("backend", engine.Name()),
				zap.Error(err))
			continue
		}
		return text
	}
	return Sentinel
}

// normalizeRGBA converts any bitmap to full-color RGBA.
func normalizeRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func encodePNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
