package ocr

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Availability records which recognition backends are usable, established
// once at process start. It is never mutated afterwards; re-probing would
// replace the whole value. The engine list is held in priority order:
// neural first, then classical.
type Availability struct {
	engines []Engine
	device  string // compute device the neural backend runs on, "" if absent
}

// Engines returns the usable backends in priority order.
func (a *Availability) Engines() []Engine { return a.engines }

// Any reports whether at least one backend is usable.
func (a *Availability) Any() bool { return len(a.engines) > 0 }

// Device returns the neural backend's compute device, or "" when the neural
// backend is unavailable.
func (a *Availability) Device() string { return a.device }

// ProbeOptions carries the knobs the prober needs for each backend.
type ProbeOptions struct {
	TrOCRBaseURL string // empty disables the neural backend
	TrOCRTimeout time.Duration
	Languages    []string
}

// Probe checks each known backend in isolation. A backend that fails its
// health check is logged as a warning and recorded as unavailable; probing
// never fails the process. With zero usable backends the system still runs,
// and recognition calls return the sentinel instead of text.
func Probe(ctx context.Context, opts ProbeOptions, logger *zap.Logger) *Availability {
	a := &Availability{}

	if opts.TrOCRBaseURL != "" {
		neural := NewTrOCREngine(opts.TrOCRBaseURL, opts.TrOCRTimeout)
		device, err := neural.Probe(ctx)
		if err != nil {
			logger.Warn("TrOCR backend is not available", zap.Error(err))
		} else {
			a.engines = append(a.engines, neural)
			a.device = device
			logger.Info("TrOCR backend is available", zap.String("device", device))
		}
	} else {
		logger.Warn("TrOCR backend is not configured")
	}

	version, err := ProbeTesseract()
	if err != nil {
		logger.Warn("Tesseract backend is not available", zap.Error(err))
	} else {
		a.engines = append(a.engines, NewTesseractEngine(opts.Languages))
		logger.Info("Tesseract backend is available", zap.String("version", version))
	}

	if !a.Any() {
		logger.Warn("no recognition backend is available, extraction will degrade to text layers only")
	}
	return a
}
