package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProbeSurvivesAllBackendsMissing(t *testing.T) {
	avail := Probe(context.Background(), ProbeOptions{
		TrOCRBaseURL: "http://127.0.0.1:1",
		TrOCRTimeout: time.Second,
	}, zap.NewNop())

	// Tesseract may or may not exist on the host; the neural probe above is
	// guaranteed dead. Either way the process keeps going.
	assert.NotNil(t, avail)
	for _, e := range avail.Engines() {
		assert.NotEqual(t, "trocr", e.Name())
	}
	assert.Empty(t, avail.Device())
}

func TestProbeNeuralFirstPriority(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(trocrHealth{Status: "ok", Device: "cpu"})
	}))
	defer srv.Close()

	avail := Probe(context.Background(), ProbeOptions{
		TrOCRBaseURL: srv.URL,
		TrOCRTimeout: time.Second,
	}, zap.NewNop())

	engines := avail.Engines()
	assert.True(t, avail.Any())
	assert.Equal(t, "trocr", engines[0].Name())
	assert.Equal(t, "cpu", avail.Device())
}

func TestProbeUnconfiguredNeuralBackend(t *testing.T) {
	avail := Probe(context.Background(), ProbeOptions{}, zap.NewNop())
	for _, e := range avail.Engines() {
		assert.NotEqual(t, "trocr", e.Name())
	}
}
