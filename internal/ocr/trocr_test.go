package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrOCREngineRecognize(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ocr", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req trocrRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		decoded, err := base64.StdEncoding.DecodeString(req.ImageB64)
		require.NoError(t, err)
		require.Equal(t, payload, decoded)

		json.NewEncoder(w).Encode(trocrResponse{Text: "  recognized line \n"})
	}))
	defer srv.Close()

	e := NewTrOCREngine(srv.URL, 5*time.Second)
	text, err := e.Recognize(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "recognized line", text)
}

func TestTrOCREngineRecognizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewTrOCREngine(srv.URL, 5*time.Second)
	_, err := e.Recognize(context.Background(), []byte{1})
	assert.Error(t, err)
}

func TestTrOCREngineProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(trocrHealth{Status: "ok", Device: "cuda"})
	}))
	defer srv.Close()

	e := NewTrOCREngine(srv.URL, 5*time.Second)
	device, err := e.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cuda", device)
}

func TestTrOCREngineProbeDefaultsToCPU(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(trocrHealth{Status: "ok"})
	}))
	defer srv.Close()

	e := NewTrOCREngine(srv.URL, 5*time.Second)
	device, err := e.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cpu", device)
}

func TestTrOCREngineProbeUnreachable(t *testing.T) {
	e := NewTrOCREngine("http://127.0.0.1:1", time.Second)
	_, err := e.Probe(context.Background())
	assert.Error(t, err)
}
