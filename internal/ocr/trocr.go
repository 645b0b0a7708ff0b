package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TrOCREngine is the neural sequence-to-sequence backend. Inference runs in
// a sidecar serving the TrOCR model; this client ships PNG bitmaps to it
// over HTTP. The sidecar picks its compute device (accelerator if present,
// otherwise CPU) once at startup and reports it from the health endpoint.
type TrOCREngine struct {
	baseURL string
	client  *http.Client
}

func NewTrOCREngine(baseURL string, timeout time.Duration) *TrOCREngine {
	return &TrOCREngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *TrOCREngine) Name() string { return "trocr" }

type trocrRequest struct {
	ImageB64 string `json:"image_base64"`
}

type trocrResponse struct {
	Text string `json:"text"`
}

type trocrHealth struct {
	Status string `json:"status"`
	Device string `json:"device"`
}

func (e *TrOCREngine) Recognize(ctx context.Context, png []byte) (string, error) {
	body, err := json.Marshal(trocrRequest{ImageB64: base64.StdEncoding.EncodeToString(png)})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/ocr", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("trocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return "", fmt.Errorf("trocr error %d: %s", resp.StatusCode, string(slurp))
	}

	var parsed trocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(parsed.Text), nil
}

// Probe checks that the sidecar is up and serving the model, returning the
// compute device it selected. The device is fixed for the sidecar's (and
// therefore this process's) lifetime.
func (e *TrOCREngine) Probe(ctx context.Context) (device string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/health", nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("trocr health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("trocr health status %d", resp.StatusCode)
	}
	var h trocrHealth
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return "", fmt.Errorf("decode health: %w", err)
	}
	if h.Status != "ok" {
		return "", fmt.Errorf("trocr unhealthy: %s", h.Status)
	}
	if h.Device == "" {
		h.Device = "cpu"
	}
	return h.Device, nil
}
