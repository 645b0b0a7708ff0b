package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port string

	// Backends
	TrOCRBaseURL string
	TrOCRTimeout time.Duration
	ProbeTimeout time.Duration
	OCRLanguages []string
	RasterDPI    float64

	// Limits
	MaxBodyBytes          int64
	MaxConcurrentRequests int64

	// Server timeouts
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration

	// Request timeouts
	ExtractTimeout time.Duration

	// rate limiting (per IP)
	RateLimitEvery time.Duration
	RateLimitBurst int

	// housekeeping
	CleanupInterval time.Duration
}

func Load() Config {
	return Config{
		Port: envStr("PORT", "8001"),

		TrOCRBaseURL: envStr("TROCR_URL", ""),
		TrOCRTimeout: envDur("TROCR_TIMEOUT", 60*time.Second),
		ProbeTimeout: envDur("PROBE_TIMEOUT", 10*time.Second),
		OCRLanguages: envList("OCR_LANGUAGES", "eng"),
		RasterDPI:    envFloat("RASTER_DPI", 300),

		MaxBodyBytes:          int64(envInt("MAX_BODY_BYTES", 50<<20)),
		MaxConcurrentRequests: int64(envInt("MAX_CONCURRENT_REQUESTS", 8)),

		ReadHeaderTimeout: envDur("READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:       envDur("READ_TIMEOUT", 60*time.Second),
		WriteTimeout:      envDur("WRITE_TIMEOUT", 180*time.Second),
		IdleTimeout:       envDur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   envDur("SHUTDOWN_TIMEOUT", 15*time.Second),

		ExtractTimeout: envDur("EXTRACT_TIMEOUT", 160*time.Second),

		RateLimitEvery: envDur("RATE_LIMIT_EVERY", 500*time.Millisecond),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 10),

		CleanupInterval: envDur("CLEANUP_INTERVAL", 5*time.Minute),
	}
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envList(key, fallback string) []string {
	parts := strings.Split(envStr(key, fallback), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func envDur(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
