package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/avelar-dev/doc-ocr-service/internal/config"
	"github.com/avelar-dev/doc-ocr-service/internal/extract"
	"github.com/avelar-dev/doc-ocr-service/internal/ocr"
	"github.com/avelar-dev/doc-ocr-service/internal/pdf"
)

type server struct {
	cfg        config.Config
	logger     *zap.Logger
	svc        *extract.Service
	avail      *ocr.Availability
	requestSem *semaphore.Weighted

	// Per-IP rate limiters
	limiters sync.Map
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	probeCtx, cancel := context.WithTimeout(context.Background(), cfg.ProbeTimeout)
	avail := ocr.Probe(probeCtx, ocr.ProbeOptions{
		TrOCRBaseURL: cfg.TrOCRBaseURL,
		TrOCRTimeout: cfg.TrOCRTimeout,
		Languages:    cfg.OCRLanguages,
	}, logger)
	cancel()

	cascade := ocr.NewCascade(avail, logger)
	resolver := pdf.NewResolver(cascade, cfg.RasterDPI, logger)
	svc := extract.NewService(cascade, resolver, logger)

	s := &server{
		cfg:        cfg,
		logger:     logger,
		svc:        svc,
		avail:      avail,
		requestSem: semaphore.NewWeighted(cfg.MaxConcurrentRequests),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/extract",
		s.withRateLimit(
			withMethod(http.MethodPost,
				s.withConcurrencyLimit(s.handleExtract))))
	mux.HandleFunc("/extract/base64",
		s.withRateLimit(
			withMethod(http.MethodPost,
				s.withConcurrencyLimit(s.handleExtractBase64))))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.withLogging(s.withRecovery(mux)),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go s.cleanupRateLimiters()

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

// cleanupRateLimiters periodically drops the per-IP limiters so the map does
// not grow for the process lifetime, and logs basic runtime stats alongside.
func (s *server) cleanupRateLimiters() {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		dropped := 0
		s.limiters.Range(func(key, _ any) bool {
			s.limiters.Delete(key)
			dropped++
			return true
		})
		s.logger.Info("rate limiter cleanup",
			zap.Int("dropped", dropped),
			zap.Int("goroutines", runtime.NumGoroutine()),
			zap.Uint64("heap_mb", m.Alloc/(1<<20)))
	}
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backends := make([]string, 0, 2)
	for _, e := range s.avail.Engines() {
		backends = append(backends, e.Name())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"backends": backends,
		"device":   s.avail.Device(),
	})
}

func (s *server) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	s.extractAndRespond(w, r, data, r.URL.Query().Get("type"))
}

type base64Request struct {
	Data string `json:"data"`
	Type string `json:"type,omitempty"`
}

func (s *server) handleExtractBase64(w http.ResponseWriter, r *http.Request) {
	var req base64Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	data, err := extract.DecodeBase64Payload(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid base64 payload")
		return
	}
	s.extractAndRespond(w, r, data, req.Type)
}

func (s *server) extractAndRespond(w http.ResponseWriter, r *http.Request, data []byte, hint string) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ExtractTimeout)
	defer cancel()

	result, err := s.svc.Extract(ctx, data, hint)
	if err != nil {
		if errors.Is(err, extract.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ── Middleware ───────────────────────────────────────────────────────────────

func withMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		next(w, r)
	}
}

func (s *server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		v, _ := s.limiters.LoadOrStore(ip, rate.NewLimiter(rate.Every(s.cfg.RateLimitEvery), s.cfg.RateLimitBurst))
		if !v.(*rate.Limiter).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

func (s *server) withConcurrencyLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requestSem.TryAcquire(1) {
			writeError(w, http.StatusServiceUnavailable, "server busy")
			return
		}
		defer s.requestSem.Release(1)
		next(w, r)
	}
}

func (s *server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler", zap.Any("panic", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
