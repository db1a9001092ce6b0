// Package api exposes the read-only HTTP interface for the price service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haiminh/metal-price-crawler/internal/clock"
	"github.com/haiminh/metal-price-crawler/internal/extractor"
	"github.com/haiminh/metal-price-crawler/internal/metrics"
	"github.com/haiminh/metal-price-crawler/internal/pricing"
)

// Server wires HTTP handlers to the vendor extraction pipelines. It holds
// no state between requests; every request runs the pipelines afresh.
type Server struct {
	router  chi.Router
	sources []extractor.Source
	clock   clock.Clock
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(sources []extractor.Source, clk clock.Clock, logger *zap.Logger) *Server {
	s := &Server{
		sources: sources,
		clock:   clk,
		logger:  logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/prices", func(r chi.Router) {
		r.Get("/", s.getAllPrices)
		r.Get("/gold", s.getGoldPrices)
		r.Get("/silver", s.getSilverPrices)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.clock.Now().Format(time.RFC3339),
	})
}

// pricesResponse is the envelope wrapping extracted records: the moment the
// extraction ran, the origin of every table consulted, and the records per
// commodity.
type pricesResponse struct {
	Timestamp string            `json:"timestamp"`
	Sources   map[string]string `json:"sources"`
	Gold      []pricing.Record  `json:"gold,omitempty"`
	Silver    []pricing.Record  `json:"silver,omitempty"`
}

func (s *Server) getAllPrices(w http.ResponseWriter, r *http.Request) {
	s.servePrices(w, r, pricing.Gold, pricing.Silver)
}

func (s *Server) getGoldPrices(w http.ResponseWriter, r *http.Request) {
	s.servePrices(w, r, pricing.Gold)
}

func (s *Server) getSilverPrices(w http.ResponseWriter, r *http.Request) {
	s.servePrices(w, r, pricing.Silver)
}

func (s *Server) servePrices(w http.ResponseWriter, r *http.Request, commodities ...pricing.Commodity) {
	resp := pricesResponse{
		Timestamp: s.clock.Now().Format(time.RFC3339),
		Sources:   map[string]string{},
	}
	for _, c := range commodities {
		for _, src := range s.sources {
			resp.Sources[src.Vendor()+"_"+string(c)] = src.Origin(c)
		}
	}

	results := s.collect(r.Context(), commodities)
	for i, c := range commodities {
		switch c {
		case pricing.Gold:
			resp.Gold = results[i]
		case pricing.Silver:
			resp.Silver = results[i]
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// collect runs every (source, commodity) extraction concurrently. The
// pipelines share no mutable state and touch disjoint origins, so the
// fan-out needs no coordination beyond the wait. Results keep source
// order within each commodity.
func (s *Server) collect(ctx context.Context, commodities []pricing.Commodity) [][]pricing.Record {
	parts := make([][][]pricing.Record, len(commodities))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		panicked any
	)
	for ci, c := range commodities {
		parts[ci] = make([][]pricing.Record, len(s.sources))
		for si, src := range s.sources {
			wg.Add(1)
			go func(ci, si int, c pricing.Commodity, src extractor.Source) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						mu.Lock()
						panicked = r
						mu.Unlock()
					}
				}()
				parts[ci][si] = src.Prices(ctx, c)
			}(ci, si, c, src)
		}
	}
	wg.Wait()
	if panicked != nil {
		// Re-raise on the request goroutine so the recover middleware
		// turns it into the generic failure response.
		panic(panicked)
	}

	results := make([][]pricing.Record, len(commodities))
	for ci := range commodities {
		for _, records := range parts[ci] {
			results[ci] = append(results[ci], records...)
		}
	}
	return results
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

// recoverMiddleware is the catch-all for the rare malformed document the
// locator cannot even iterate; every designed failure path downstream
// degrades to absence instead of reaching here.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
