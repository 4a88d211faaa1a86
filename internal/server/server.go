package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-respdoc/pkg/render"
)

// Builder produces the document bytes for a format on demand.
type Builder func(ctx context.Context, format string) ([]byte, error)

// Option configures the handler.
type Option func(*handler)

// WithLogger injects a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithCache keeps the first successful build per format instead of
// rebuilding on every request.
func WithCache(enabled bool) Option {
	return func(h *handler) {
		h.cache = enabled
	}
}

type handler struct {
	build  Builder
	logger *zap.Logger
	cache  bool

	mu     sync.Mutex
	cached map[string][]byte
}

// NewRouter returns a chi router serving the document at /openapi.json and
// /openapi.yaml.
func NewRouter(build Builder, options ...Option) chi.Router {
	h := &handler{
		build:  build,
		logger: zap.NewNop(),
		cached: make(map[string][]byte),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/openapi.json", h.serve(render.FormatJSON, render.JSON().ContentType()))
	r.Get("/openapi.yaml", h.serve(render.FormatYAML, render.YAML().ContentType()))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func (h *handler) serve(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := h.document(r.Context(), format)
		if err != nil {
			h.logger.Error("document build failed", zap.String("format", format), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}
}

func (h *handler) document(ctx context.Context, format string) ([]byte, error) {
	if !h.cache {
		return h.build(ctx, format)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if body, ok := h.cached[format]; ok {
		return body, nil
	}
	body, err := h.build(ctx, format)
	if err != nil {
		return nil, err
	}
	h.cached[format] = body
	return body, nil
}
