package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/ryantrega99/moda-fashion-ai/internal/metrics"
	"github.com/ryantrega99/moda-fashion-ai/pkg/generator"
)

const defaultMaxBodyBytes = 25 << 20

// Server は画像生成パイプラインを HTTP で公開します。
type Server struct {
	renderer     generator.ImageRenderer
	metrics      *metrics.Recorder
	logger       zerolog.Logger
	locale       string
	maxBodyBytes int64
	now          func() time.Time
}

// Options は Server の任意設定です。
type Options struct {
	Logger zerolog.Logger
	// Locale は Accept-Language が無いときのエラーメッセージの言語です。
	Locale       string
	MaxBodyBytes int64
}

// New は依存関係を注入して Server を生成します。
func New(renderer generator.ImageRenderer, rec *metrics.Recorder, opts Options) (*Server, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer (ImageRenderer) is required")
	}
	if rec == nil {
		return nil, fmt.Errorf("rec (metrics.Recorder) is required")
	}
	s := &Server{
		renderer:     renderer,
		metrics:      rec,
		logger:       opts.Logger,
		locale:       opts.Locale,
		maxBodyBytes: opts.MaxBodyBytes,
		now:          time.Now,
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}
	return s, nil
}

// Routes はルーティング済みのハンドラーを返します。
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, middleware.RealIP, middleware.Recoverer, AccessLog(s.logger))

	r.Get("/healthz", s.health)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/tools", s.listTools)
		r.Post("/render", s.render)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
