package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"giftledger/internal/core"
	applog "giftledger/internal/log"
	appweb "giftledger/web"
)

// Ledger is the part of ledger.Store the handlers drive.
type Ledger interface {
	Entries() []core.Entry
	Add(ctx context.Context, in core.EntryInput) (core.Entry, error)
	Toggle(ctx context.Context, id int64) error
	Remove(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) error
}

type Server struct {
	http.Server
	templates   *template.Template
	ledger      Ledger
	logger      *applog.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	now         func() time.Time
	started     time.Time

	shutdownOnce sync.Once
}

var templateFuncs = template.FuncMap{
	"won": core.FormatWon,
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, l Ledger, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.Default(applog.ComponentHTTP)
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ledger:      l,
		logger:      logger,
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
		now:         time.Now,
		started:     time.Now(),
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /{$}", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("POST /entries", s.withSecurityHeaders(s.handleAddEntry))
	mux.HandleFunc("POST /entries/clear", s.withSecurityHeaders(s.handleClearEntries))
	mux.HandleFunc("POST /entries/{id}/toggle", s.withSecurityHeaders(s.handleToggleEntry))
	mux.HandleFunc("POST /entries/{id}/delete", s.withSecurityHeaders(s.handleDeleteEntry))
	mux.HandleFunc("GET /api/entries", s.withSecurityHeaders(s.handleAPIEntries))
	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleAPISummary))

	s.Handler = applog.Middleware(logger)(mux)
	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		logger := applog.FromContext(ctx)
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, s.metrics) {
			logger.WarnContext(ctx, "Suspicious request",
				applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, clientIP).ToSlice()...)
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, clientIP).ToSlice()...)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "요청이 너무 많습니다. 잠시 후 다시 시도하세요.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the rate limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
