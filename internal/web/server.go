// Package web serves the player page and mounts the RPC handlers.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	zlog "github.com/rs/zerolog/log"
)

//go:embed static
var staticFS embed.FS

// Config holds the handlers mounted next to the page.
type Config struct {
	RPCPath    string       // Path prefix of the RPC service
	RPCHandler http.Handler // RPC service handler
}

// Server routes page, health and RPC requests.
type Server struct {
	router chi.Router
}

// New creates the HTTP router.
func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	s := &Server{router: r}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	r.Get("/health", handleHealth)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, static, "index.html")
	})
	if cfg.RPCHandler != nil {
		r.Mount(strings.TrimSuffix(cfg.RPCPath, "/"), cfg.RPCHandler)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// requestLogger logs each request with zerolog at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zlog.Debug().Msgf("http: %s %s status=%d bytes=%d elapsed=%s",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}
