package router

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/user"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/web"
)

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the handlers and settings the routes are built from.
type Deps struct {
	Logger        *zap.SugaredLogger
	Users         *user.Handler
	Exercises     *exercise.Handler
	Store         Pinger
	AllowedOrigin string
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
func RegisterRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()

	// front page and assets
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, web.FS, "index.html")
	})
	public, err := fs.Sub(web.FS, "public")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /public/", http.StripPrefix("/public/", http.FileServerFS(public)))

	// health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if d.Store != nil {
			if err := d.Store.Ping(ctx); err != nil {
				d.Logger.Warnw("health check failed", "err", err)
				http.Error(w, "store unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// users
	mux.HandleFunc("POST /api/users", d.Users.Create)
	mux.HandleFunc("GET /api/users", d.Users.List)

	// exercise log
	mux.HandleFunc("POST /api/users/{id}/exercises", d.Exercises.Append)
	mux.HandleFunc("GET /api/users/{id}/logs", d.Exercises.Logs)

	// outermost first: request id, logging, cors, security headers
	var handler http.Handler = mux
	handler = SecurityHeadersMiddleware()(handler)
	handler = CORSMiddleware(d.AllowedOrigin)(handler)
	handler = LoggingMiddleware(d.Logger)(handler)
	handler = RequestIDMiddleware()(handler)
	return handler
}
