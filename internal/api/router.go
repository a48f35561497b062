package api

import (
	"log"
	"net/http"

	"github.com/example/partstock/internal/api/middleware"
	"github.com/example/partstock/internal/auth"
)

func NewRouter(handlers *Handlers, tokens *auth.TokenService) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.HandleRead(w, r)
		case http.MethodPost:
			handlers.HandleTransaction(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/healthz", handlers.HealthCheck)

	session := middleware.SessionMiddleware(tokens)
	return withLogging(session(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
