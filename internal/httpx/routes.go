package httpx

import (
	"net/http"

	"github.com/you/go-travel-flights/internal/auth"
	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/service"
)

// NewRouter wires the public form, login and health routes and the
// token-guarded API and streaming routes.
func NewRouter(cfg *config.Config, svc *service.SearchService) http.Handler {
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("/", FormHandler(cfg, svc))
	publicMux.HandleFunc("/health", HealthHandler())
	publicMux.HandleFunc("/auth/login", auth.LoginHandler(cfg))

	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /flights/search", SearchHandler(cfg, svc)) // ?date=2025-12-10&airlines=QR,EK
	protectedMux.HandleFunc("GET /sse/search", SubscribeSSEHandler(cfg, svc))
	protectedMux.HandleFunc("GET /ws/search", SubscribeWSHandler(cfg, svc))

	return auth.JWTMiddleware(publicMux, protectedMux, cfg)
}
