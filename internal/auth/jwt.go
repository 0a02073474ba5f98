package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you/go-travel-flights/internal/config"
)

const tokenTTL = time.Hour

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

func IssueToken(cfg *config.Config, username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken checks signature and expiry and returns the subject.
func ParseToken(cfg *config.Config, tok string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsPublic reports whether path is served without a token: the search form,
// login and the health probe.
func IsPublic(path string) bool {
	return path == "/" || path == "/health" || strings.HasPrefix(path, "/auth/")
}

func JWTMiddleware(public, protected http.Handler, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsPublic(r.URL.Path) {
			public.ServeHTTP(w, r)
			return
		}
		authH := r.Header.Get("Authorization")
		if authH == "" {
			if t := r.URL.Query().Get("token"); t != "" {
				// browsers cannot set headers on EventSource or WebSocket requests
				authH = "Bearer " + t
			}
		}
		if !strings.HasPrefix(authH, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		if _, err := ParseToken(cfg, strings.TrimPrefix(authH, "Bearer ")); err != nil {
			log.Printf("JWT error: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		protected.ServeHTTP(w, r)
	})
}

func LoginHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Username != cfg.JWTUser || req.Password != cfg.JWTPassword {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := IssueToken(cfg, req.Username)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginResponse{Token: tok, ExpiresIn: int(tokenTTL.Seconds())})
	}
}
