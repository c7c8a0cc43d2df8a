package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// AuthMiddlewareHandler protects mutating endpoints with the app token.
// Reads and OPTIONS preflights pass through untouched.
type AuthMiddlewareHandler struct {
	appToken string
}

func NewAuthMiddlewareHandler(appToken string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		appToken: appToken,
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet || r.Method == http.MethodOptions:
				next.ServeHTTP(w, r)
			case strings.HasPrefix(r.URL.Path, "/workout"):
				if h.appToken == "" {
					// token not configured, mutations are open (dev mode)
					next.ServeHTTP(w, r)
					return
				}
				reqToken := r.Header.Get("X-PLATES-TOKEN")
				if reqToken != h.appToken {
					log.Tracef("[missing or invalid token] [%s %s] unauthorized", r.Method, r.URL.Path)
					http.Error(w, "no can do", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
