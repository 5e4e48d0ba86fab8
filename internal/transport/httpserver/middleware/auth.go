package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Rishad-007/BRUDF/internal/auth"
	"github.com/Rishad-007/BRUDF/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type contextKey int

const adminKey contextKey = iota

// AdminAuth gates routes behind the shared secret passed as ?password=.
type AdminAuth struct {
	verifier auth.Verifier
	log      logger.Logger
}

func NewAdminAuth(verifier auth.Verifier, log logger.Logger) *AdminAuth {
	if verifier == nil {
		verifier = auth.DenyAll{}
	}
	return &AdminAuth{
		verifier: verifier,
		log:      log.With("component", "admin_auth"),
	}
}

func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := r.URL.Query().Get("password")
		if !a.verifier.Verify(r.Context(), secret) {
			a.log.Warn("auth: admin check failed",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", chimw.GetReqID(r.Context()),
			)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context())))
	})
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Unauthorized access")
}

func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminKey, true)
}

func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(adminKey).(bool)
	return admin
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
