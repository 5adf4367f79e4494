package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/TWRT/savvystudy/internal/service"
)

// ContextKey is a custom type to avoid context key collisions.
type ContextKey string

const SessionKey ContextKey = "session"

func SessionFromContext(ctx context.Context) (*service.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*service.Session)
	return sess, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// Auth resolves the bearer token to a session, holds the workspace lock for
// the rest of the request and runs the reminder check before the handler.
func Auth(auth *service.AuthService, planner *service.PlannerService, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Authorization header required")
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || scheme != "Bearer" || token == "" {
				unauthorized(w, "Invalid Authorization header format")
				return
			}

			sess, err := auth.Authenticate(token)
			if err != nil {
				logger.Debug("rejected token", "err", err)
				unauthorized(w, "You must be logged in")
				return
			}

			sess.Lock()
			defer sess.Unlock()

			if _, err := planner.CheckReminders(r.Context(), sess.Workspace); err != nil {
				logger.Warn("reminder check failed", "user", sess.UserID, "err", err)
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
