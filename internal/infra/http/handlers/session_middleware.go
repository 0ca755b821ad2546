package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

const (
	SessionHeader = "X-Session-Token"
	SessionCookie = "crm_session"
)

type sessionKey struct{}

// SessionFrom returns the session the middleware attached to the request.
func SessionFrom(ctx context.Context) *usecase.Session {
	sess, _ := ctx.Value(sessionKey{}).(*usecase.Session)
	return sess
}

func withSession(ctx context.Context, sess *usecase.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

func sessionToken(r *http.Request) string {
	if t := r.Header.Get(SessionHeader); t != "" {
		return t
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireSession restores the caller's session or answers 401.
func RequireSession(auth *usecase.Auth, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := auth.Restore(r.Context(), sessionToken(r))
			if err != nil {
				if !errors.Is(err, usecase.ErrNoSession) {
					log.Error("session restore failed", zap.Error(err))
				}
				writeErrorResponse(w, http.StatusUnauthorized, "NO_SESSION", usecase.ErrNoSession.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
		})
	}
}
