package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "sid"
)

type Sessions interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

type sessionKey struct{}

// WithSession resolves the visitor's session from the header or cookie,
// minting a new id when neither is present, and echoes the id back in both.
func WithSession(sessions Sessions, cookieTTL time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			sess, err := sessions.Get(r.Context(), id)
			if err != nil {
				logger.Errorf("load session %s: %v", id, err)
				writeError(w, http.StatusServiceUnavailable, "session_unavailable", "session unavailable")
				return
			}

			w.Header().Set(SessionHeader, id)
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cookieTTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
		})
	}
}

// sessionFrom must only be called behind WithSession.
func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey{}).(*session.Session)
}
