package middleware

import (
	"context"
	"net/http"
	"strings"

	hmsauth "github.com/caresuite/hmsauth"
	"github.com/caresuite/hmsauth/session"
)

type userContextKey struct{}

// UserFromContext returns the user a guard attached to the request.
func UserFromContext(ctx context.Context) (*hmsauth.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*hmsauth.User)
	return u, ok
}

// Guard protects a handler with a requirement evaluated against the
// engine's current session. A not-yet-hydrated session answers 503
// with Retry-After rather than a misleading 401.
func Guard(engine *hmsauth.Engine, req hmsauth.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			snap := engine.Snapshot()
			switch hmsauth.Evaluate(snap, req) {
			case hmsauth.DecisionPending:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "session not ready", http.StatusServiceUnavailable)
				return
			case hmsauth.DecisionDeny:
				if !snap.Authenticated || snap.User == nil {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, snap.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TicketGuard protects a handler with a requirement evaluated against
// a bearer session ticket, with no session store involved. The
// verified user is attached to the request context.
func TicketGuard(engine *hmsauth.Engine, req hmsauth.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := engine.ValidateTicket(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			st := session.State{
				User:          user,
				Authenticated: true,
				Readiness:     session.ReadinessReady,
			}
			if hmsauth.Evaluate(st, req) != hmsauth.DecisionAllow {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
