package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/kangopak/ohisee-api/internal/domain/audit"
)

const (
	headerUserID   = "X-User-Id"
	headerUserName = "X-User-Name"
	headerUserRole = "X-User-Role"
)

const actorKey contextKey = "actor"

// ActorContext resolves the acting user from the identity headers the
// frontend injects and stores it in the request context. Every audit
// trail row is attributed to this actor; requests without an identity
// are rejected.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/ready" || r.URL.Path == "/live" {
			next.ServeHTTP(w, r)
			return
		}

		userID := strings.TrimSpace(r.Header.Get(headerUserID))
		if userID == "" {
			http.Error(w, "missing user identity headers", http.StatusUnauthorized)
			return
		}

		actor := audit.Actor{
			UserID: userID,
			Name:   strings.TrimSpace(r.Header.Get(headerUserName)),
			Role:   strings.TrimSpace(r.Header.Get(headerUserRole)),
			IP:     clientIP(r),
		}
		if actor.Name == "" {
			actor.Name = userID
		}
		if actor.Role == "" {
			actor.Role = "operator"
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the resolved actor, or a zero actor when the
// middleware did not run.
func ActorFromContext(ctx context.Context) audit.Actor {
	if a, ok := ctx.Value(actorKey).(audit.Actor); ok {
		return a
	}
	return audit.Actor{}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
