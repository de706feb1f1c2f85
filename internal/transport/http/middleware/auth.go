package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"hrrecords/internal/domain/identity"
	"hrrecords/internal/requestctx"
	"hrrecords/internal/transport/http/api"
)

type TokenResolver interface {
	Authenticate(token string) (identity.Caller, error)
}

// Auth resolves the caller from the session cookie or a bearer token. A
// missing or invalid token leaves the request anonymous.
func Auth(resolver TokenResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			caller, err := resolver.Authenticate(token)
			if err != nil {
				log.Debug().Err(err).Str("requestId", GetRequestID(r.Context())).Msg("session token rejected")
				next.ServeHTTP(w, r)
				return
			}
			ctx := requestctx.WithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken prefers the Authorization header over the cookie.
func SessionToken(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookieName == "" {
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func GetCaller(r *http.Request) identity.Caller {
	return requestctx.GetCaller(r.Context())
}

// RequireCaller rejects anonymous requests with 401.
func RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetCaller(r).Authenticated() {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", identity.ErrUnauthenticated.Error(), GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
