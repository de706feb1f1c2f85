package middleware

import (
	"net/http"

	"hrrecords/internal/domain/identity"
	"hrrecords/internal/transport/http/api"
)

func RequireRole(role identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := GetCaller(r)
			if !caller.Authenticated() {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", identity.ErrUnauthenticated.Error(), GetRequestID(r.Context()))
				return
			}
			if caller.Role != role {
				api.Fail(w, http.StatusForbidden, "forbidden", identity.ErrForbidden.Error(), GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(identity.RoleAdmin)(next)
}
