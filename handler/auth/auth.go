package auth

import (
	"net/http"
	"strings"

	"dsc/core"
	"dsc/handler/render"
	"dsc/handler/request"

	"github.com/fox-one/pkg/logger"
)

// HandleAuthentication binds the account of a verified bearer token to the
// request context. Requests without a valid token stay anonymous.
func HandleAuthentication(session core.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			accessToken := getBearerToken(r)
			if accessToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			account, err := session.Login(ctx, accessToken)
			if err != nil {
				log.WithError(err).Debugln("parse access token error")
				next.ServeHTTP(w, r)
				return
			}

			log = log.WithField("account", account)
			ctx = logger.WithContext(ctx, log)
			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithAccount(account)))
		}

		return http.HandlerFunc(fn)
	}
}

// Require rejects requests without a calling account
func Require(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if _, ok := request.NewContext(r.Context()).GetAccount(); !ok {
			render.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// RequireAdmin rejects requests whose account is not an admin
func RequireAdmin(admins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(admins))
	for _, admin := range admins {
		allowed[admin] = true
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			account, _ := request.NewContext(r.Context()).GetAccount()
			if !allowed[account] {
				render.Forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func getBearerToken(r *http.Request) string {
	s := r.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(s, "Bearer "))
}
