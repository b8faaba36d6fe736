package auth

import (
	"net/http"
	"strings"

	"twapvault/core"
	"twapvault/handler/render"
	"twapvault/handler/request"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/twitchtv/twirp"
)

// HandleAuthentication put the bearer account into the request context.
// Accounts are opaque identifiers, signature checks belong to the gateway in front.
func HandleAuthentication() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			account := getBearerToken(r)
			if account == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !govalidator.IsPrintableASCII(account) || len(account) > 64 {
				log.WithField("account", account).Debugln("malformed bearer account")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithCaller(account)))
		}

		return http.HandlerFunc(fn)
	}
}

// LoginRequired reject requests without an account
func LoginRequired() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if _, ok := request.NewContext(r.Context()).GetCaller(); !ok {
				render.Error(w, twirp.NewError(twirp.Unauthenticated, "authentication required"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

// AdminRequired reject callers that are not admins
func AdminRequired(system *core.System) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			caller, _ := request.NewContext(r.Context()).GetCaller()
			if !system.IsAdmin(caller) {
				render.Error(w, core.ErrUnauthorized)
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
