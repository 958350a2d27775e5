package gate

import (
	"net/http"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/dmitrijs2005/tokenbridge/internal/httpx"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

var unauthorized = errorResponse{Error: "unauthorized"}

// Middleware rejects requests without a valid bearer token with 401 and
// hands the claims of a valid one to next via auth.WithClaims.
func Middleware(verifier Verifier, logger logging.Logger) func(http.Handler) http.Handler {
	logger = logger.With("module", "gate")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
			if err != nil {
				logger.Info(ctx, "rejected", "path", r.URL.Path, "reason", err.Error())
				reject(w)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Info(ctx, "rejected", "path", r.URL.Path, "reason", reason(err))
				reject(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(ctx, claims)))
		})
	}
}

func reject(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="tokenbridge"`)
	httpx.WriteJSON(w, http.StatusUnauthorized, unauthorized)
}
