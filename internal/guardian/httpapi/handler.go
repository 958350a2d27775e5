// Package httpapi exposes the guardian's HTTP routes. /api/resource/* is
// behind the gate; /healthz is public.
package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/guardian/gate"
	"github.com/dmitrijs2005/tokenbridge/internal/httpx"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
)

// MeResponse describes the caller as the token presents them.
type MeResponse struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

type Handler struct {
	verifier gate.Verifier
	logger   logging.Logger
}

func NewHandler(verifier gate.Verifier, logger logging.Logger) *Handler {
	return &Handler{verifier: verifier, logger: logger.With("module", "guardian-http")}
}

func (h *Handler) Routes() http.Handler {
	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/resource/me", h.Me)

	mux := http.NewServeMux()
	mux.Handle("/api/resource/", gate.Middleware(h.verifier, h.logger)(protected))
	mux.HandleFunc("GET /healthz", h.Health)

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.Recover(h.logger),
		httpx.AccessLog(h.logger),
	)
}

// Me is the protected operation: it only runs after the gate has put
// verified claims on the context.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustClaimsFromContext(r.Context())
	httpx.WriteJSON(w, http.StatusOK, MeResponse{
		ID:       claims.SubjectID,
		Username: claims.SubjectName,
		IssuedAt: claims.IssuedAt,
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
