// Package httpapi exposes the issuer over HTTP: registration, login and a
// liveness probe.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/dmitrijs2005/tokenbridge/internal/httpx"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/models"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
)

// maxBodyBytes caps request bodies; credentials are tiny.
const maxBodyBytes = 1 << 20

const (
	msgMalformedBody      = "malformed request body"
	msgDuplicateUser      = "username already taken"
	msgInvalidCredentials = "invalid username or password"
	msgInternal           = "internal server error"
)

type CredentialStore interface {
	Register(ctx context.Context, userName, password string) (*models.User, error)
	Verify(ctx context.Context, userName, password string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(sub auth.Subject) (string, error)
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Errors []string `json:"errors"`
}

type Handler struct {
	store  CredentialStore
	tokens TokenIssuer
	logger logging.Logger
}

func NewHandler(store CredentialStore, tokens TokenIssuer, logger logging.Logger) *Handler {
	return &Handler{store: store, tokens: tokens, logger: logger.With("module", "issuer-http")}
}

// Routes returns the issuer's mux wrapped in the shared middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("GET /healthz", h.Health)

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.Recover(h.logger),
		httpx.AccessLog(h.logger),
	)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	user, err := h.store.Register(ctx, req.Username, req.Password)
	if err != nil {
		var verr *common.ValidationError
		switch {
		case errors.As(err, &verr):
			writeErrors(w, http.StatusBadRequest, verr.Problems...)
		case errors.Is(err, common.ErrDuplicateUser):
			h.logger.Info(ctx, "registration rejected: duplicate", "username", req.Username)
			writeErrors(w, http.StatusBadRequest, msgDuplicateUser)
		default:
			h.logger.Error(ctx, "registration failed", "error", err)
			writeErrors(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	h.logger.Info(ctx, "Registered", "username", user.UserName, "id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, RegisterResponse{ID: user.ID, Username: user.UserName})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	user, err := h.store.Verify(ctx, req.Username, req.Password)
	if err != nil {
		var verr *common.ValidationError
		switch {
		case errors.As(err, &verr):
			writeErrors(w, http.StatusBadRequest, verr.Problems...)
		case errors.Is(err, common.ErrAuthentication):
			h.logger.Info(ctx, "login failed", "username", req.Username)
			writeErrors(w, http.StatusUnauthorized, msgInvalidCredentials)
		default:
			h.logger.Error(ctx, "login failed", "error", err)
			writeErrors(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	token, err := h.tokens.Issue(auth.Subject{ID: user.ID, Name: user.UserName})
	if err != nil {
		h.logger.Error(ctx, "token issue failed", "error", err)
		writeErrors(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.logger.Info(ctx, "token issued", "username", user.UserName)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (CredentialsRequest, bool) {
	var req CredentialsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, msgMalformedBody)
		return req, false
	}
	return req, true
}

func writeErrors(w http.ResponseWriter, status int, msgs ...string) {
	httpx.WriteJSON(w, status, ErrorResponse{Errors: msgs})
}
