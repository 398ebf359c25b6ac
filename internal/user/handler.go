package user

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/httpx"
)

// Handler exposes HTTP endpoints for the user directory.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /api/users with a `username` field.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := httpx.Fields(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	u, err := h.svc.Create(r.Context(), NewUser{Username: fields.Get("username")})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.Debugw("user created", "user_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, u)
}

// List handles GET /api/users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}
