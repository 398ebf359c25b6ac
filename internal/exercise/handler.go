package exercise

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/httpx"
)

// Handler exposes the exercise log over HTTP. Routes must carry an {id}
// path wildcard naming the user.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Append handles POST /api/users/{id}/exercises.
func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	fields, err := httpx.Fields(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	view, err := h.svc.Append(r.Context(), r.PathValue("id"), NewExercise{
		Description: fields.Get("description"),
		Duration:    fields.Get("duration"),
		Date:        fields.Get("date"),
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.Debugw("exercise logged", "user_id", view.ID, "date", view.Date)
	httpx.WriteJSON(w, http.StatusCreated, view)
}

// Logs handles GET /api/users/{id}/logs?from=&to=&limit=.
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.svc.Query(r.Context(), r.PathValue("id"), LogQuery{
		From:  q.Get("from"),
		To:    q.Get("to"),
		Limit: q.Get("limit"),
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}
