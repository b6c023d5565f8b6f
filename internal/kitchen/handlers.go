package kitchen

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"stall-system/internal/domain"
)

type Handler struct {
	ctrl ControllerInterface
}

func NewHandler(ctrl ControllerInterface) *Handler { return &Handler{ctrl: ctrl} }

func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /queue", h.GetQueue)
	mux.HandleFunc("POST /queue/{id}/arm", h.Arm)
	mux.HandleFunc("POST /queue/disarm", h.Disarm)
	mux.HandleFunc("POST /queue/handoff", h.HandOff)
}

func (h *Handler) GetQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Queue())
}

func (h *Handler) Arm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_id", "line id must be an integer")
		return
	}
	if err := h.ctrl.Arm(id); err != nil {
		writeProblem(w, http.StatusNotFound, "not_pending", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"armed_id": id})
}

func (h *Handler) Disarm(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Disarm()
	writeJSON(w, http.StatusOK, map[string]any{"armed_id": 0})
}

func (h *Handler) HandOff(w http.ResponseWriter, r *http.Request) {
	id, err := h.ctrl.HandOff(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"served_id": id})
	case errors.Is(err, domain.ErrNothingArmed):
		writeProblem(w, http.StatusConflict, "nothing_armed", err.Error())
	default:
		// line remains pending; the kitchen retries by arming again
		writeProblem(w, http.StatusBadGateway, "serve_failed", err.Error())
	}
}

// writeJSON отдаёт JSON с нужным статусом
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem — единый формат ошибок (упрощённый RFC7807)
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
