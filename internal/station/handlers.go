package station

import (
	"encoding/json"
	"errors"
	"net/http"

	"stall-system/internal/domain"
)

type Handler struct {
	svc ServiceInterface
}

func NewHandler(svc ServiceInterface) *Handler { return &Handler{svc: svc} }

func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /basket/items", h.AddItem)
	mux.HandleFunc("GET /basket", h.GetBasket)
	mux.HandleFunc("POST /basket/confirm", h.Confirm)
	mux.HandleFunc("DELETE /basket", h.ClearBasket)
	mux.HandleFunc("GET /queue", h.GetQueue)
}

type addItemRequest struct {
	Item domain.ItemType `json:"item"`
}

type addItemResponse struct {
	Line     domain.OrderLine `json:"line"`
	Label    int64            `json:"label"`
	Subtotal int64            `json:"subtotal"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	line, err := h.svc.AddItem(r.Context(), req.Item)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, addItemResponse{
			Line:     line,
			Label:    line.Label(),
			Subtotal: h.svc.Basket().Subtotal,
		})
	case errors.Is(err, domain.ErrUnknownItem):
		writeProblem(w, http.StatusBadRequest, "unknown_item", err.Error())
	default:
		// sequencer unreachable: the add is aborted, nothing staged
		writeProblem(w, http.StatusBadGateway, "sequencer_unavailable", err.Error())
	}
}

func (h *Handler) GetBasket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Basket())
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Confirm(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"committed": n})
	case errors.Is(err, domain.ErrEmptyBasket):
		writeProblem(w, http.StatusConflict, "empty_basket", err.Error())
	case errors.Is(err, domain.ErrConfirmInFlight):
		writeProblem(w, http.StatusConflict, "confirm_in_flight", err.Error())
	default:
		// basket kept intact; the station retries
		writeProblem(w, http.StatusBadGateway, "commit_failed", err.Error())
	}
}

func (h *Handler) ClearBasket(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearBasket()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Queue())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
