package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
	"github.com/couchcryptid/cropwise-guidance-service/internal/store"
)

// ruleRequest is the admin create/update payload. Bounds are stored as
// given; min > max is not rejected and yields degenerate scores.
type ruleRequest struct {
	Name    string   `json:"name" validate:"required"`
	Seasons []string `json:"seasons" validate:"required,min=1"`
	TempMin float64  `json:"temp_min"`
	TempMax float64  `json:"temp_max"`
	RainMin float64  `json:"rain_min"`
	RainMax float64  `json:"rain_max"`
	Active  *bool    `json:"active"`
}

func (req ruleRequest) toModel() store.CropRule {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return store.CropRule{
		Name:       req.Name,
		SeasonsCSV: store.SeasonsToCSV(req.Seasons),
		TempMin:    req.TempMin,
		TempMax:    req.TempMax,
		RainMin:    req.RainMin,
		RainMax:    req.RainMax,
		Active:     active,
	}
}

type ruleResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Seasons   []string  `json:"seasons"`
	TempMin   float64   `json:"temp_min"`
	TempMax   float64   `json:"temp_max"`
	RainMin   float64   `json:"rain_min"`
	RainMax   float64   `json:"rain_max"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func ruleToResponse(r store.CropRule) ruleResponse {
	return ruleResponse{
		ID:        r.ID,
		Name:      r.Name,
		Seasons:   r.Seasons(),
		TempMin:   r.TempMin,
		TempMax:   r.TempMax,
		RainMin:   r.RainMin,
		RainMax:   r.RainMax,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
	}
}

func ruleID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, domain.NotFound("Rule not found")
	}
	return uint(id), nil
}

func (h *handlers) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.store.ListRules(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		out[i] = ruleToResponse(rule)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	rule := req.toModel()
	if err := h.store.CreateRule(r.Context(), &rule); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ruleToResponse(rule))
}

func (h *handlers) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := ruleID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req ruleRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	rule := req.toModel()
	rule.ID = id
	if err := h.store.UpdateRule(r.Context(), &rule); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ruleToResponse(rule))
}

func (h *handlers) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := ruleID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.store.DeleteRule(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
