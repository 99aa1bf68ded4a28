package validation

import (
	"log/slog"
	"net/http"

	"github.com/munishbansal2000/layla-sub001/internal/api"
	"github.com/munishbansal2000/layla-sub001/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var itin types.Itinerary
	if err := api.DecodeJSONBody(w, r, &itin); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Validate(r.Context(), itin))
}

func (h *Handler) HealthSummary(w http.ResponseWriter, r *http.Request) {
	var itin types.Itinerary
	if err := api.DecodeJSONBody(w, r, &itin); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.GetHealthSummary(r.Context(), itin))
}

type filterRequest struct {
	Itinerary  types.Itinerary             `json:"itinerary"`
	Candidates []types.SuggestionCandidate `json:"candidates"`
	Target     types.SuggestionTarget      `json:"target"`
}

func (h *Handler) FilterSuggestions(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	ranked := h.service.FilterSuggestions(r.Context(), req.Candidates, req.Itinerary, req.Target)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"candidates": ranked})
}

type actionRequest struct {
	Itinerary types.Itinerary  `json:"itinerary"`
	Action    types.UserAction `json:"action"`
}

func (h *Handler) ValidateAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.ValidateUserAction(r.Context(), req.Itinerary, req.Action))
}
