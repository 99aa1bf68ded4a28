package itinerary

import (
	"errors"
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

type buildRequest struct {
	Result types.GenerationResult `json:"result"`
	Trip   types.TripContext      `json:"trip"`
}

type buildResponse struct {
	Itinerary types.Itinerary             `json:"itinerary"`
	Report    []types.ConstraintViolation `json:"report"`
}

// Build runs the full construction pipeline on a supplied generation result.
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	itin, report, err := h.service.BuildItinerary(r.Context(), req.Result, req.Trip)
	if err != nil {
		h.respondPipelineError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, buildResponse{Itinerary: itin, Report: report})
}

// Generate runs the generation collaborator and then the pipeline.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var trip types.TripContext
	if err := api.DecodeJSONBody(w, r, &trip); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	itin, report, err := h.service.GenerateItinerary(r.Context(), trip)
	if err != nil {
		h.respondPipelineError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, buildResponse{Itinerary: itin, Report: report})
}

type editRequest struct {
	Itinerary types.Itinerary        `json:"itinerary"`
	SlotID    string                 `json:"slot_id,omitempty"`
	DayNumber int                    `json:"day_number,omitempty"`
	Option    *types.ActivityOption  `json:"option,omitempty"`
	Options   []types.ActivityOption `json:"options,omitempty"`
	Slot      *types.Slot            `json:"slot,omitempty"`
	DayOrder  []int                  `json:"day_order,omitempty"`
	SlotOrder []string               `json:"slot_order,omitempty"`
}

// Edit dispatches the structural edit operations. Constraint feasibility
// never blocks an edit; only structural errors are reported.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var (
		out types.Itinerary
		err error
	)
	switch {
	case req.Option != nil:
		out, err = h.service.SwapOption(req.Itinerary, req.SlotID, *req.Option)
	case req.Options != nil:
		out, err = h.service.FillSlot(req.Itinerary, req.SlotID, req.Options)
	case req.DayOrder != nil:
		out, err = h.service.ReorderDays(req.Itinerary, req.DayOrder)
	case req.SlotOrder != nil:
		out, err = h.service.ReorderSlots(req.Itinerary, req.DayNumber, req.SlotOrder)
	case req.Slot != nil:
		out, err = h.service.AddSlot(req.Itinerary, req.DayNumber, *req.Slot)
	case req.SlotID != "":
		out, err = h.service.RemoveSlot(req.Itinerary, req.SlotID)
	default:
		api.ErrorResponse(w, r, http.StatusBadRequest, "no edit operation in request")
		return
	}
	if err != nil {
		h.respondPipelineError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]types.Itinerary{"itinerary": out})
}

func (h *Handler) respondPipelineError(w http.ResponseWriter, r *http.Request, err error) {
	var structural *types.StructuralError
	var parse *types.ParseError
	switch {
	case errors.As(err, &structural):
		api.ErrorResponse(w, r, http.StatusNotFound, structural.Error())
	case errors.As(err, &parse):
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, parse.Error())
	default:
		h.logger.ErrorContext(r.Context(), "pipeline failure", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "itinerary construction failed")
	}
}
