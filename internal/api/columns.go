package api

import (
	"net/http"
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// ListColumns handles GET /api/v1/columns
func (h *Handlers) ListColumns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		cols, err := h.deps.Services.TableCache.Columns(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to fetch columns")
			return
		}
		common.RespondSuccess(w, initTime, "Columns fetched successfully", cols)
	}
}

// CreateColumn handles POST /api/v1/columns
func (h *Handlers) CreateColumn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateColumnRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		ticket := h.deps.Services.Coordinator.CreateColumn(auth.GetEditSession(r.Context()), req)
		respondTicket(w, r, initTime, ticket, "Column created successfully", http.StatusCreated)
	}
}

// UpdateColumn handles PATCH /api/v1/columns/{id}
func (h *Handlers) UpdateColumn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateColumnRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		ticket := h.deps.Services.Coordinator.UpdateColumn(auth.GetEditSession(r.Context()), chi.URLParam(r, "id"), req)
		respondTicket(w, r, initTime, ticket, "Column updated successfully", http.StatusOK)
	}
}

// DeleteColumn handles DELETE /api/v1/columns/{id}?confirm=true
func (h *Handlers) DeleteColumn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ticket := h.deps.Services.Coordinator.DeleteColumn(
			auth.GetEditSession(r.Context()),
			chi.URLParam(r, "id"),
			queryBool(r, "confirm"),
		)
		respondTicket(w, r, initTime, ticket, "Column deleted successfully", http.StatusOK)
	}
}

// ReorderColumns handles POST /api/v1/columns/reorder
func (h *Handlers) ReorderColumns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ReorderColumnsRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}
		if err := dtos.Validate(req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		ticket := h.deps.Services.Coordinator.ReorderColumns(auth.GetEditSession(r.Context()), req.ColumnIDs)
		respondTicket(w, r, initTime, ticket, "Columns reordered successfully", http.StatusOK)
	}
}
