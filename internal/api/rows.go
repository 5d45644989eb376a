package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// ListRows handles GET /api/v1/rows
func (h *Handlers) ListRows() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		rows, err := h.deps.Services.TableCache.Rows(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to fetch rows")
			return
		}
		common.RespondSuccess(w, initTime, "Rows fetched successfully", rows)
	}
}

// GetRow handles GET /api/v1/rows/{id}
func (h *Handlers) GetRow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		row, err := h.deps.Services.Table.GetRow(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, initTime, err, constants.StatusRowNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Row fetched successfully", row)
	}
}

// CreateRow handles POST /api/v1/rows
func (h *Handlers) CreateRow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateRowRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		ticket := h.deps.Services.Coordinator.CreateRow(auth.GetEditSession(r.Context()), req)
		respondTicket(w, r, initTime, ticket, "Row created successfully", http.StatusCreated)
	}
}

// UpdateRow handles PATCH /api/v1/rows/{id}. The body is a partial field map.
func (h *Handlers) UpdateRow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var raw map[string]json.RawMessage
		if err := decodeJSON(r, &raw); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}
		in, err := dtos.ParseRowPatch(raw)
		if err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		ticket := h.deps.Services.Coordinator.UpdateRow(auth.GetEditSession(r.Context()), chi.URLParam(r, "id"), in)
		respondTicket(w, r, initTime, ticket, "Row updated successfully", http.StatusOK)
	}
}

// DeleteRow handles DELETE /api/v1/rows/{id}?confirm=true
func (h *Handlers) DeleteRow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ticket := h.deps.Services.Coordinator.DeleteRow(
			auth.GetEditSession(r.Context()),
			chi.URLParam(r, "id"),
			queryBool(r, "confirm"),
		)
		respondTicket(w, r, initTime, ticket, "Row deleted successfully", http.StatusOK)
	}
}

// ReorderRows handles POST /api/v1/rows/reorder
func (h *Handlers) ReorderRows() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ReorderRowsRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}
		if err := dtos.Validate(req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		ticket := h.deps.Services.Coordinator.ReorderRows(auth.GetEditSession(r.Context()), req.RowIDs)
		respondTicket(w, r, initTime, ticket, "Rows reordered successfully", http.StatusOK)
	}
}

// AddImage handles POST /api/v1/rows/{id}/images
func (h *Handlers) AddImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ImageRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		ticket := h.deps.Services.Coordinator.AddImage(auth.GetEditSession(r.Context()), chi.URLParam(r, "id"), req)
		respondTicket(w, r, initTime, ticket, "Image added successfully", http.StatusCreated)
	}
}

// UpdateImage handles PATCH /api/v1/rows/{id}/images/{index}
func (h *Handlers) UpdateImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		index, err := imageIndex(r)
		if err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}
		var req dtos.ImageUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		ticket := h.deps.Services.Coordinator.UpdateImage(auth.GetEditSession(r.Context()), chi.URLParam(r, "id"), *index, req)
		respondTicket(w, r, initTime, ticket, "Image updated successfully", http.StatusOK)
	}
}

// DeleteImage handles DELETE /api/v1/rows/{id}/images[/{index}]. Without an
// index every image of the row is removed.
func (h *Handlers) DeleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var index *int
		if chi.URLParam(r, "index") != "" {
			var err error
			if index, err = imageIndex(r); err != nil {
				respondServiceError(w, initTime, err, constants.StatusInvalidData)
				return
			}
		}

		ticket := h.deps.Services.Coordinator.DeleteImage(
			auth.GetEditSession(r.Context()),
			chi.URLParam(r, "id"),
			index,
			queryBool(r, "confirm"),
		)
		respondTicket(w, r, initTime, ticket, "Image deleted successfully", http.StatusOK)
	}
}

func imageIndex(r *http.Request) (*int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		return nil, constants.NewFieldError("index", constants.MsgInvalidImageIndex)
	}
	return &index, nil
}
