package api

import (
	"net/http"
	"strconv"
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/models/dtos"
	"route-vending/tablegrid/internal/services"
)

// GetView handles GET /api/v1/view. Query parameters that are present update
// the caller's stored view state; absent ones keep it.
func (h *Handlers) GetView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		q, err := parseViewQuery(r)
		if err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		view, err := h.deps.Services.Views.View(r.Context(), q)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to compose view")
			return
		}
		common.RespondSuccess(w, initTime, "View composed successfully", view)
	}
}

func parseViewQuery(r *http.Request) (services.ViewQuery, error) {
	values := r.URL.Query()
	q := services.ViewQuery{
		UserID:       values.Get("userId"),
		ClearFilters: queryBool(r, "clear"),
	}
	if q.UserID == "" {
		return q, constants.NewFieldError("userId", "is required")
	}

	if values.Has("search") {
		search := values.Get("search")
		q.Search = &search
	}
	if values.Has("route") {
		q.Routes = append([]string{}, common.SplitCSV(values["route"])...)
	}
	if values.Has("trip") {
		q.Trips = append([]string{}, common.SplitCSV(values["trip"])...)
	}

	for key, dst := range map[string]**int{"page": &q.Page, "pageSize": &q.PageSize} {
		if !values.Has(key) {
			continue
		}
		n, err := strconv.Atoi(values.Get(key))
		if err != nil {
			return q, constants.NewFieldError(key, "must be an integer")
		}
		*dst = &n
	}
	return q, nil
}

// SortView handles POST /api/v1/view/sort
func (h *Handlers) SortView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SortRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}
		if err := dtos.Validate(req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		view, err := h.deps.Services.Views.Sort(r.Context(), auth.GetEditSession(r.Context()), req.UserID, req.Column)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to apply sort")
			return
		}
		common.RespondSuccess(w, initTime, "Sort applied", view)
	}
}

// MoveRow handles POST /api/v1/view/move, the end of a drag gesture.
func (h *Handlers) MoveRow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.MoveRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}
		if err := dtos.Validate(req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		view, err := h.deps.Services.Views.Move(r.Context(), auth.GetEditSession(r.Context()), req.UserID, *req.From, *req.To)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to reorder rows")
			return
		}
		common.RespondSuccess(w, initTime, "Rows reordered successfully", view)
	}
}

// PendingMutations handles GET /api/v1/mutations/pending
func (h *Handlers) PendingMutations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		common.RespondSuccess(w, initTime, "Pending mutations", h.deps.Services.Coordinator.Pending())
	}
}

// Notifications handles GET /api/v1/notifications?limit=
func (h *Handlers) Notifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		common.RespondSuccess(w, initTime, "Notifications", h.deps.Services.Notifications.List(limit))
	}
}
