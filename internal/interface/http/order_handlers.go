package http

import (
	"net/http"
	"strconv"

	domorder "example.com/food-storefront/internal/domain/order"
)

type advanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		limit = n
	}

	orders, err := a.orderSvc.ListRecent(r.Context(), currentUser(r).UserID, limit)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleLatestOrder(w http.ResponseWriter, r *http.Request) {
	o, err := a.orderSvc.Latest(r.Context(), currentUser(r).UserID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapTracking(o))
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	o, err := a.orderSvc.GetForUser(r.Context(), currentUser(r).UserID, id)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapTracking(o))
}

func (a *API) handleAdvanceOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req advanceStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	status, err := domorder.ParseStatus(req.Status)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	o, err := a.orderSvc.AdvanceStatus(r.Context(), id, status)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapTracking(o))
}
