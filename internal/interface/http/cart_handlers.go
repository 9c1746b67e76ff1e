package http

import (
	"net/http"

	domorder "example.com/food-storefront/internal/domain/order"
)

type addCartItemRequest struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	// zero or less removes the line
	Quantity *int64 `json:"quantity" validate:"required"`
}

func (a *API) handleViewCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapSummary(a.cartSvc.View(r.Context(), cartSession(r.Context()))))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := a.cartSvc.Add(r.Context(), cartSession(r.Context()), req.MenuItemID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapSummary(summary))
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	summary := a.cartSvc.UpdateQuantity(r.Context(), cartSession(r.Context()), id, *req.Quantity)
	writeJSON(w, http.StatusOK, mapSummary(summary))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSummary(a.cartSvc.Remove(r.Context(), cartSession(r.Context()), id)))
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapSummary(a.cartSvc.Clear(r.Context(), cartSession(r.Context()))))
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := a.cartSvc.Open(ctx, cartSession(ctx))
	if c.IsEmpty() {
		a.handleDomainError(w, r, domorder.ErrEmptyCart)
		return
	}

	res, err := a.checkoutSvc.Checkout(ctx, c)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	a.cartSvc.Save(ctx, c)

	writeJSON(w, http.StatusCreated, map[string]any{
		"order":  mapOrder(res.Order),
		"state":  res.State,
		"shared": res.Shared,
	})
}
