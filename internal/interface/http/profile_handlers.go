package http

import (
	"net/http"

	profileuc "example.com/food-storefront/internal/usecase/profile"
)

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Address  string `json:"address" validate:"omitempty,min=5,max=500"`
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := a.profileSvc.Get(r.Context(), currentUser(r).UserID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProfile(p))
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.profileSvc.Update(r.Context(), currentUser(r).UserID, profileuc.UpdateInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProfile(p))
}

func (a *API) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := a.profileSvc.Overview(r.Context(), currentUser(r).UserID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	orders := make([]map[string]any, 0, len(ov.RecentOrders))
	for _, o := range ov.RecentOrders {
		orders = append(orders, mapOrder(o))
	}
	favorites := make([]map[string]any, 0, len(ov.Favorites))
	for _, f := range ov.Favorites {
		favorites = append(favorites, mapFavorite(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":       mapProfile(ov.Profile),
		"recent_orders": orders,
		"total_orders":  len(ov.RecentOrders),
		"total_spent":   ov.TotalSpent.InexactFloat64(),
		"favorites":     favorites,
	})
}
