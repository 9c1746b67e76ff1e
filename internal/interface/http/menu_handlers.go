package http

import (
	"net/http"

	dommenu "example.com/food-storefront/internal/domain/menu"
)

func (a *API) handleListMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := a.menuSvc.List(r.Context(), dommenu.Filter{
		Category: q.Get("category"),
		Search:   q.Get("q"),
	})
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, mapMenuItem(it))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.menuSvc.Categories(r.Context())
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (a *API) handleGetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	it, err := a.menuSvc.Get(r.Context(), id)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMenuItem(it))
}
