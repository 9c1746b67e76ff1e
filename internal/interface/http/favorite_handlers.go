package http

import "net/http"

func (a *API) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := a.favoriteSvc.List(r.Context(), currentUser(r).UserID)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(favorites))
	for _, f := range favorites {
		resp = append(resp, mapFavorite(f))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.favoriteSvc.Add(r.Context(), currentUser(r).UserID, id); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.favoriteSvc.Remove(r.Context(), currentUser(r).UserID, id); err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
