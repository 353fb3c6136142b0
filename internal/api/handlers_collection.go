package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dineguide/dineguide/internal/api/respond"
	"github.com/dineguide/dineguide/internal/api/validate"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/services"
)

// CollectionHandler serves the admin collection routes.
type CollectionHandler struct {
	svc     *services.CollectionService
	maxBody int64
}

func NewCollectionHandler(svc *services.CollectionService, maxBody int64) *CollectionHandler {
	return &CollectionHandler{svc: svc, maxBody: maxBody}
}

// PutCollection PUT /collections/{slug}
func (h *CollectionHandler) PutCollection(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if err := validate.Slug(slug); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	var req collectionRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	out, err := h.svc.Put(r.Context(), model.Collection{
		Slug:          slug,
		Title:         req.Title,
		Description:   req.Description,
		RestaurantIDs: req.RestaurantIDs,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteCollection DELETE /collections/{slug}
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["slug"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
