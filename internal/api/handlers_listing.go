package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dineguide/dineguide/internal/api/respond"
	"github.com/dineguide/dineguide/internal/catalog"
	"github.com/dineguide/dineguide/internal/services"
)

// ListingHandler serves the public read routes under /api.
type ListingHandler struct {
	svc *services.ListingService
}

func NewListingHandler(svc *services.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

// ListRestaurants GET /api/restaurants?search=&location=&cuisine=&price=&tag=&page=
func (h *ListingHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	out, err := h.svc.Page(r.Context(), catalog.CriteriaFromQuery(q), page)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// FilterOptions GET /api/restaurants/filters
func (h *ListingHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.FilterOptions(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// GetRestaurant GET /api/restaurants/{id}?w=&h=
func (h *ListingHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, _ := strconv.Atoi(q.Get("w"))
	height, _ := strconv.Atoi(q.Get("h"))
	out, err := h.svc.Detail(r.Context(), mux.Vars(r)["id"], width, height)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListCollections GET /api/collections
func (h *ListingHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := h.svc.Collections(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"collections": cols, "count": len(cols)})
}

// GetCollection GET /api/collections/{slug}
func (h *ListingHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Collection(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
