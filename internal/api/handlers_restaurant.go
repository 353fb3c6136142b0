package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dineguide/dineguide/internal/api/respond"
	"github.com/dineguide/dineguide/internal/services"
)

// RestaurantHandler serves the admin restaurant CRUD routes.
type RestaurantHandler struct {
	svc       *services.RestaurantService
	maxUpload int64
}

func NewRestaurantHandler(svc *services.RestaurantService, maxUpload int64) *RestaurantHandler {
	return &RestaurantHandler{svc: svc, maxUpload: maxUpload}
}

// ListRestaurants GET /restaurants
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.List(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"restaurants": recs, "count": len(recs)})
}

// GetRestaurant GET /restaurants/{id}
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

// CreateRestaurant POST /restaurants
func (h *RestaurantHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	in, err := readRestaurantInput(w, r, h.maxUpload)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	out, err := h.svc.Create(r.Context(), in)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// UpdateRestaurant PUT /restaurants/{id}
func (h *RestaurantHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	in, err := readRestaurantInput(w, r, h.maxUpload)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	out, err := h.svc.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteRestaurant DELETE /restaurants/{id}
func (h *RestaurantHandler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
