package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dineguide/dineguide/internal/api/respond"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/services"
)

// MenuHandler serves the menu sub-resource used by remote-mode editors.
type MenuHandler struct {
	svc       *services.MenuService
	maxUpload int64
}

func NewMenuHandler(svc *services.MenuService, maxUpload int64) *MenuHandler {
	return &MenuHandler{svc: svc, maxUpload: maxUpload}
}

// GetMenu GET /restaurants/{id}/menu
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	if m == nil {
		m = []model.MenuSection{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"menu": m})
}

// CreateSection POST /restaurants/{id}/menu
func (h *MenuHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := decodeJSON(w, r, h.maxUpload, &req); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	sec, err := h.svc.CreateSection(r.Context(), mux.Vars(r)["id"], req.Name)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, sec)
}

// UpdateSection PUT /restaurants/{id}/menu/{sectionKey}
func (h *MenuHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := decodeJSON(w, r, h.maxUpload, &req); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	vars := mux.Vars(r)
	if err := h.svc.UpdateSection(r.Context(), vars["id"], vars["sectionKey"], model.SectionPatch{Name: &req.Name}); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSection DELETE /restaurants/{id}/menu/{sectionKey}
func (h *MenuHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.DeleteSection(r.Context(), vars["id"], vars["sectionKey"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateItem POST /restaurants/{id}/menu/{sectionKey}/item
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	item, image, err := readItem(w, r, h.maxUpload)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	vars := mux.Vars(r)
	out, err := h.svc.CreateItem(r.Context(), vars["id"], vars["sectionKey"], item, image)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// UpdateItem PUT /restaurants/{id}/menu/item/{itemKey}
func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	patch, image, err := readItemPatch(w, r, h.maxUpload)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	vars := mux.Vars(r)
	if err := h.svc.UpdateItem(r.Context(), vars["id"], vars["itemKey"], patch, image); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem DELETE /restaurants/{id}/menu/item/{itemKey}
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.DeleteItem(r.Context(), vars["id"], vars["itemKey"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
