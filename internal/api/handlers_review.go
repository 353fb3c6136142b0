package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dineguide/dineguide/internal/api/respond"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/services"
)

// ReviewHandler serves the review sub-resource.
type ReviewHandler struct {
	svc     *services.ReviewService
	maxBody int64
}

func NewReviewHandler(svc *services.ReviewService, maxBody int64) *ReviewHandler {
	return &ReviewHandler{svc: svc, maxBody: maxBody}
}

// CreateReview POST /restaurants/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	rv := model.Review{Author: req.Author, Rating: int(req.Rating), Comment: req.Comment}
	if req.Date != nil {
		rv.Date = *req.Date
	}
	out, err := h.svc.Create(r.Context(), mux.Vars(r)["id"], rv)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// DeleteReview DELETE /restaurants/{id}/reviews/{reviewKey}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.Delete(r.Context(), vars["id"], vars["reviewKey"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
