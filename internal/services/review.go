package services

import (
	"context"
	"strings"

	"github.com/dineguide/dineguide/internal/events"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/store"
)

type ReviewService struct {
	store store.Store
	deps  Deps
}

func NewReviewService(s store.Store, deps Deps) *ReviewService {
	return &ReviewService{store: s, deps: deps.withDefaults()}
}

// Create checks author and rating; a zero date means now.
func (s *ReviewService) Create(ctx context.Context, restaurantID string, rv model.Review) (*model.Review, error) {
	rv.Author = strings.TrimSpace(rv.Author)
	if rv.Author == "" {
		return nil, model.NewValidationError("author", "author is required")
	}
	if rv.Rating < 1 || rv.Rating > 5 {
		return nil, model.NewValidationError("rating", "rating must be an integer from 1 to 5")
	}
	if rv.Date.IsZero() {
		rv.Date = s.deps.Clock()
	}
	out, err := s.store.Reviews().Create(ctx, restaurantID, rv)
	if err != nil {
		return nil, err
	}
	s.deps.changed(ctx, events.Event{Kind: events.ReviewCreated, RestaurantID: restaurantID, Key: out.Key})
	return out, nil
}

func (s *ReviewService) Delete(ctx context.Context, restaurantID, reviewKey string) error {
	if err := s.store.Reviews().Delete(ctx, restaurantID, reviewKey); err != nil {
		return err
	}
	s.deps.changed(ctx, events.Event{Kind: events.ReviewDeleted, RestaurantID: restaurantID, Key: reviewKey})
	return nil
}

// AverageRating is 0 when there are no reviews.
func AverageRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(reviews))
}
