package client

import (
	"context"

	"github.com/dineguide/dineguide/internal/model"
)

// CreateReview adds a review to a restaurant.
func (c *Client) CreateReview(ctx context.Context, restaurantID string, in ReviewInput) (*model.Review, error) {
	body := reviewBody{ReviewInput: in}
	if !in.Date.IsZero() {
		body.Date = &in.Date
	}
	var out model.Review
	resp, err := c.request(ctx).
		SetPathParam("id", restaurantID).
		SetBody(body).
		SetResult(&out).
		Post("/restaurants/{id}/reviews")
	if err := check("create review", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReview(ctx context.Context, restaurantID, reviewKey string) error {
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"id": restaurantID, "reviewKey": reviewKey}).
		Delete("/restaurants/{id}/reviews/{reviewKey}")
	return check("delete review", resp, err)
}

// PutCollection creates or replaces the collection at slug.
func (c *Client) PutCollection(ctx context.Context, slug string, in CollectionInput) (*model.Collection, error) {
	if in.RestaurantIDs == nil {
		in.RestaurantIDs = []string{}
	}
	var out model.Collection
	resp, err := c.request(ctx).
		SetPathParam("slug", slug).
		SetBody(in).
		SetResult(&out).
		Put("/collections/{slug}")
	if err := check("put collection", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCollection(ctx context.Context, slug string) error {
	resp, err := c.request(ctx).SetPathParam("slug", slug).Delete("/collections/{slug}")
	return check("delete collection", resp, err)
}
