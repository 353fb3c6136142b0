package client

import (
	"context"
	"strconv"

	"github.com/dineguide/dineguide/internal/catalog"
	"github.com/dineguide/dineguide/internal/model"
)

// ListingPage fetches one page of the public listing. Page 0 means the first page.
func (c *Client) ListingPage(ctx context.Context, criteria catalog.Criteria, page int) (*ListingPage, error) {
	q := criteria.Query()
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var out ListingPage
	resp, err := c.request(ctx).
		SetQueryParamsFromValues(q).
		SetResult(&out).
		Get("/api/restaurants")
	if err := check("listing page", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// FilterOptions returns the values offered by the listing filters.
func (c *Client) FilterOptions(ctx context.Context) (*catalog.FilterOptions, error) {
	var out catalog.FilterOptions
	resp, err := c.request(ctx).SetResult(&out).Get("/api/restaurants/filters")
	if err := check("filter options", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestaurantDetail returns the public detail view. Non-zero width and height
// are passed on so image URLs carry the requested dimensions.
func (c *Client) RestaurantDetail(ctx context.Context, id string, width, height int) (*RestaurantDetail, error) {
	req := c.request(ctx).SetPathParam("id", id)
	if width > 0 {
		req.SetQueryParam("w", strconv.Itoa(width))
	}
	if height > 0 {
		req.SetQueryParam("h", strconv.Itoa(height))
	}
	var out RestaurantDetail
	resp, err := req.SetResult(&out).Get("/api/restaurants/{id}")
	if err := check("restaurant detail", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCollections returns every curated collection.
func (c *Client) ListCollections(ctx context.Context) ([]*model.Collection, error) {
	var out struct {
		Collections []*model.Collection `json:"collections"`
		Count       int                 `json:"count"`
	}
	resp, err := c.request(ctx).SetResult(&out).Get("/api/collections")
	if err := check("list collections", resp, err); err != nil {
		return nil, err
	}
	return out.Collections, nil
}

// GetCollection returns a collection with its restaurants resolved.
func (c *Client) GetCollection(ctx context.Context, slug string) (*CollectionDetail, error) {
	var out CollectionDetail
	resp, err := c.request(ctx).
		SetPathParam("slug", slug).
		SetResult(&out).
		Get("/api/collections/{slug}")
	if err := check("get collection", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
