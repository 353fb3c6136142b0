package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/dineguide/dineguide/internal/model"
)

// Multipart field names understood by the admin restaurant and menu routes.
const (
	fieldData          = "data"
	fieldMainImage     = "mainImage"
	fieldGalleryImages = "galleryImages"
	fieldItemImage     = "image"
	menuImagePrefix    = "menuImage:"
)

// ListRestaurants returns every record through the admin API.
func (c *Client) ListRestaurants(ctx context.Context) ([]*model.Restaurant, error) {
	var out struct {
		Restaurants []*model.Restaurant `json:"restaurants"`
		Count       int                 `json:"count"`
	}
	resp, err := c.request(ctx).SetResult(&out).Get("/restaurants")
	if err := check("list restaurants", resp, err); err != nil {
		return nil, err
	}
	return out.Restaurants, nil
}

// GetRestaurant returns the stored record, including menu and reviews.
func (c *Client) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	var out model.Restaurant
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get("/restaurants/{id}")
	if err := check("get restaurant", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRestaurant submits a new record. Uploads switch the request to multipart.
func (c *Client) CreateRestaurant(ctx context.Context, form RestaurantForm) (*model.Restaurant, error) {
	req, err := c.restaurantRequest(ctx, form)
	if err != nil {
		return nil, err
	}
	var out model.Restaurant
	resp, err := req.SetResult(&out).Post("/restaurants")
	if err := check("create restaurant", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRestaurant replaces a record. A nil Menu keeps the stored menu and
// an empty one clears it.
func (c *Client) UpdateRestaurant(ctx context.Context, id string, form RestaurantForm) (*model.Restaurant, error) {
	req, err := c.restaurantRequest(ctx, form)
	if err != nil {
		return nil, err
	}
	var out model.Restaurant
	resp, err := req.SetPathParam("id", id).SetResult(&out).Put("/restaurants/{id}")
	if err := check("update restaurant", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRestaurant removes a record and its images.
func (c *Client) DeleteRestaurant(ctx context.Context, id string) error {
	resp, err := c.request(ctx).SetPathParam("id", id).Delete("/restaurants/{id}")
	return check("delete restaurant", resp, err)
}

func (c *Client) restaurantRequest(ctx context.Context, form RestaurantForm) (*resty.Request, error) {
	req := c.request(ctx)
	body := newRestaurantBody(form.Restaurant)
	if !form.hasUploads() {
		return req.SetBody(body), nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode restaurant: %w", err)
	}
	req.SetMultipartFormData(map[string]string{fieldData: string(data)})
	if form.MainImage != nil {
		addUpload(req, fieldMainImage, *form.MainImage)
	}
	for _, u := range form.GalleryImages {
		addUpload(req, fieldGalleryImages, u)
	}
	for _, s := range form.Restaurant.Menu {
		for _, it := range s.Items {
			if it.PendingImage != nil {
				addUpload(req, menuImagePrefix+it.Key, *it.PendingImage)
			}
		}
	}
	return req, nil
}

func addUpload(req *resty.Request, field string, u model.Upload) {
	req.SetMultipartField(field, u.Filename, u.ContentType, bytes.NewReader(u.Data))
}
