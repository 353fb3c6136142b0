package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dineguide/dineguide/internal/menu"
	"github.com/dineguide/dineguide/internal/model"
)

var _ menu.API = (*Client)(nil)

// GetMenu returns the stored menu of a restaurant.
func (c *Client) GetMenu(ctx context.Context, restaurantID string) ([]model.MenuSection, error) {
	var out struct {
		Menu []model.MenuSection `json:"menu"`
	}
	resp, err := c.request(ctx).
		SetPathParam("id", restaurantID).
		SetResult(&out).
		Get("/restaurants/{id}/menu")
	if err := check("get menu", resp, err); err != nil {
		return nil, err
	}
	return out.Menu, nil
}

func (c *Client) CreateMenuSection(ctx context.Context, restaurantID, name string) (*model.MenuSection, error) {
	var out model.MenuSection
	resp, err := c.request(ctx).
		SetPathParam("id", restaurantID).
		SetBody(map[string]string{"name": name}).
		SetResult(&out).
		Post("/restaurants/{id}/menu")
	if err := check("create menu section", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMenuSection(ctx context.Context, restaurantID, sectionKey string, patch model.SectionPatch) error {
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"id": restaurantID, "sectionKey": sectionKey}).
		SetBody(patch).
		Put("/restaurants/{id}/menu/{sectionKey}")
	return check("update menu section", resp, err)
}

func (c *Client) DeleteMenuSection(ctx context.Context, restaurantID, sectionKey string) error {
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"id": restaurantID, "sectionKey": sectionKey}).
		Delete("/restaurants/{id}/menu/{sectionKey}")
	return check("delete menu section", resp, err)
}

// CreateMenuItem adds an item to a section. An item with a PendingImage is
// sent as multipart so the image is stored with it.
func (c *Client) CreateMenuItem(ctx context.Context, restaurantID, sectionKey string, item model.MenuItem) (*model.MenuItem, error) {
	body := map[string]interface{}{
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
	}
	req := c.request(ctx).SetPathParams(map[string]string{"id": restaurantID, "sectionKey": sectionKey})
	if item.PendingImage != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode menu item: %w", err)
		}
		req.SetMultipartFormData(map[string]string{fieldData: string(data)})
		addUpload(req, fieldItemImage, *item.PendingImage)
	} else {
		req.SetBody(body)
	}

	var out model.MenuItem
	resp, err := req.SetResult(&out).Post("/restaurants/{id}/menu/{sectionKey}/item")
	if err := check("create menu item", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, restaurantID, itemKey string, patch model.ItemPatch) error {
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"id": restaurantID, "itemKey": itemKey}).
		SetBody(patch).
		Put("/restaurants/{id}/menu/item/{itemKey}")
	return check("update menu item", resp, err)
}

func (c *Client) DeleteMenuItem(ctx context.Context, restaurantID, itemKey string) error {
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"id": restaurantID, "itemKey": itemKey}).
		Delete("/restaurants/{id}/menu/item/{itemKey}")
	return check("delete menu item", resp, err)
}
