package menu

import (
	"context"
	"fmt"

	"github.com/dineguide/dineguide/internal/model"
)

// API is the menu sub-resource of the restaurant admin API.
// It is implemented by client.Client.
type API interface {
	GetMenu(ctx context.Context, restaurantID string) ([]model.MenuSection, error)
	CreateMenuSection(ctx context.Context, restaurantID, name string) (*model.MenuSection, error)
	UpdateMenuSection(ctx context.Context, restaurantID, sectionKey string, patch model.SectionPatch) error
	DeleteMenuSection(ctx context.Context, restaurantID, sectionKey string) error
	CreateMenuItem(ctx context.Context, restaurantID, sectionKey string, item model.MenuItem) (*model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, restaurantID, itemKey string, patch model.ItemPatch) error
	DeleteMenuItem(ctx context.Context, restaurantID, itemKey string) error
}

// RemoteRepository edits the menu of a persisted restaurant. Every write is
// followed by a refetch, and the server's menu replaces the local tree.
type RemoteRepository struct {
	api          API
	restaurantID string
}

// NewRemoteRepository returns a remote-mode repository for one restaurant.
func NewRemoteRepository(api API, restaurantID string) *RemoteRepository {
	return &RemoteRepository{api: api, restaurantID: restaurantID}
}

func (r *RemoteRepository) CreateSection(ctx context.Context, _ []model.MenuSection, name string) ([]model.MenuSection, error) {
	if _, err := r.api.CreateMenuSection(ctx, r.restaurantID, name); err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return r.refetch(ctx)
}

func (r *RemoteRepository) UpdateSection(ctx context.Context, _ []model.MenuSection, sectionKey string, patch model.SectionPatch) ([]model.MenuSection, error) {
	if err := r.api.UpdateMenuSection(ctx, r.restaurantID, sectionKey, patch); err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}
	return r.refetch(ctx)
}

func (r *RemoteRepository) DeleteSection(ctx context.Context, _ []model.MenuSection, sectionKey string) ([]model.MenuSection, error) {
	if err := r.api.DeleteMenuSection(ctx, r.restaurantID, sectionKey); err != nil {
		return nil, fmt.Errorf("delete section: %w", err)
	}
	return r.refetch(ctx)
}

func (r *RemoteRepository) CreateItem(ctx context.Context, _ []model.MenuSection, sectionKey string, item model.MenuItem) ([]model.MenuSection, error) {
	if _, err := r.api.CreateMenuItem(ctx, r.restaurantID, sectionKey, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return r.refetch(ctx)
}

func (r *RemoteRepository) UpdateItem(ctx context.Context, _ []model.MenuSection, itemKey string, patch model.ItemPatch) ([]model.MenuSection, error) {
	if err := r.api.UpdateMenuItem(ctx, r.restaurantID, itemKey, patch); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return r.refetch(ctx)
}

func (r *RemoteRepository) DeleteItem(ctx context.Context, _ []model.MenuSection, itemKey string) ([]model.MenuSection, error) {
	if err := r.api.DeleteMenuItem(ctx, r.restaurantID, itemKey); err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	return r.refetch(ctx)
}

func (r *RemoteRepository) refetch(ctx context.Context) ([]model.MenuSection, error) {
	menu, err := r.api.GetMenu(ctx, r.restaurantID)
	if err != nil {
		return nil, fmt.Errorf("refetch menu: %w", err)
	}
	return Clone(menu), nil
}
