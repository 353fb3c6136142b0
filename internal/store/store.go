package store

import (
	"context"

	"github.com/dineguide/dineguide/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Restaurants() Restaurants
	Menus() Menus
	Reviews() Reviews
	Collections() Collections
}

// Restaurants persists restaurant records. Missing records are reported as model.NotFoundError.
type Restaurants interface {
	// Create stores r with its menu. An empty ID is generated; a taken ID is a conflict.
	Create(ctx context.Context, r *model.Restaurant) (*model.Restaurant, error)
	// Get returns the full record including menu and reviews.
	Get(ctx context.Context, id string) (*model.Restaurant, error)
	// List returns every record ordered by name, without menu and reviews.
	List(ctx context.Context) ([]*model.Restaurant, error)
	// Update replaces the scalar and list fields of r. A nil Menu keeps the stored menu.
	Update(ctx context.Context, r *model.Restaurant) (*model.Restaurant, error)
	// Delete removes the restaurant with its menu and reviews.
	Delete(ctx context.Context, id string) error
}

// Menus persists the section/item tree of one restaurant.
type Menus interface {
	Get(ctx context.Context, restaurantID string) ([]model.MenuSection, error)
	CreateSection(ctx context.Context, restaurantID, name string) (*model.MenuSection, error)
	UpdateSection(ctx context.Context, restaurantID, sectionKey string, patch model.SectionPatch) error
	DeleteSection(ctx context.Context, restaurantID, sectionKey string) error
	CreateItem(ctx context.Context, restaurantID, sectionKey string, item model.MenuItem) (*model.MenuItem, error)
	UpdateItem(ctx context.Context, restaurantID, itemKey string, patch model.ItemPatch) error
	DeleteItem(ctx context.Context, restaurantID, itemKey string) error
}

type Reviews interface {
	List(ctx context.Context, restaurantID string) ([]model.Review, error)
	Create(ctx context.Context, restaurantID string, rv model.Review) (*model.Review, error)
	Delete(ctx context.Context, restaurantID, reviewKey string) error
}

type Collections interface {
	List(ctx context.Context) ([]*model.Collection, error)
	Get(ctx context.Context, slug string) (*model.Collection, error)
	// Put creates or replaces the collection with c.Slug.
	Put(ctx context.Context, c *model.Collection) (*model.Collection, error)
	Delete(ctx context.Context, slug string) error
}
