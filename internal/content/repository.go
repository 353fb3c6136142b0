// Package content is the read side of the catalog: the records the public site
// lists, filters and shows.
package content

import (
	"context"

	"github.com/dineguide/dineguide/internal/catalog"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/store"
)

// Repository returns restaurant and collection documents. Unknown ids and
// slugs are reported as model.NotFoundError.
type Repository interface {
	FetchAll(ctx context.Context) ([]*model.Restaurant, error)
	FetchByID(ctx context.Context, id string) (*model.Restaurant, error)
	Collections(ctx context.Context) ([]*model.Collection, error)
	CollectionBySlug(ctx context.Context, slug string) (*model.Collection, error)
}

// Invalidator drops cached documents after a write.
type Invalidator interface {
	InvalidateRestaurant(ctx context.Context, id string) error
	InvalidateCollection(ctx context.Context, slug string) error
}

// StoreRepository reads documents straight from the store.
type StoreRepository struct {
	store store.Store
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{store: s}
}

// FetchAll returns every restaurant with compound tags split into atomic ones.
func (r *StoreRepository) FetchAll(ctx context.Context) ([]*model.Restaurant, error) {
	recs, err := r.store.Restaurants().List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		normalise(rec)
	}
	return recs, nil
}

func (r *StoreRepository) FetchByID(ctx context.Context, id string) (*model.Restaurant, error) {
	rec, err := r.store.Restaurants().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	normalise(rec)
	return rec, nil
}

func (r *StoreRepository) Collections(ctx context.Context) ([]*model.Collection, error) {
	return r.store.Collections().List(ctx)
}

func (r *StoreRepository) CollectionBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	return r.store.Collections().Get(ctx, slug)
}

func normalise(rec *model.Restaurant) {
	rec.Tags = catalog.SplitTags(rec.Tags)
}

// NopInvalidator is used when no cache is configured.
type NopInvalidator struct{}

func (NopInvalidator) InvalidateRestaurant(context.Context, string) error { return nil }
func (NopInvalidator) InvalidateCollection(context.Context, string) error { return nil }
