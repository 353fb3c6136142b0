package services

import (
	"context"

	"github.com/dineguide/dineguide/internal/events"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/store"
)

// MenuService backs the menu sub-resource used by remote-mode editors.
type MenuService struct {
	store store.Store
	deps  Deps
}

func NewMenuService(s store.Store, deps Deps) *MenuService {
	return &MenuService{store: s, deps: deps.withDefaults()}
}

func (s *MenuService) Get(ctx context.Context, restaurantID string) ([]model.MenuSection, error) {
	return s.store.Menus().Get(ctx, restaurantID)
}

func (s *MenuService) CreateSection(ctx context.Context, restaurantID, name string) (*model.MenuSection, error) {
	sec, err := s.store.Menus().CreateSection(ctx, restaurantID, name)
	if err != nil {
		return nil, err
	}
	s.deps.changed(ctx, events.Event{Kind: events.MenuChanged, RestaurantID: restaurantID, Key: sec.Key})
	return sec, nil
}

func (s *MenuService) UpdateSection(ctx context.Context, restaurantID, sectionKey string, patch model.SectionPatch) error {
	if err := s.store.Menus().UpdateSection(ctx, restaurantID, sectionKey, patch); err != nil {
		return err
	}
	s.deps.changed(ctx, events.Event{Kind: events.MenuChanged, RestaurantID: restaurantID, Key: sectionKey})
	return nil
}

func (s *MenuService) DeleteSection(ctx context.Context, restaurantID, sectionKey string) error {
	if err := s.store.Menus().DeleteSection(ctx, restaurantID, sectionKey); err != nil {
		return err
	}
	s.deps.changed(ctx, events.Event{Kind: events.MenuChanged, RestaurantID: restaurantID, Key: sectionKey})
	return nil
}

// CreateItem stores an optional image upload first and then the item.
func (s *MenuService) CreateItem(ctx context.Context, restaurantID, sectionKey string, item model.MenuItem, image *model.Upload) (*model.MenuItem, error) {
	if image != nil {
		ref, err := s.upload(ctx, restaurantID, item.Name, *image)
		if err != nil {
			return nil, err
		}
		item.Image = ref
	}
	created, err := s.store.Menus().CreateItem(ctx, restaurantID, sectionKey, item)
	if err != nil {
		return nil, err
	}
	s.deps.changed(ctx, events.Event{Kind: events.MenuChanged, RestaurantID: restaurantID, Key: created.Key})
	s.deps.resolveImage(created.Image)
	return created, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, restaurantID, itemKey string, patch model.ItemPatch, image *model.Upload) error {
	if image != nil {
		name := ""
		if patch.Name != nil {
			name = *patch.Name
		}
		ref, err := s.upload(ctx, restaurantID, name, *image)
		if err != nil {
			return err
		}
		patch.Image = ref
	}
	if err := s.store.Menus().UpdateItem(ctx, restaurantID, itemKey, patch); err != nil {
		return err
	}
	s.deps.changed(ctx, events.Event{Kind: events.MenuChanged, RestaurantID: restaurantID, Key: itemKey})
	return nil
}

func (s *MenuService) DeleteItem(ctx context.Context, restaurantID, itemKey string) error {
	if err := s.store.Menus().DeleteItem(ctx, restaurantID, itemKey); err != nil {
		return err
	}
	s.deps.changed(ctx, events.Event{Kind: events.MenuChanged, RestaurantID: restaurantID, Key: itemKey})
	return nil
}

func (s *MenuService) upload(ctx context.Context, restaurantID, alt string, u model.Upload) (*model.ImageRef, error) {
	if s.deps.Media == nil {
		return nil, model.NewValidationError("image", "image uploads are not configured")
	}
	ref, err := s.deps.Media.Put(ctx, "restaurants/"+restaurantID+"/menu", u)
	if err != nil {
		return nil, err
	}
	ref.Alt = alt
	return &ref, nil
}
