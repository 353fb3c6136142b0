package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dineguide/dineguide/internal/events"
	"github.com/dineguide/dineguide/internal/menu"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/store"
)

// RestaurantInput is a full-form submission: the record plus any new image files.
// Menu items may carry a PendingImage that is uploaded before saving.
type RestaurantInput struct {
	Restaurant    model.Restaurant
	MainImage     *model.Upload
	GalleryImages []model.Upload
}

type RestaurantService struct {
	store store.Store
	deps  Deps
}

func NewRestaurantService(s store.Store, deps Deps) *RestaurantService {
	return &RestaurantService{store: s, deps: deps.withDefaults()}
}

func (s *RestaurantService) List(ctx context.Context) ([]*model.Restaurant, error) {
	return s.store.Restaurants().List(ctx)
}

func (s *RestaurantService) Get(ctx context.Context, id string) (*model.Restaurant, error) {
	return s.store.Restaurants().Get(ctx, id)
}

// Create validates the form, stores uploads and persists the record.
func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (*model.Restaurant, error) {
	rec := in.Restaurant
	if err := validateRestaurant(&rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.Menu = rekey(rec.Menu)
	if err := s.storeUploads(ctx, &rec, in); err != nil {
		return nil, err
	}
	out, err := s.store.Restaurants().Create(ctx, &rec)
	if err != nil {
		return nil, err
	}
	log.Info().Str("restaurant_id", out.ID).Str("name", out.Name).Msg("restaurant created")
	s.deps.changed(ctx, events.Event{Kind: events.RestaurantCreated, RestaurantID: out.ID})
	s.deps.resolve(out)
	return out, nil
}

// Update replaces the record. A nil menu keeps the stored one; new gallery
// uploads are appended to the submitted gallery. Menu keys the restaurant
// does not already own are replaced by the store.
func (s *RestaurantService) Update(ctx context.Context, id string, in RestaurantInput) (*model.Restaurant, error) {
	rec := in.Restaurant
	rec.ID = id
	if err := validateRestaurant(&rec); err != nil {
		return nil, err
	}
	if err := s.storeUploads(ctx, &rec, in); err != nil {
		return nil, err
	}
	out, err := s.store.Restaurants().Update(ctx, &rec)
	if err != nil {
		return nil, err
	}
	s.deps.changed(ctx, events.Event{Kind: events.RestaurantUpdated, RestaurantID: out.ID})
	s.deps.resolve(out)
	return out, nil
}

func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	if err := s.store.Restaurants().Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("restaurant_id", id).Msg("restaurant deleted")
	s.deps.changed(ctx, events.Event{Kind: events.RestaurantDeleted, RestaurantID: id})
	return nil
}

func validateRestaurant(r *model.Restaurant) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return model.NewValidationError("name", "name is required")
	}
	if r.Menu != nil {
		if err := menu.Validate(r.Menu); err != nil {
			return err
		}
	}
	return nil
}

func (s *RestaurantService) storeUploads(ctx context.Context, rec *model.Restaurant, in RestaurantInput) error {
	if in.MainImage == nil && len(in.GalleryImages) == 0 && !hasPendingImages(rec.Menu) {
		return nil
	}
	if s.deps.Media == nil {
		return model.NewValidationError("image", "image uploads are not configured")
	}
	prefix := "restaurants/" + rec.ID
	if in.MainImage != nil {
		ref, err := s.deps.Media.Put(ctx, prefix, *in.MainImage)
		if err != nil {
			return err
		}
		ref.Alt = rec.Name
		rec.MainImage = &ref
	}
	gallery := append([]model.ImageRef{}, rec.GalleryImages...)
	for _, u := range in.GalleryImages {
		ref, err := s.deps.Media.Put(ctx, prefix+"/gallery", u)
		if err != nil {
			return err
		}
		gallery = append(gallery, ref)
	}
	rec.GalleryImages = gallery

	if rec.Menu == nil {
		return nil
	}
	rec.Menu = menu.Clone(rec.Menu)
	for i := range rec.Menu {
		for j := range rec.Menu[i].Items {
			it := &rec.Menu[i].Items[j]
			if it.PendingImage == nil {
				continue
			}
			ref, err := s.deps.Media.Put(ctx, prefix+"/menu", *it.PendingImage)
			if err != nil {
				return err
			}
			ref.Alt = it.Name
			it.Image, it.PendingImage = &ref, nil
		}
	}
	return nil
}

// rekey replaces client-side keys with server keys, which are unique across restaurants.
func rekey(m []model.MenuSection) []model.MenuSection {
	out := menu.Clone(m)
	for i := range out {
		out[i].Key = uuid.NewString()
		for j := range out[i].Items {
			out[i].Items[j].Key = uuid.NewString()
		}
	}
	return out
}

func hasPendingImages(m []model.MenuSection) bool {
	for _, s := range m {
		for _, it := range s.Items {
			if it.PendingImage != nil {
				return true
			}
		}
	}
	return false
}
