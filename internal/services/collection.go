package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/dineguide/dineguide/internal/events"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/store"
)

var slugRx = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase, hyphen-separated slug.
func ValidSlug(s string) bool { return len(s) <= 80 && slugRx.MatchString(s) }

type CollectionService struct {
	store store.Store
	deps  Deps
}

func NewCollectionService(s store.Store, deps Deps) *CollectionService {
	return &CollectionService{store: s, deps: deps.withDefaults()}
}

func (s *CollectionService) Put(ctx context.Context, c model.Collection) (*model.Collection, error) {
	if !ValidSlug(c.Slug) {
		return nil, model.NewValidationError("slug", "slug must be lowercase letters, digits and hyphens")
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return nil, model.NewValidationError("title", "title is required")
	}
	out, err := s.store.Collections().Put(ctx, &c)
	if err != nil {
		return nil, err
	}
	s.deps.changed(ctx, events.Event{Kind: events.CollectionPut, Slug: out.Slug})
	return out, nil
}

func (s *CollectionService) Delete(ctx context.Context, slug string) error {
	if err := s.store.Collections().Delete(ctx, slug); err != nil {
		return err
	}
	s.deps.changed(ctx, events.Event{Kind: events.CollectionDeleted, Slug: slug})
	return nil
}
