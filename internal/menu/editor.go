package menu

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dineguide/dineguide/internal/model"
)

// Mode tells whether an editor is backed by a persisted restaurant.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// Editor holds one editing session's menu tree. It is not safe for concurrent use.
type Editor struct {
	mode Mode
	repo Repository
	menu []model.MenuSection
}

// NewEditor returns an editor over an explicit repository.
func NewEditor(mode Mode, repo Repository, initial []model.MenuSection) *Editor {
	return &Editor{mode: mode, repo: repo, menu: Clone(initial)}
}

// Open picks the mode once for the session: without a restaurant id the menu
// lives only in memory, otherwise every change goes through api.
func Open(restaurantID string, initial []model.MenuSection, api API) *Editor {
	if restaurantID == "" || api == nil {
		return NewEditor(ModeLocal, NewInMemoryRepository(), initial)
	}
	return NewEditor(ModeRemote, NewRemoteRepository(api, restaurantID), initial)
}

// Mode returns the session mode.
func (e *Editor) Mode() Mode { return e.mode }

// Menu returns a copy of the current tree.
func (e *Editor) Menu() []model.MenuSection { return Clone(e.menu) }

// AddSection creates a section and returns its key.
func (e *Editor) AddSection(ctx context.Context, name string) (string, error) {
	before := e.menu
	if err := e.apply(func() ([]model.MenuSection, error) {
		return e.repo.CreateSection(ctx, e.menu, name)
	}); err != nil {
		return "", err
	}
	return addedSectionKey(before, e.menu), nil
}

// UpdateSection merges patch into a section.
func (e *Editor) UpdateSection(ctx context.Context, sectionKey string, patch model.SectionPatch) error {
	return e.apply(func() ([]model.MenuSection, error) {
		return e.repo.UpdateSection(ctx, e.menu, sectionKey, patch)
	})
}

// RenameSection is UpdateSection with only the name set.
func (e *Editor) RenameSection(ctx context.Context, sectionKey, name string) error {
	return e.UpdateSection(ctx, sectionKey, model.SectionPatch{Name: &name})
}

// DeleteSection removes a section and its items.
func (e *Editor) DeleteSection(ctx context.Context, sectionKey string) error {
	return e.apply(func() ([]model.MenuSection, error) {
		return e.repo.DeleteSection(ctx, e.menu, sectionKey)
	})
}

// AddItem appends an item to a section and returns the new item's key.
func (e *Editor) AddItem(ctx context.Context, sectionKey string, item model.MenuItem) (string, error) {
	before := e.menu
	if err := e.apply(func() ([]model.MenuSection, error) {
		return e.repo.CreateItem(ctx, e.menu, sectionKey, item)
	}); err != nil {
		return "", err
	}
	return addedItemKey(before, e.menu, sectionKey), nil
}

// UpdateItem merges patch into an item.
func (e *Editor) UpdateItem(ctx context.Context, itemKey string, patch model.ItemPatch) error {
	return e.apply(func() ([]model.MenuSection, error) {
		return e.repo.UpdateItem(ctx, e.menu, itemKey, patch)
	})
}

// DeleteItem removes an item.
func (e *Editor) DeleteItem(ctx context.Context, itemKey string) error {
	return e.apply(func() ([]model.MenuSection, error) {
		return e.repo.DeleteItem(ctx, e.menu, itemKey)
	})
}

// Validate checks the current tree with the submit-time rules.
func (e *Editor) Validate() error { return Validate(e.menu) }

func (e *Editor) apply(op func() ([]model.MenuSection, error)) error {
	next, err := op()
	if err != nil {
		log.Warn().Err(err).Str("mode", string(e.mode)).Msg("menu change failed")
		return err
	}
	e.menu = next
	return nil
}
