package menu

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dineguide/dineguide/internal/model"
)

// Repository applies menu mutations. Each call receives the current tree and
// returns the tree that should replace it; on error the caller keeps its tree.
type Repository interface {
	CreateSection(ctx context.Context, menu []model.MenuSection, name string) ([]model.MenuSection, error)
	UpdateSection(ctx context.Context, menu []model.MenuSection, sectionKey string, patch model.SectionPatch) ([]model.MenuSection, error)
	DeleteSection(ctx context.Context, menu []model.MenuSection, sectionKey string) ([]model.MenuSection, error)
	CreateItem(ctx context.Context, menu []model.MenuSection, sectionKey string, item model.MenuItem) ([]model.MenuSection, error)
	UpdateItem(ctx context.Context, menu []model.MenuSection, itemKey string, patch model.ItemPatch) ([]model.MenuSection, error)
	DeleteItem(ctx context.Context, menu []model.MenuSection, itemKey string) ([]model.MenuSection, error)
}

// InMemoryRepository edits a menu that has no persisted restaurant behind it.
// Keys are generated locally and unknown keys are ignored.
type InMemoryRepository struct {
	newKey  func() string
	latency time.Duration
}

// InMemoryOption configures an InMemoryRepository.
type InMemoryOption func(*InMemoryRepository)

// WithLatency delays item creation to mimic a network round trip. It has no effect on the result.
func WithLatency(d time.Duration) InMemoryOption {
	return func(r *InMemoryRepository) { r.latency = d }
}

// WithKeyGenerator replaces the uuid key generator.
func WithKeyGenerator(f func() string) InMemoryOption {
	return func(r *InMemoryRepository) { r.newKey = f }
}

// NewInMemoryRepository returns a local-mode repository.
func NewInMemoryRepository(opts ...InMemoryOption) *InMemoryRepository {
	r := &InMemoryRepository{newKey: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *InMemoryRepository) CreateSection(_ context.Context, menu []model.MenuSection, name string) ([]model.MenuSection, error) {
	return AppendSection(menu, r.newKey(), name), nil
}

func (r *InMemoryRepository) UpdateSection(_ context.Context, menu []model.MenuSection, sectionKey string, patch model.SectionPatch) ([]model.MenuSection, error) {
	return PatchSection(menu, sectionKey, patch), nil
}

func (r *InMemoryRepository) DeleteSection(_ context.Context, menu []model.MenuSection, sectionKey string) ([]model.MenuSection, error) {
	return RemoveSection(menu, sectionKey), nil
}

func (r *InMemoryRepository) CreateItem(ctx context.Context, menu []model.MenuSection, sectionKey string, item model.MenuItem) ([]model.MenuSection, error) {
	if r.latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.latency):
		}
	}
	item.Key = r.newKey()
	return AppendItem(menu, sectionKey, item), nil
}

func (r *InMemoryRepository) UpdateItem(_ context.Context, menu []model.MenuSection, itemKey string, patch model.ItemPatch) ([]model.MenuSection, error) {
	return PatchItem(menu, itemKey, patch), nil
}

func (r *InMemoryRepository) DeleteItem(_ context.Context, menu []model.MenuSection, itemKey string) ([]model.MenuSection, error) {
	return RemoveItem(menu, itemKey), nil
}
