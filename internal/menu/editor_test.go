package menu

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineguide/dineguide/internal/model"
)

func sequentialKeys() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("k%d", n)
	}
}

func TestOpenSelectsMode(t *testing.T) {
	assert.Equal(t, ModeLocal, Open("", nil, nil).Mode())
	assert.Equal(t, ModeLocal, Open("", nil, &fakeAPI{}).Mode())
	assert.Equal(t, ModeRemote, Open("r1", nil, &fakeAPI{}).Mode())
}

func TestLocalEditorLifecycle(t *testing.T) {
	ctx := context.Background()
	e := NewEditor(ModeLocal, NewInMemoryRepository(WithKeyGenerator(sequentialKeys())), nil)

	mains, err := e.AddSection(ctx, "Mains")
	require.NoError(t, err)
	assert.Equal(t, "k1", mains)
	assert.Error(t, e.Validate(), "a section without items is allowed while editing but not on submit")

	soup, err := e.AddItem(ctx, mains, model.MenuItem{Name: "Soup", Price: 5})
	require.NoError(t, err)
	assert.Equal(t, "k2", soup)
	require.NoError(t, e.Validate())

	require.NoError(t, e.RenameSection(ctx, mains, "Main Courses"))
	price := 6.5
	require.NoError(t, e.UpdateItem(ctx, soup, model.ItemPatch{Price: &price}))

	got := e.Menu()
	require.Len(t, got, 1)
	assert.Equal(t, "Main Courses", got[0].Name)
	assert.Equal(t, 6.5, got[0].Items[0].Price)

	require.NoError(t, e.DeleteItem(ctx, soup))
	assert.Empty(t, e.Menu()[0].Items)

	require.NoError(t, e.DeleteSection(ctx, mains))
	assert.Empty(t, e.Menu())
}

func TestLocalDeleteUnknownKey(t *testing.T) {
	repo := NewInMemoryRepository()
	before := sampleMenu()
	after, err := repo.DeleteItem(context.Background(), before, "missing")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	// a new slice is returned even when nothing changed
	assert.NotSame(t, &before[0], &after[0])

	after, err = repo.DeleteSection(context.Background(), before, "missing")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.NotSame(t, &before[0], &after[0])
}

func TestLocalAddItemToUnknownSection(t *testing.T) {
	e := NewEditor(ModeLocal, NewInMemoryRepository(), sampleMenu())
	key, err := e.AddItem(context.Background(), "missing", model.MenuItem{Name: "x", Price: 1})
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Equal(t, sampleMenu(), e.Menu())
}

func TestLocalLatencyHonoursContext(t *testing.T) {
	repo := NewInMemoryRepository(WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.CreateItem(ctx, sampleMenu(), "s1", model.MenuItem{Name: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEditorMenuIsACopy(t *testing.T) {
	e := NewEditor(ModeLocal, NewInMemoryRepository(), sampleMenu())
	m := e.Menu()
	m[0].Name = "changed"
	assert.Equal(t, "Starters", e.Menu()[0].Name)
}

type fakeAPI struct {
	menu    []model.MenuSection
	calls   []string
	fail    error
	fetches int
	nextKey int
}

func (f *fakeAPI) key() string {
	f.nextKey++
	return fmt.Sprintf("srv-%d", f.nextKey)
}

func (f *fakeAPI) GetMenu(_ context.Context, id string) ([]model.MenuSection, error) {
	f.fetches++
	return Clone(f.menu), nil
}

func (f *fakeAPI) CreateMenuSection(_ context.Context, id, name string) (*model.MenuSection, error) {
	f.calls = append(f.calls, "POST /restaurants/"+id+"/menu")
	if f.fail != nil {
		return nil, f.fail
	}
	s := model.MenuSection{Key: f.key(), Name: name, Items: []model.MenuItem{}}
	f.menu = append(f.menu, s)
	return &s, nil
}

func (f *fakeAPI) UpdateMenuSection(_ context.Context, id, key string, patch model.SectionPatch) error {
	f.calls = append(f.calls, "PUT /restaurants/"+id+"/menu/"+key)
	if f.fail != nil {
		return f.fail
	}
	f.menu = PatchSection(f.menu, key, patch)
	return nil
}

func (f *fakeAPI) DeleteMenuSection(_ context.Context, id, key string) error {
	f.calls = append(f.calls, "DELETE /restaurants/"+id+"/menu/"+key)
	if f.fail != nil {
		return f.fail
	}
	f.menu = RemoveSection(f.menu, key)
	return nil
}

func (f *fakeAPI) CreateMenuItem(_ context.Context, id, sectionKey string, item model.MenuItem) (*model.MenuItem, error) {
	f.calls = append(f.calls, "POST /restaurants/"+id+"/menu/"+sectionKey+"/item")
	if f.fail != nil {
		return nil, f.fail
	}
	item.Key = f.key()
	f.menu = AppendItem(f.menu, sectionKey, item)
	return &item, nil
}

func (f *fakeAPI) UpdateMenuItem(_ context.Context, id, key string, patch model.ItemPatch) error {
	f.calls = append(f.calls, "PUT /restaurants/"+id+"/menu/item/"+key)
	if f.fail != nil {
		return f.fail
	}
	f.menu = PatchItem(f.menu, key, patch)
	return nil
}

func (f *fakeAPI) DeleteMenuItem(_ context.Context, id, key string) error {
	f.calls = append(f.calls, "DELETE /restaurants/"+id+"/menu/item/"+key)
	if f.fail != nil {
		return f.fail
	}
	f.menu = RemoveItem(f.menu, key)
	return nil
}

func TestRemoteEditorRefetchesAfterEveryWrite(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	e := Open("r1", nil, api)

	sk, err := e.AddSection(ctx, "Mains")
	require.NoError(t, err)
	assert.Equal(t, "srv-1", sk)

	ik, err := e.AddItem(ctx, sk, model.MenuItem{Name: "Soup", Price: 5})
	require.NoError(t, err)
	assert.Equal(t, "srv-2", ik)

	require.NoError(t, e.RenameSection(ctx, sk, "Main Courses"))
	desc := "hot"
	require.NoError(t, e.UpdateItem(ctx, ik, model.ItemPatch{Description: &desc}))
	require.NoError(t, e.DeleteItem(ctx, ik))
	require.NoError(t, e.DeleteSection(ctx, sk))

	assert.Equal(t, []string{
		"POST /restaurants/r1/menu",
		"POST /restaurants/r1/menu/srv-1/item",
		"PUT /restaurants/r1/menu/srv-1",
		"PUT /restaurants/r1/menu/item/srv-2",
		"DELETE /restaurants/r1/menu/item/srv-2",
		"DELETE /restaurants/r1/menu/srv-1",
	}, api.calls)
	assert.Equal(t, 6, api.fetches)
	assert.Empty(t, e.Menu())
}

func TestRemoteEditorServerIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{menu: []model.MenuSection{{Key: "a", Name: "From server", Items: []model.MenuItem{{Key: "x", Name: "Tea", Price: 2}}}}}
	// the editor starts from a stale copy
	e := Open("r1", []model.MenuSection{{Key: "stale", Name: "Old"}}, api)

	_, err := e.AddSection(ctx, "Drinks")
	require.NoError(t, err)

	got := e.Menu()
	require.Len(t, got, 2)
	assert.Equal(t, "From server", got[0].Name)
	assert.Equal(t, "Drinks", got[1].Name)
}

func TestRemoteEditorFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	api := &fakeAPI{menu: sampleMenu(), fail: boom}
	e := Open("r1", sampleMenu(), api)

	_, err := e.AddSection(ctx, "Drinks")
	require.ErrorIs(t, err, boom)
	_, err = e.AddItem(ctx, "s1", model.MenuItem{Name: "x", Price: 1})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, e.RenameSection(ctx, "s1", "x"), boom)
	require.ErrorIs(t, e.DeleteSection(ctx, "s1"), boom)
	require.ErrorIs(t, e.DeleteItem(ctx, "i1"), boom)

	assert.Equal(t, sampleMenu(), e.Menu())
	assert.Zero(t, api.fetches)
}
