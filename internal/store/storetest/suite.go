// Package storetest is a compliance suite shared by every store.Store driver.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/store"
)

// Run exercises the compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("restaurants", func(t *testing.T) { testRestaurants(t, makeStore(t)) })
	t.Run("menus", func(t *testing.T) { testMenus(t, makeStore(t)) })
	t.Run("reviews", func(t *testing.T) { testReviews(t, makeStore(t)) })
	t.Run("collections", func(t *testing.T) { testCollections(t, makeStore(t)) })
}

func sampleRestaurant(name string) *model.Restaurant {
	return &model.Restaurant{
		Name:          name,
		Neighbourhood: "Old Town",
		Cuisine:       "italian",
		PriceRange:    "$$",
		Tags:          []string{"pasta; wine", "terrace"},
		MainImage:     &model.ImageRef{AssetID: "restaurants/main.jpg", Alt: name},
		GalleryImages: []model.ImageRef{{AssetID: "g1.jpg"}, {AssetID: "g2.jpg"}},
		OpeningHours: map[string]model.DayHours{
			"monday": {Closed: true},
			"friday": {From: "12:00", To: "23:00"},
		},
		Menu: []model.MenuSection{
			{Name: "Starters", Items: []model.MenuItem{{Name: "Bruschetta", Price: 6.5}}},
			{Name: "Mains", Items: []model.MenuItem{
				{Name: "Carbonara", Description: "guanciale", Price: 14},
				{Name: "Water", Price: 0},
			}},
		},
	}
}

func testRestaurants(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Restaurants().Create(ctx, sampleRestaurant("Cafe Roma"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreationTime.IsZero())
	assert.Equal(t, []string{"pasta; wine", "terrace"}, created.Tags)
	assert.Equal(t, "restaurants/main.jpg", created.MainImage.AssetID)
	assert.Len(t, created.GalleryImages, 2)
	assert.True(t, created.OpeningHours["monday"].Closed)
	require.Len(t, created.Menu, 2)
	assert.Equal(t, "Starters", created.Menu[0].Name)
	assert.NotEmpty(t, created.Menu[0].Key)
	require.Len(t, created.Menu[1].Items, 2)
	assert.Equal(t, "Carbonara", created.Menu[1].Items[0].Name)
	assert.Equal(t, 0.0, created.Menu[1].Items[1].Price)
	assert.Empty(t, created.Reviews)

	explicit := sampleRestaurant("Sushi Go")
	explicit.ID = "sushi-go-" + uuid.New().String()
	_, err = s.Restaurants().Create(ctx, explicit)
	require.NoError(t, err)
	_, err = s.Restaurants().Create(ctx, explicit)
	assert.True(t, model.IsConflictError(err), "duplicate id: %v", err)

	list, err := s.Restaurants().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cafe Roma", list[0].Name)
	assert.Equal(t, "Sushi Go", list[1].Name)
	assert.Empty(t, list[0].Menu)

	// nil menu keeps the stored tree
	upd := *created
	upd.Name = "Caffe Roma"
	upd.Tags = []string{"espresso"}
	upd.Menu = nil
	got, err := s.Restaurants().Update(ctx, &upd)
	require.NoError(t, err)
	assert.Equal(t, "Caffe Roma", got.Name)
	assert.Equal(t, []string{"espresso"}, got.Tags)
	assert.Len(t, got.Menu, 2)
	assert.False(t, got.UpdateTime.Before(created.UpdateTime))

	upd.Menu = []model.MenuSection{{Name: "Coffee", Items: []model.MenuItem{{Name: "Espresso", Price: 2}}}}
	got, err = s.Restaurants().Update(ctx, &upd)
	require.NoError(t, err)
	require.Len(t, got.Menu, 1)
	assert.Equal(t, "Coffee", got.Menu[0].Name)

	missing := *created
	missing.ID = "does-not-exist"
	_, err = s.Restaurants().Update(ctx, &missing)
	assert.True(t, model.IsNotFoundError(err))

	require.NoError(t, s.Restaurants().Delete(ctx, created.ID))
	_, err = s.Restaurants().Get(ctx, created.ID)
	assert.True(t, model.IsNotFoundError(err))
	assert.True(t, model.IsNotFoundError(s.Restaurants().Delete(ctx, created.ID)))
}

func testMenus(t *testing.T, s store.Store) {
	ctx := context.Background()
	r, err := s.Restaurants().Create(ctx, &model.Restaurant{Name: "Menu Test"})
	require.NoError(t, err)

	menu, err := s.Menus().Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, menu)

	mains, err := s.Menus().CreateSection(ctx, r.ID, "Mains")
	require.NoError(t, err)
	drinks, err := s.Menus().CreateSection(ctx, r.ID, "Drinks")
	require.NoError(t, err)

	soup, err := s.Menus().CreateItem(ctx, r.ID, mains.Key, model.MenuItem{Name: "Soup", Price: 5})
	require.NoError(t, err)
	stew, err := s.Menus().CreateItem(ctx, r.ID, mains.Key, model.MenuItem{Name: "Stew", Price: 11, Image: &model.ImageRef{AssetID: "stew.jpg"}})
	require.NoError(t, err)
	_, err = s.Menus().CreateItem(ctx, r.ID, "missing-section", model.MenuItem{Name: "x"})
	assert.True(t, model.IsNotFoundError(err))

	name := "Main Courses"
	require.NoError(t, s.Menus().UpdateSection(ctx, r.ID, mains.Key, model.SectionPatch{Name: &name}))
	price := 6.0
	require.NoError(t, s.Menus().UpdateItem(ctx, r.ID, soup.Key, model.ItemPatch{Price: &price}))
	assert.True(t, model.IsNotFoundError(s.Menus().UpdateItem(ctx, r.ID, "missing", model.ItemPatch{Price: &price})))

	menu, err = s.Menus().Get(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, mains.Key, menu[0].Key)
	assert.Equal(t, "Main Courses", menu[0].Name)
	assert.Equal(t, drinks.Key, menu[1].Key)
	require.Len(t, menu[0].Items, 2)
	assert.Equal(t, soup.Key, menu[0].Items[0].Key)
	assert.Equal(t, 6.0, menu[0].Items[0].Price)
	assert.Equal(t, "Soup", menu[0].Items[0].Name)
	assert.Equal(t, "stew.jpg", menu[0].Items[1].Image.AssetID)

	require.NoError(t, s.Menus().DeleteItem(ctx, r.ID, stew.Key))
	assert.True(t, model.IsNotFoundError(s.Menus().DeleteItem(ctx, r.ID, stew.Key)))
	require.NoError(t, s.Menus().DeleteSection(ctx, r.ID, mains.Key))
	assert.True(t, model.IsNotFoundError(s.Menus().DeleteSection(ctx, r.ID, mains.Key)))

	menu, err = s.Menus().Get(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Drinks", menu[0].Name)

	_, err = s.Menus().Get(ctx, "missing-restaurant")
	assert.True(t, model.IsNotFoundError(err))
	_, err = s.Menus().CreateSection(ctx, "missing-restaurant", "x")
	assert.True(t, model.IsNotFoundError(err))
}

func testReviews(t *testing.T, s store.Store) {
	ctx := context.Background()
	r, err := s.Restaurants().Create(ctx, &model.Restaurant{Name: "Review Test"})
	require.NoError(t, err)

	older := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := s.Reviews().Create(ctx, r.ID, model.Review{Author: "ana", Rating: 4, Comment: "good", Date: older})
	require.NoError(t, err)
	second, err := s.Reviews().Create(ctx, r.ID, model.Review{Author: "bo", Rating: 5})
	require.NoError(t, err)
	assert.False(t, second.Date.IsZero())

	list, err := s.Reviews().List(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.Key, list[0].Key, "newest first")
	assert.True(t, older.Equal(list[1].Date))

	full, err := s.Restaurants().Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, full.Reviews, 2)

	require.NoError(t, s.Reviews().Delete(ctx, r.ID, first.Key))
	assert.True(t, model.IsNotFoundError(s.Reviews().Delete(ctx, r.ID, first.Key)))

	_, err = s.Reviews().Create(ctx, "missing-restaurant", model.Review{Author: "x", Rating: 1})
	assert.True(t, model.IsNotFoundError(err))

	// deleting the restaurant removes its reviews
	require.NoError(t, s.Restaurants().Delete(ctx, r.ID))
	_, err = s.Reviews().List(ctx, r.ID)
	assert.True(t, model.IsNotFoundError(err))
}

func testCollections(t *testing.T, s store.Store) {
	ctx := context.Background()

	c, err := s.Collections().Put(ctx, &model.Collection{Slug: "date-night", Title: "Date night", RestaurantIDs: []string{"b", "a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, c.RestaurantIDs)

	c, err = s.Collections().Put(ctx, &model.Collection{Slug: "date-night", Title: "Date Night", Description: "candles"})
	require.NoError(t, err)
	assert.Equal(t, "Date Night", c.Title)
	assert.Empty(t, c.RestaurantIDs)

	_, err = s.Collections().Put(ctx, &model.Collection{Slug: "brunch", Title: "Brunch", RestaurantIDs: []string{"x"}})
	require.NoError(t, err)

	list, err := s.Collections().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "brunch", list[0].Slug)

	require.NoError(t, s.Collections().Delete(ctx, "brunch"))
	_, err = s.Collections().Get(ctx, "brunch")
	assert.True(t, model.IsNotFoundError(err))
	assert.True(t, model.IsNotFoundError(s.Collections().Delete(ctx, "brunch")))
}
