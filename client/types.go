package client

import (
	"time"

	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/services"
)

// Read models shared with the service.
type (
	ListingPage      = services.ListingPage
	RestaurantDetail = services.RestaurantDetail
	CollectionDetail = services.CollectionDetail
)

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status     string          `json:"status"`
	Components map[string]bool `json:"components"`
	Timestamp  string          `json:"timestamp"`
}

// Healthy reports whether every component passed its last probe.
func (h HealthStatus) Healthy() bool { return h.Status == "healthy" }

// RestaurantForm is a full restaurant submit. Menu items carrying a
// PendingImage are uploaded alongside the record.
type RestaurantForm struct {
	Restaurant    model.Restaurant
	MainImage     *model.Upload
	GalleryImages []model.Upload
}

func (f RestaurantForm) hasUploads() bool {
	if f.MainImage != nil || len(f.GalleryImages) > 0 {
		return true
	}
	for _, s := range f.Restaurant.Menu {
		for _, it := range s.Items {
			if it.PendingImage != nil {
				return true
			}
		}
	}
	return false
}

// ReviewInput is a new review. A zero Date lets the server stamp it.
type ReviewInput struct {
	Author  string    `json:"author"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment,omitempty"`
	Date    time.Time `json:"-"`
}

type reviewBody struct {
	ReviewInput
	Date *time.Time `json:"date,omitempty"`
}

// restaurantBody is the wire form of a restaurant write. An empty menu is
// sent as [] and clears the stored menu; a nil menu is omitted and keeps it.
type restaurantBody struct {
	model.Restaurant
	Menu *[]model.MenuSection `json:"menu,omitempty"`
}

func newRestaurantBody(r model.Restaurant) restaurantBody {
	b := restaurantBody{Restaurant: r}
	if r.Menu != nil {
		b.Menu = &r.Menu
	}
	return b
}

// CollectionInput is the body of a collection upsert.
type CollectionInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	RestaurantIDs []string `json:"restaurantIds"`
}
