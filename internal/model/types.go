package model

import "time"

// ImageRef points at a stored image asset. URL is filled in for read models.
type ImageRef struct {
	AssetID string `json:"assetId"`
	URL     string `json:"url,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

// Upload is an image held in memory before it has been stored.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DayHours describes opening times for one weekday. From/To are "HH:MM".
type DayHours struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Closed bool   `json:"closed"`
}

// Restaurant is the canonical read model of one restaurant.
type Restaurant struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Neighbourhood  string              `json:"neighbourhood,omitempty"`
	StreetAddress  string              `json:"streetAddress,omitempty"`
	Cuisine        string              `json:"cuisine,omitempty"`
	PriceRange     string              `json:"priceRange,omitempty"`
	Summary        string              `json:"summary,omitempty"`
	Description    string              `json:"description,omitempty"`
	Phone          string              `json:"phone,omitempty"`
	Website        string              `json:"website,omitempty"`
	Tags           []string            `json:"tags,omitempty"`
	Amenities      []string            `json:"amenities,omitempty"`
	Accessibility  []string            `json:"accessibility,omitempty"`
	PaymentMethods []string            `json:"paymentMethods,omitempty"`
	ServiceOptions []string            `json:"serviceOptions,omitempty"`
	MainImage      *ImageRef           `json:"mainImage,omitempty"`
	GalleryImages  []ImageRef          `json:"galleryImages,omitempty"`
	OpeningHours   map[string]DayHours `json:"openingHours,omitempty"`
	Menu           []MenuSection       `json:"menu,omitempty"`
	Reviews        []Review            `json:"reviews,omitempty"`
	CreationTime   time.Time           `json:"creationTime"`
	UpdateTime     time.Time           `json:"updateTime"`
}

// MenuSection groups menu items under a heading.
type MenuSection struct {
	Key   string     `json:"key"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// MenuItem is a single dish or drink.
type MenuItem struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Image       *ImageRef `json:"image,omitempty"`

	// PendingImage holds a local file until the item is submitted.
	PendingImage *Upload `json:"-"`
}

// Review is a visitor rating of a restaurant.
type Review struct {
	Key     string    `json:"key"`
	Author  string    `json:"author"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment,omitempty"`
	Date    time.Time `json:"date"`
}

// Collection is a curated, ordered group of restaurants.
type Collection struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	RestaurantIDs []string  `json:"restaurantIds"`
	UpdateTime    time.Time `json:"updateTime"`
}

// ItemPatch carries the fields of a menu item edit. Nil fields are left untouched.
type ItemPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Image       *ImageRef `json:"image,omitempty"`
}

// SectionPatch carries the fields of a menu section edit.
type SectionPatch struct {
	Name *string `json:"name,omitempty"`
}
