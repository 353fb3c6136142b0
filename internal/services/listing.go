package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dineguide/dineguide/internal/catalog"
	"github.com/dineguide/dineguide/internal/content"
	"github.com/dineguide/dineguide/internal/listing"
	"github.com/dineguide/dineguide/internal/media"
	"github.com/dineguide/dineguide/internal/model"
)

// ListingPage is one page of the public listing.
type ListingPage struct {
	Restaurants []*model.Restaurant `json:"restaurants"`
	Criteria    catalog.Criteria    `json:"criteria"`
	Page        int                 `json:"page"`
	TotalPages  int                 `json:"totalPages"`
	TotalCount  int                 `json:"totalCount"`
	PageSize    int                 `json:"pageSize"`
	Pages       []listing.PageLink  `json:"pages"`
}

// RestaurantDetail is the public detail view.
type RestaurantDetail struct {
	*model.Restaurant
	PriceCategory      catalog.PriceCategory `json:"priceCategory"`
	PriceCategoryLabel string                `json:"priceCategoryLabel"`
	AverageRating      float64               `json:"averageRating"`
	ReviewCount        int                   `json:"reviewCount"`
}

// CollectionDetail is a collection with its restaurants resolved in order.
type CollectionDetail struct {
	*model.Collection
	Restaurants []*model.Restaurant `json:"restaurants"`
}

// ListingService serves the read side of the public site.
type ListingService struct {
	repo     content.Repository
	urls     media.URLBuilder
	pageSize int
}

func NewListingService(repo content.Repository, urls media.URLBuilder, pageSize int) *ListingService {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &ListingService{repo: repo, urls: urls, pageSize: pageSize}
}

func (s *ListingService) PageSize() int { return s.pageSize }

// Page filters all records and returns the requested page. An out-of-range
// page leaves the controller on page 1.
func (s *ListingService) Page(ctx context.Context, criteria catalog.Criteria, page int) (*ListingPage, error) {
	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	c := listing.New(records, s.pageSize)
	c.SetCriteria(criteria)
	c.SetPage(page)

	items := c.Page()
	for _, r := range items {
		s.urls.Resolve(r, 0, 0)
	}
	return &ListingPage{
		Restaurants: items,
		Criteria:    c.Criteria(),
		Page:        c.CurrentPage(),
		TotalPages:  c.TotalPages(),
		TotalCount:  c.TotalCount(),
		PageSize:    c.PageSize(),
		Pages:       c.PageNumbers(),
	}, nil
}

func (s *ListingService) FilterOptions(ctx context.Context) (catalog.FilterOptions, error) {
	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		return catalog.FilterOptions{}, err
	}
	return catalog.BuildFilterOptions(records), nil
}

// Detail returns one restaurant with derived fields and image URLs sized w x h.
func (s *ListingService) Detail(ctx context.Context, id string, w, h int) (*RestaurantDetail, error) {
	r, err := s.repo.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.urls.Resolve(r, w, h)
	cat := catalog.ClassifyPriceRange(r.PriceRange)
	return &RestaurantDetail{
		Restaurant:         r,
		PriceCategory:      cat,
		PriceCategoryLabel: cat.Label(),
		AverageRating:      AverageRating(r.Reviews),
		ReviewCount:        len(r.Reviews),
	}, nil
}

func (s *ListingService) Collections(ctx context.Context) ([]*model.Collection, error) {
	return s.repo.Collections(ctx)
}

// Collection resolves member restaurants in order, skipping ids that no longer exist.
func (s *ListingService) Collection(ctx context.Context, slug string) (*CollectionDetail, error) {
	col, err := s.repo.CollectionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	out := &CollectionDetail{Collection: col, Restaurants: []*model.Restaurant{}}
	for _, id := range col.RestaurantIDs {
		r, err := s.repo.FetchByID(ctx, id)
		if model.IsNotFoundError(err) {
			log.Debug().Str("slug", slug).Str("restaurant_id", id).Msg("skipping missing collection member")
			continue
		}
		if err != nil {
			return nil, err
		}
		s.urls.Resolve(r, 0, 0)
		r.Menu, r.Reviews = nil, nil
		out.Restaurants = append(out.Restaurants, r)
	}
	return out, nil
}
