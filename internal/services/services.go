// Package services holds the catalog use cases shared by the HTTP handlers.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dineguide/dineguide/internal/content"
	"github.com/dineguide/dineguide/internal/events"
	"github.com/dineguide/dineguide/internal/media"
	"github.com/dineguide/dineguide/internal/model"
)

// Deps are the collaborators shared by every write service.
type Deps struct {
	Media     media.Store
	Events    events.Publisher
	Cache     content.Invalidator
	Clock     func() time.Time
	// MediaURLs, when set, fills image URLs on the records returned by writes.
	MediaURLs *media.URLBuilder
}

func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Cache == nil {
		d.Cache = content.NopInvalidator{}
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	return d
}

func (d Deps) resolve(r *model.Restaurant) {
	if d.MediaURLs != nil {
		d.MediaURLs.Resolve(r, 0, 0)
	}
}

func (d Deps) resolveImage(img *model.ImageRef) {
	if d.MediaURLs != nil && img != nil {
		img.URL = d.MediaURLs.URL(img.AssetID, 0, 0)
	}
}

// changed drops cached documents and publishes evt. Both are best effort:
// the write has already been committed.
func (d Deps) changed(ctx context.Context, evt events.Event) {
	if evt.RestaurantID != "" {
		if err := d.Cache.InvalidateRestaurant(ctx, evt.RestaurantID); err != nil {
			log.Warn().Err(err).Str("restaurant_id", evt.RestaurantID).Msg("cache invalidation failed")
		}
	}
	if evt.Slug != "" {
		if err := d.Cache.InvalidateCollection(ctx, evt.Slug); err != nil {
			log.Warn().Err(err).Str("slug", evt.Slug).Msg("cache invalidation failed")
		}
	}
	evt.Time = d.Clock()
	if err := d.Events.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("kind", string(evt.Kind)).Msg("event publish failed")
	}
}
