package media

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dineguide/dineguide/internal/model"
)

// URLBuilder resolves asset ids against a base URL and appends w/h transform parameters.
type URLBuilder struct {
	base string
}

func NewURLBuilder(base string) URLBuilder {
	return URLBuilder{base: strings.TrimRight(base, "/")}
}

// URL returns the display URL for an asset. Zero dimensions are omitted.
func (b URLBuilder) URL(assetID string, w, h int) string {
	if assetID == "" {
		return ""
	}
	raw := assetID
	if !strings.HasPrefix(assetID, "http://") && !strings.HasPrefix(assetID, "https://") {
		raw = b.base + "/" + strings.TrimLeft(assetID, "/")
	}
	q := url.Values{}
	if w > 0 {
		q.Set("w", strconv.Itoa(w))
	}
	if h > 0 {
		q.Set("h", strconv.Itoa(h))
	}
	if len(q) == 0 {
		return raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + q.Encode()
}

// Resolve fills URL on every image of a restaurant, including menu items.
func (b URLBuilder) Resolve(r *model.Restaurant, w, h int) {
	if r == nil {
		return
	}
	if r.MainImage != nil {
		r.MainImage.URL = b.URL(r.MainImage.AssetID, w, h)
	}
	for i := range r.GalleryImages {
		r.GalleryImages[i].URL = b.URL(r.GalleryImages[i].AssetID, w, h)
	}
	for i := range r.Menu {
		for j := range r.Menu[i].Items {
			if img := r.Menu[i].Items[j].Image; img != nil {
				img.URL = b.URL(img.AssetID, w, h)
			}
		}
	}
}
