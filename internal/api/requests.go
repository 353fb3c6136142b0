package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dineguide/dineguide/internal/api/validate"
	"github.com/dineguide/dineguide/internal/menu"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/services"
)

// Multipart field names used by restaurant and menu item forms.
const (
	fieldData          = "data"
	fieldMainImage     = "mainImage"
	fieldGalleryImages = "galleryImages"
	fieldItemImage     = "image"
	// menuImagePrefix + itemKey carries the image of one menu item in a full-form submit.
	menuImagePrefix = "menuImage:"
)

type restaurantRules struct {
	Name    string `json:"name" validate:"required,max=200"`
	Website string `json:"website" validate:"omitempty,url"`
	Phone   string `json:"phone" validate:"max=40"`
	Summary string `json:"summary" validate:"max=500"`
}

type sectionRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

func (r *sectionRequest) normalize() { r.Name = strings.TrimSpace(r.Name) }

type itemRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=1000"`
	Price       *float64 `json:"price" validate:"required,finite"`
}

func (r *itemRequest) normalize() { r.Name = strings.TrimSpace(r.Name) }

type itemPatchRequest struct {
	Name        *string         `json:"name" validate:"omitnil,min=1,max=200"`
	Description *string         `json:"description" validate:"omitnil,max=1000"`
	Price       *float64        `json:"price" validate:"omitnil,finite"`
	Image       *model.ImageRef `json:"image"`
}

type reviewRequest struct {
	Author  string     `json:"author" validate:"required,max=100"`
	Rating  float64    `json:"rating" validate:"rating"`
	Comment string     `json:"comment" validate:"max=2000"`
	Date    *time.Time `json:"date"`
}

type collectionRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=2000"`
	RestaurantIDs []string `json:"restaurantIds" validate:"dive,required"`
}

var errInvalidJSON = model.NewValidationError("", "Invalid JSON")

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeJSON decodes a bounded JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		return tooLarge(err)
	}
	return unmarshalValid(body, dst)
}

// normalizer is implemented by requests that clean up fields before validation.
type normalizer interface {
	normalize()
}

func unmarshalValid(body []byte, dst interface{}) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return errInvalidJSON
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	return validate.Struct(dst)
}

func tooLarge(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return model.NewValidationError("", "request body too large")
	}
	return model.NewValidationError("", "could not read request body")
}

// parseForm reads a multipart form and returns its data field.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, tooLarge(err)
	}
	data := r.FormValue(fieldData)
	if data == "" {
		return nil, model.NewValidationError(fieldData, "data is required")
	}
	return []byte(data), nil
}

func readUpload(fh *multipart.FileHeader) (model.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return model.Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return model.Upload{}, err
	}
	return model.Upload{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func formFile(r *http.Request, field string) (*model.Upload, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	u, err := readUpload(r.MultipartForm.File[field][0])
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func formFiles(r *http.Request, field string) ([]model.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []model.Upload
	for _, fh := range r.MultipartForm.File[field] {
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// decodeRestaurant runs the menu rules on the raw payload before decoding,
// so malformed prices are reported instead of failing the decode.
func decodeRestaurant(raw []byte) (model.Restaurant, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.Restaurant{}, errInvalidJSON
	}
	if err := menu.ValidateJSON(fields["menu"]); err != nil {
		return model.Restaurant{}, err
	}
	var rec model.Restaurant
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Restaurant{}, errInvalidJSON
	}
	if err := validate.Struct(restaurantRules{Name: rec.Name, Website: rec.Website, Phone: rec.Phone, Summary: rec.Summary}); err != nil {
		return model.Restaurant{}, err
	}
	return rec, nil
}

// readRestaurantInput accepts either a JSON body or a multipart form with a
// data field plus mainImage, galleryImages and menuImage:<itemKey> files.
func readRestaurantInput(w http.ResponseWriter, r *http.Request, maxBytes int64) (services.RestaurantInput, error) {
	var in services.RestaurantInput
	if !isMultipart(r) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
		if err != nil {
			return in, tooLarge(err)
		}
		rec, err := decodeRestaurant(body)
		in.Restaurant = rec
		return in, err
	}

	data, err := parseForm(w, r, maxBytes)
	if err != nil {
		return in, err
	}
	if in.Restaurant, err = decodeRestaurant(data); err != nil {
		return in, err
	}
	if in.MainImage, err = formFile(r, fieldMainImage); err != nil {
		return in, err
	}
	if in.GalleryImages, err = formFiles(r, fieldGalleryImages); err != nil {
		return in, err
	}
	for field := range r.MultipartForm.File {
		itemKey, ok := strings.CutPrefix(field, menuImagePrefix)
		if !ok {
			continue
		}
		u, err := formFile(r, field)
		if err != nil {
			return in, err
		}
		attachPendingImage(in.Restaurant.Menu, itemKey, u)
	}
	return in, nil
}

func attachPendingImage(m []model.MenuSection, itemKey string, u *model.Upload) {
	for i := range m {
		for j := range m[i].Items {
			if m[i].Items[j].Key == itemKey {
				m[i].Items[j].PendingImage = u
				return
			}
		}
	}
}

// readItem accepts a JSON item or a multipart form with data and image fields.
func readItem(w http.ResponseWriter, r *http.Request, maxBytes int64) (model.MenuItem, *model.Upload, error) {
	var req itemRequest
	var image *model.Upload
	if isMultipart(r) {
		data, err := parseForm(w, r, maxBytes)
		if err != nil {
			return model.MenuItem{}, nil, err
		}
		if err := unmarshalValid(data, &req); err != nil {
			return model.MenuItem{}, nil, err
		}
		if image, err = formFile(r, fieldItemImage); err != nil {
			return model.MenuItem{}, nil, err
		}
	} else if err := decodeJSON(w, r, maxBytes, &req); err != nil {
		return model.MenuItem{}, nil, err
	}
	return model.MenuItem{Name: req.Name, Description: req.Description, Price: *req.Price}, image, nil
}

func readItemPatch(w http.ResponseWriter, r *http.Request, maxBytes int64) (model.ItemPatch, *model.Upload, error) {
	var req itemPatchRequest
	var image *model.Upload
	if isMultipart(r) {
		data, err := parseForm(w, r, maxBytes)
		if err != nil {
			return model.ItemPatch{}, nil, err
		}
		if err := unmarshalValid(data, &req); err != nil {
			return model.ItemPatch{}, nil, err
		}
		if image, err = formFile(r, fieldItemImage); err != nil {
			return model.ItemPatch{}, nil, err
		}
	} else if err := decodeJSON(w, r, maxBytes, &req); err != nil {
		return model.ItemPatch{}, nil, err
	}
	return model.ItemPatch{Name: req.Name, Description: req.Description, Price: req.Price, Image: req.Image}, image, nil
}
