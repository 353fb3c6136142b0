package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineguide/dineguide/internal/api/auth"
	"github.com/dineguide/dineguide/internal/api/metrics"
	"github.com/dineguide/dineguide/internal/content"
	"github.com/dineguide/dineguide/internal/media"
	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/services"
	"github.com/dineguide/dineguide/internal/store/sqlite"
)

const testKey = "test-admin-key"

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type staticHealth bool

func (h staticHealth) IsHealthy() bool              { return bool(h) }
func (h staticHealth) Components() map[string]bool { return map[string]bool{"store": bool(h)} }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	st, err := sqlite.Bootstrap(context.Background(), filepath.Join(dir, "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	disk, err := media.NewDiskStore(filepath.Join(dir, "media"))
	require.NoError(t, err)

	urls := media.NewURLBuilder("/media")
	deps := services.Deps{Media: disk, MediaURLs: &urls}
	svc := Services{
		Restaurants: services.NewRestaurantService(st, deps),
		Menus:       services.NewMenuService(st, deps),
		Reviews:     services.NewReviewService(st, deps),
		Collections: services.NewCollectionService(st, deps),
		Listing:     services.NewListingService(content.NewStoreRepository(st), urls, 2),
	}
	router := NewRouter(svc, RouterOptions{
		Authorizer:     auth.NewKeyAuthorizer(testKey),
		Health:         staticHealth(true),
		Metrics:        metrics.New(prometheus.NewRegistry()),
		MaxUploadBytes: 1 << 20,
		MediaDir:       disk.Dir(),
		MediaPath:      "/media",
	})
	srv := httptest.NewServer(WithCORS(router, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, contentType string, body io.Reader, authed bool) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testKey)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return do(t, srv, method, path, "application/json", r, true)
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var e struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Message
}

func createRestaurant(t *testing.T, srv *httptest.Server, body string) *model.Restaurant {
	t.Helper()
	code, out := doJSON(t, srv, http.MethodPost, "/restaurants", body)
	require.Equal(t, http.StatusCreated, code, string(out))
	var rec model.Restaurant
	require.NoError(t, json.Unmarshal(out, &rec))
	return &rec
}

type uploadPart struct {
	field, name string
	data        []byte
}

func multipartBody(t *testing.T, data string, files ...uploadPart) (string, io.Reader) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("data", data))
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}

func TestWritesRequireAPIKey(t *testing.T) {
	srv := newTestServer(t)

	code, _ := do(t, srv, http.MethodPost, "/restaurants", "application/json", strings.NewReader(`{"name":"x"}`), false)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, srv, http.MethodGet, "/restaurants", "", nil, false)
	assert.Equal(t, http.StatusOK, code)

	code, body := do(t, srv, http.MethodPost, "/auth/login", "application/json", strings.NewReader(`{"apiKey":"`+testKey+`"}`), false)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"token":"`+testKey+`"}`, string(body))
}

func TestCreateRestaurantRejectsInvalidMenu(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodPost, "/restaurants", `{"name":"Cafe Roma","menu":[{"name":"Mains","items":[]}]}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, `section "Mains" must have at least one item`, errorMessage(t, body))

	code, body = doJSON(t, srv, http.MethodPost, "/restaurants", `{"name":"Cafe Roma","menu":[{"name":"Mains","items":[{"name":"Soup","price":"five"}]}]}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, errorMessage(t, body), "valid price")

	code, body = doJSON(t, srv, http.MethodPost, "/restaurants", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "name is required", errorMessage(t, body))

	code, _ = doJSON(t, srv, http.MethodPost, "/restaurants", `{`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = doJSON(t, srv, http.MethodGet, "/restaurants", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"count":0`)
}

func TestRestaurantCRUD(t *testing.T) {
	srv := newTestServer(t)
	rec := createRestaurant(t, srv, `{"name":"Cafe Roma","cuisine":"italian","priceRange":"$$","menu":[{"key":"s1","name":"Mains","items":[{"key":"i1","name":"Soup","price":0}]}]}`)
	assert.NotEmpty(t, rec.ID)
	require.Len(t, rec.Menu, 1)

	code, body := doJSON(t, srv, http.MethodPut, "/restaurants/"+rec.ID, `{"name":"Cafe Roma","cuisine":"roman"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	var updated model.Restaurant
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "roman", updated.Cuisine)
	assert.Len(t, updated.Menu, 1, "omitted menu is kept")

	code, _ = doJSON(t, srv, http.MethodGet, "/restaurants/"+rec.ID, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, srv, http.MethodDelete, "/restaurants/"+rec.ID, "")
	assert.Equal(t, http.StatusNoContent, code)

	code, body = doJSON(t, srv, http.MethodGet, "/restaurants/"+rec.ID, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(body), `"code":404`)
}

func TestUpdateRestaurantAssignsMenuKeys(t *testing.T) {
	srv := newTestServer(t)
	a := createRestaurant(t, srv, `{"name":"Alpha","menu":[{"name":"Mains","items":[{"name":"Soup","price":4}]}]}`)
	b := createRestaurant(t, srv, `{"name":"Beta"}`)
	ownSection, ownItem := a.Menu[0].Key, a.Menu[0].Items[0].Key

	put := func(id, body string) []model.MenuSection {
		t.Helper()
		code, out := doJSON(t, srv, http.MethodPut, "/restaurants/"+id, body)
		require.Equal(t, http.StatusOK, code, string(out))
		var rec model.Restaurant
		require.NoError(t, json.Unmarshal(out, &rec))
		return rec.Menu
	}

	m := put(a.ID, `{"name":"Alpha","menu":[
		{"key":"`+ownSection+`","name":"Mains","items":[{"key":"`+ownItem+`","name":"Soup","price":4},{"key":"i","name":"Bread","price":2}]},
		{"key":"s","name":"Drinks","items":[{"key":"i","name":"Tea","price":2}]}]}`)
	require.Len(t, m, 2)
	assert.Equal(t, ownSection, m[0].Key)
	assert.Equal(t, ownItem, m[0].Items[0].Key)
	assert.NotEqual(t, "i", m[0].Items[1].Key)
	assert.NotEqual(t, "s", m[1].Key)
	assert.NotEqual(t, "i", m[1].Items[0].Key)

	// keys owned by another restaurant are replaced, not shared
	m = put(b.ID, `{"name":"Beta","menu":[{"key":"`+ownSection+`","name":"Mains","items":[{"key":"`+ownItem+`","name":"Soup","price":4}]}]}`)
	require.Len(t, m, 1)
	assert.NotEqual(t, ownSection, m[0].Key)
	assert.NotEqual(t, ownItem, m[0].Items[0].Key)

	m = put(b.ID, `{"name":"Beta","menu":[
		{"key":"d","name":"Mains","items":[{"key":"x","name":"Soup","price":4}]},
		{"key":"d","name":"Sides","items":[{"key":"x","name":"Fries","price":3}]}]}`)
	require.Len(t, m, 2)
	assert.NotEqual(t, m[0].Key, m[1].Key)
	assert.NotEqual(t, m[0].Items[0].Key, m[1].Items[0].Key)

	code, out := doJSON(t, srv, http.MethodGet, "/restaurants/"+a.ID, "")
	require.Equal(t, http.StatusOK, code)
	var stored model.Restaurant
	require.NoError(t, json.Unmarshal(out, &stored))
	require.Len(t, stored.Menu, 2)
	assert.Equal(t, ownSection, stored.Menu[0].Key)

	m = put(a.ID, `{"name":"Alpha","menu":[]}`)
	assert.Empty(t, m)
}

func TestMultipartCreateStoresImages(t *testing.T) {
	srv := newTestServer(t)
	ct, body := multipartBody(t,
		`{"name":"Sushi Go","menu":[{"key":"s1","name":"Rolls","items":[{"key":"i1","name":"Maki","price":7}]}]}`,
		uploadPart{"mainImage", "front.png", pngData},
		uploadPart{"galleryImages", "a.png", pngData},
		uploadPart{"galleryImages", "b.png", pngData},
		uploadPart{"menuImage:i1", "maki.png", pngData},
	)
	code, out := do(t, srv, http.MethodPost, "/restaurants", ct, body, true)
	require.Equal(t, http.StatusCreated, code, string(out))

	var rec model.Restaurant
	require.NoError(t, json.Unmarshal(out, &rec))
	require.NotNil(t, rec.MainImage)
	assert.Len(t, rec.GalleryImages, 2)
	require.NotNil(t, rec.Menu[0].Items[0].Image)
	assert.Equal(t, "/media/"+rec.MainImage.AssetID, rec.MainImage.URL)
	assert.Equal(t, "/media/"+rec.GalleryImages[1].AssetID, rec.GalleryImages[1].URL)
	assert.Equal(t, "/media/"+rec.Menu[0].Items[0].Image.AssetID, rec.Menu[0].Items[0].Image.URL)

	code, img := do(t, srv, http.MethodGet, "/media/"+rec.MainImage.AssetID, "", nil, false)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, pngData, img)

	code, out = do(t, srv, http.MethodGet, "/api/restaurants/"+rec.ID+"?w=400&h=300", "", nil, false)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		MainImage model.ImageRef `json:"mainImage"`
	}
	require.NoError(t, json.Unmarshal(out, &detail))
	assert.Equal(t, "/media/"+rec.MainImage.AssetID+"?h=300&w=400", detail.MainImage.URL)
}

func TestMenuSubResource(t *testing.T) {
	srv := newTestServer(t)
	rec := createRestaurant(t, srv, `{"name":"Menu Place"}`)
	base := "/restaurants/" + rec.ID + "/menu"

	code, out := doJSON(t, srv, http.MethodPost, base, `{"name":"Mains"}`)
	require.Equal(t, http.StatusCreated, code, string(out))
	var sec model.MenuSection
	require.NoError(t, json.Unmarshal(out, &sec))

	ct, body := multipartBody(t, `{"name":"Soup","price":5}`, uploadPart{"image", "soup.png", pngData})
	code, out = do(t, srv, http.MethodPost, base+"/"+sec.Key+"/item", ct, body, true)
	require.Equal(t, http.StatusCreated, code, string(out))
	var item model.MenuItem
	require.NoError(t, json.Unmarshal(out, &item))
	require.NotNil(t, item.Image)
	assert.Equal(t, "/media/"+item.Image.AssetID, item.Image.URL)

	code, out = doJSON(t, srv, http.MethodPost, base+"/"+sec.Key+"/item", `{"name":"Bread"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "price is required", errorMessage(t, out))

	code, _ = doJSON(t, srv, http.MethodPut, base+"/item/"+item.Key, `{"price":6.5}`)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = doJSON(t, srv, http.MethodPut, base+"/"+sec.Key, `{"name":"Main Courses"}`)
	assert.Equal(t, http.StatusNoContent, code)

	code, out = doJSON(t, srv, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	var got struct {
		Menu []model.MenuSection `json:"menu"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got.Menu, 1)
	assert.Equal(t, "Main Courses", got.Menu[0].Name)
	assert.Equal(t, 6.5, got.Menu[0].Items[0].Price)

	code, _ = doJSON(t, srv, http.MethodDelete, base+"/item/"+item.Key, "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = doJSON(t, srv, http.MethodDelete, base+"/item/"+item.Key, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, out = doJSON(t, srv, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got.Menu, 1, "deleting an item leaves its section")
	assert.Empty(t, got.Menu[0].Items)

	code, _ = doJSON(t, srv, http.MethodDelete, base+"/"+sec.Key, "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = doJSON(t, srv, http.MethodPost, "/restaurants/missing/menu", `{"name":"Mains"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMenuNamesAreTrimmed(t *testing.T) {
	srv := newTestServer(t)
	rec := createRestaurant(t, srv, `{"name":"Trim Place"}`)
	base := "/restaurants/" + rec.ID + "/menu"

	code, out := doJSON(t, srv, http.MethodPost, base, `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "name is required", errorMessage(t, out))

	code, out = doJSON(t, srv, http.MethodPost, base, `{"name":"  Mains "}`)
	require.Equal(t, http.StatusCreated, code, string(out))
	var sec model.MenuSection
	require.NoError(t, json.Unmarshal(out, &sec))
	assert.Equal(t, "Mains", sec.Name)

	code, out = doJSON(t, srv, http.MethodPut, base+"/"+sec.Key, `{"name":"\t "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "name is required", errorMessage(t, out))

	code, out = doJSON(t, srv, http.MethodPost, base+"/"+sec.Key+"/item", `{"name":"  ","price":3}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "name is required", errorMessage(t, out))
}

func TestReviews(t *testing.T) {
	srv := newTestServer(t)
	rec := createRestaurant(t, srv, `{"name":"Reviewed"}`)
	base := "/restaurants/" + rec.ID + "/reviews"

	for _, body := range []string{`{"author":"ana","rating":6}`, `{"author":"ana","rating":0}`, `{"author":"ana","rating":4.5}`} {
		code, out := doJSON(t, srv, http.MethodPost, base, body)
		assert.Equal(t, http.StatusBadRequest, code, body)
		assert.Equal(t, "rating must be an integer from 1 to 5", errorMessage(t, out))
	}

	code, out := doJSON(t, srv, http.MethodPost, base, `{"author":"ana","rating":5,"comment":"great"}`)
	require.Equal(t, http.StatusCreated, code, string(out))
	var rv model.Review
	require.NoError(t, json.Unmarshal(out, &rv))
	assert.False(t, rv.Date.IsZero())
	_, _ = doJSON(t, srv, http.MethodPost, base, `{"author":"bo","rating":2,"date":"2024-03-01T00:00:00Z"}`)

	code, out = do(t, srv, http.MethodGet, "/api/restaurants/"+rec.ID, "", nil, false)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		AverageRating float64 `json:"averageRating"`
		ReviewCount   int     `json:"reviewCount"`
	}
	require.NoError(t, json.Unmarshal(out, &detail))
	assert.Equal(t, 3.5, detail.AverageRating)
	assert.Equal(t, 2, detail.ReviewCount)

	code, _ = doJSON(t, srv, http.MethodDelete, base+"/"+rv.Key, "")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestPublicListing(t *testing.T) {
	srv := newTestServer(t)
	createRestaurant(t, srv, `{"name":"Cafe Roma","cuisine":"italian","priceRange":"$$","neighbourhood":"Old Town","tags":["pasta; wine"]}`)
	createRestaurant(t, srv, `{"name":"Sushi Go","cuisine":"japanese","priceRange":"$$$$"}`)
	createRestaurant(t, srv, `{"name":"Taco Stand","cuisine":"mexican","priceRange":"$"}`)

	names := func(path string) ([]string, int) {
		code, out := do(t, srv, http.MethodGet, path, "", nil, false)
		require.Equal(t, http.StatusOK, code, string(out))
		var page struct {
			Restaurants []model.Restaurant `json:"restaurants"`
			TotalPages  int                `json:"totalPages"`
		}
		require.NoError(t, json.Unmarshal(out, &page))
		var ns []string
		for _, r := range page.Restaurants {
			ns = append(ns, r.Name)
		}
		return ns, page.TotalPages
	}

	got, pages := names("/api/restaurants")
	assert.Equal(t, []string{"Cafe Roma", "Sushi Go"}, got)
	assert.Equal(t, 2, pages)
	got, _ = names("/api/restaurants?page=2")
	assert.Equal(t, []string{"Taco Stand"}, got)
	got, _ = names("/api/restaurants?page=7")
	assert.Equal(t, []string{"Cafe Roma", "Sushi Go"}, got)
	got, _ = names("/api/restaurants?cuisine=italian")
	assert.Equal(t, []string{"Cafe Roma"}, got)
	got, _ = names("/api/restaurants?price=upscale")
	assert.Equal(t, []string{"Sushi Go"}, got)
	got, _ = names("/api/restaurants?tag=wine&location=Old+Town")
	assert.Equal(t, []string{"Cafe Roma"}, got)

	code, out := do(t, srv, http.MethodGet, "/api/restaurants/filters", "", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out), `"value":"wine"`)
	assert.Contains(t, string(out), `"label":"Upscale Dining"`)

	code, _ = do(t, srv, http.MethodGet, "/api/restaurants/nope", "", nil, false)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCollectionsRoutes(t *testing.T) {
	srv := newTestServer(t)
	a := createRestaurant(t, srv, `{"name":"A"}`)

	code, _ := doJSON(t, srv, http.MethodPut, "/collections/Bad_Slug", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, out := doJSON(t, srv, http.MethodPut, "/collections/date-night", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "title is required", errorMessage(t, out))

	code, out = doJSON(t, srv, http.MethodPut, "/collections/date-night", `{"title":"Date night","restaurantIds":["`+a.ID+`","gone"]}`)
	require.Equal(t, http.StatusOK, code, string(out))

	code, out = do(t, srv, http.MethodGet, "/api/collections", "", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out), `"count":1`)

	code, out = do(t, srv, http.MethodGet, "/api/collections/date-night", "", nil, false)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		Title       string             `json:"title"`
		Restaurants []model.Restaurant `json:"restaurants"`
	}
	require.NoError(t, json.Unmarshal(out, &detail))
	assert.Equal(t, "Date night", detail.Title)
	require.Len(t, detail.Restaurants, 1)
	assert.Equal(t, "A", detail.Restaurants[0].Name)

	code, _ = doJSON(t, srv, http.MethodDelete, "/collections/date-night", "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = do(t, srv, http.MethodGet, "/api/collections/date-night", "", nil, false)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	code, out := do(t, srv, http.MethodGet, "/api/health", "", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out), `"status":"healthy"`)
	assert.Contains(t, string(out), `"store":true`)

	code, out = do(t, srv, http.MethodGet, "/metrics", "", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out), `route="/api/health"`)
}

func TestHealthHandlerWithoutChecker(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler(nil).CheckHealth(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"unhealthy"`)
}
