package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/dineguide/dineguide/internal/api/auth"
	"github.com/dineguide/dineguide/internal/api/metrics"
	"github.com/dineguide/dineguide/internal/api/recovery"
	"github.com/dineguide/dineguide/internal/services"
)

// Services bundles the use cases the router exposes.
type Services struct {
	Restaurants *services.RestaurantService
	Menus       *services.MenuService
	Reviews     *services.ReviewService
	Collections *services.CollectionService
	Listing     *services.ListingService
}

// RouterOptions configures the transport concerns around the handlers.
type RouterOptions struct {
	Authorizer     auth.Authorizer
	Health         ServiceHealth
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
	// MediaDir and MediaPath serve locally stored images when MediaDir is set.
	MediaDir  string
	MediaPath string
}

// NewRouter creates the HTTP router with public read routes under /api and
// admin routes at the root.
func NewRouter(svc Services, opts RouterOptions) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}
	if opts.Authorizer == nil {
		opts.Authorizer = auth.NewKeyAuthorizer("")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}

	listingHandler := NewListingHandler(svc.Listing)
	healthHandler := NewHealthHandler(opts.Health)
	restaurantHandler := NewRestaurantHandler(svc.Restaurants, opts.MaxUploadBytes)
	menuHandler := NewMenuHandler(svc.Menus, opts.MaxUploadBytes)
	reviewHandler := NewReviewHandler(svc.Reviews, opts.MaxUploadBytes)
	collectionHandler := NewCollectionHandler(svc.Collections, opts.MaxUploadBytes)

	// Public endpoints
	public := router.PathPrefix("/api").Subrouter()
	public.HandleFunc("/health", healthHandler.CheckHealth).Methods(http.MethodGet)
	public.HandleFunc("/restaurants", listingHandler.ListRestaurants).Methods(http.MethodGet)
	public.HandleFunc("/restaurants/filters", listingHandler.FilterOptions).Methods(http.MethodGet)
	public.HandleFunc("/restaurants/{id}", listingHandler.GetRestaurant).Methods(http.MethodGet)
	public.HandleFunc("/collections", listingHandler.ListCollections).Methods(http.MethodGet)
	public.HandleFunc("/collections/{slug}", listingHandler.GetCollection).Methods(http.MethodGet)

	router.HandleFunc("/auth/login", auth.LoginHandler(opts.Authorizer)).Methods(http.MethodPost)

	if opts.MediaDir != "" && strings.HasPrefix(opts.MediaPath, "/") {
		prefix := strings.TrimRight(opts.MediaPath, "/") + "/"
		router.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(opts.MediaDir)))).Methods(http.MethodGet, http.MethodHead)
	}

	// Admin endpoints; writes require the API key
	admin := router.NewRoute().Subrouter()
	admin.Use(auth.RequireWrites(opts.Authorizer))

	admin.HandleFunc("/restaurants", restaurantHandler.ListRestaurants).Methods(http.MethodGet)
	admin.HandleFunc("/restaurants", restaurantHandler.CreateRestaurant).Methods(http.MethodPost)
	admin.HandleFunc("/restaurants/{id}", restaurantHandler.GetRestaurant).Methods(http.MethodGet)
	admin.HandleFunc("/restaurants/{id}", restaurantHandler.UpdateRestaurant).Methods(http.MethodPut)
	admin.HandleFunc("/restaurants/{id}", restaurantHandler.DeleteRestaurant).Methods(http.MethodDelete)

	// Item routes are registered before section routes so "item" is never taken as a section key
	admin.HandleFunc("/restaurants/{id}/menu", menuHandler.GetMenu).Methods(http.MethodGet)
	admin.HandleFunc("/restaurants/{id}/menu", menuHandler.CreateSection).Methods(http.MethodPost)
	admin.HandleFunc("/restaurants/{id}/menu/item/{itemKey}", menuHandler.UpdateItem).Methods(http.MethodPut)
	admin.HandleFunc("/restaurants/{id}/menu/item/{itemKey}", menuHandler.DeleteItem).Methods(http.MethodDelete)
	admin.HandleFunc("/restaurants/{id}/menu/{sectionKey}", menuHandler.UpdateSection).Methods(http.MethodPut)
	admin.HandleFunc("/restaurants/{id}/menu/{sectionKey}", menuHandler.DeleteSection).Methods(http.MethodDelete)
	admin.HandleFunc("/restaurants/{id}/menu/{sectionKey}/item", menuHandler.CreateItem).Methods(http.MethodPost)

	admin.HandleFunc("/restaurants/{id}/reviews", reviewHandler.CreateReview).Methods(http.MethodPost)
	admin.HandleFunc("/restaurants/{id}/reviews/{reviewKey}", reviewHandler.DeleteReview).Methods(http.MethodDelete)

	admin.HandleFunc("/collections/{slug}", collectionHandler.PutCollection).Methods(http.MethodPut)
	admin.HandleFunc("/collections/{slug}", collectionHandler.DeleteCollection).Methods(http.MethodDelete)

	return router
}

// WithCORS wraps h so browsers on the allowed origins can call the API.
func WithCORS(h http.Handler, origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
	})
	return c.Handler(h)
}
