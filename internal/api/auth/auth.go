// Package auth guards the admin routes with a shared API key.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dineguide/dineguide/internal/api/respond"
)

var (
	// ErrMissingKey is returned when the request carries no credentials.
	ErrMissingKey = errors.New("missing Authorization header")
	// ErrInvalidKey is returned for a key that does not match.
	ErrInvalidKey = errors.New("invalid API key")
	// ErrNotConfigured is returned when the service has no admin key.
	ErrNotConfigured = errors.New("admin API key not configured")
)

// Actor describes the authenticated caller.
type Actor struct {
	ActorID string `json:"actorId"`
	KeyType string `json:"keyType"`
}

// Authorizer validates API keys.
type Authorizer interface {
	Authorize(ctx context.Context, apiKey string) (*Actor, error)
}

// KeyAuthorizer accepts exactly one configured key.
type KeyAuthorizer struct {
	key string
}

func NewKeyAuthorizer(key string) *KeyAuthorizer {
	return &KeyAuthorizer{key: key}
}

func (a *KeyAuthorizer) Authorize(_ context.Context, apiKey string) (*Actor, error) {
	if a.key == "" {
		return nil, ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(a.key)) != 1 {
		return nil, ErrInvalidKey
	}
	return &Actor{ActorID: "admin", KeyType: "admin"}, nil
}

// ExtractAPIKey extracts the API key from the Authorization header.
// Expects the "Bearer <api_key>" format.
func ExtractAPIKey(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingKey
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid Authorization header format, expected 'Bearer <api_key>'")
	}
	return parts[1], nil
}

type actorKey struct{}

// ActorFrom returns the actor stored by RequireWrites, if any.
func ActorFrom(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(*Actor)
	return a, ok
}

// RequireWrites rejects unauthenticated requests that are not GET, HEAD or OPTIONS.
func RequireWrites(a Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			key, err := ExtractAPIKey(r)
			if err != nil {
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			actor, err := a.Authorize(r.Context(), key)
			if err != nil {
				log.Warn().Str("method", r.Method).Str("path", r.URL.Path).Err(err).Msg("admin request rejected")
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
		})
	}
}

// LoginHandler handles POST /auth/login. The returned token is the key itself;
// there is no session state.
func LoginHandler(a Authorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			APIKey string `json:"apiKey"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteBadRequest(w, "Invalid JSON")
			return
		}
		if req.APIKey == "" {
			respond.WriteBadRequest(w, "apiKey is required")
			return
		}
		if _, err := a.Authorize(r.Context(), req.APIKey); err != nil {
			respond.WriteUnauthorized(w, err.Error())
			return
		}
		respond.WriteJSON(w, http.StatusOK, map[string]string{"token": req.APIKey})
	}
}
