// Package media stores uploaded images and turns asset references into URLs.
package media

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dineguide/dineguide/internal/model"
)

// Store persists image uploads and returns the asset reference to keep on a record.
type Store interface {
	Put(ctx context.Context, prefix string, u model.Upload) (model.ImageRef, error)
	Delete(ctx context.Context, assetID string) error
}

// assetKey builds "<prefix>/<uuid><ext>" and checks the upload is an image.
func assetKey(prefix string, u model.Upload) (key, contentType string, err error) {
	if len(u.Data) == 0 {
		return "", "", model.NewValidationError("image", "upload is empty")
	}
	contentType = u.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(u.Data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", model.NewValidationError("image", fmt.Sprintf("unsupported content type %q", contentType))
	}
	ext := strings.ToLower(path.Ext(u.Filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "images"
	}
	return prefix + "/" + uuid.New().String() + ext, contentType, nil
}
