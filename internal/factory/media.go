package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dineguide/dineguide/internal/config"
	"github.com/dineguide/dineguide/internal/media"
)

// Media is the configured image store and the URL builder matching it.
type Media struct {
	Store media.Store
	URLs  media.URLBuilder
	// Dir is set for the disk driver so the router can serve files.
	Dir string
}

// NewMedia builds the image store selected by MEDIA_DRIVER. For S3 the
// default base URL is replaced by the bucket's public endpoint.
func NewMedia(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Media, error) {
	switch cfg.MediaDriver {
	case "disk":
		d, err := media.NewDiskStore(cfg.MediaDir)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", "disk").Str("dir", d.Dir()).Msg("media store ready")
		return &Media{Store: d, URLs: media.NewURLBuilder(cfg.MediaBaseURL), Dir: d.Dir()}, nil
	case "s3":
		s, err := media.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			return nil, err
		}
		base := cfg.MediaBaseURL
		if base == "" || base == "/media" {
			base = media.PublicBaseURL(cfg.S3Bucket, cfg.S3Region)
		}
		log.Info().Str("driver", "s3").Str("bucket", cfg.S3Bucket).Str("base_url", base).Msg("media store ready")
		return &Media{Store: s, URLs: media.NewURLBuilder(base)}, nil
	default:
		return nil, fmt.Errorf("unknown MEDIA_DRIVER: %s", cfg.MediaDriver)
	}
}
