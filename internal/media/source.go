package media

import (
	"context"
	"image"
)

type Kind string

const (
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindWebcam  Kind = "webcam"
	KindYouTube Kind = "youtube"
)

// Config selects one media source. Only the fields for the chosen Kind are
// read; the rest are ignored.
type Config struct {
	Kind        Kind
	ImagePath   string
	Preset      string
	DeviceIndex int
	URL         string
}

// Source yields frames in capture order. Next returns io.EOF once the source
// is exhausted; finite videos end, webcams run until closed.
type Source interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

func Open(ctx context.Context, cfg Config) (Source, error) {
	switch cfg.Kind {
	case KindImage:
		path := cfg.ImagePath
		if path == "" {
			path = DefaultImagePath
		}
		return openImage(path)
	case KindVideo:
		return openVideo(cfg.Preset)
	case KindWebcam:
		return openWebcam(cfg.DeviceIndex)
	case KindYouTube:
		return openYouTube(ctx, cfg.URL)
	default:
		return nil, ErrInvalidSource
	}
}
