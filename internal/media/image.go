package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
)

// imageSource yields a still image exactly once, then io.EOF.
type imageSource struct {
	mu    sync.Mutex
	img   image.Image
	drawn bool
}

func openImage(path string) (Source, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailure, path, err)
	}

	return &imageSource{img: img}, nil
}

// NewImageSource wraps an already-decoded image as a single-frame source.
func NewImageSource(img image.Image) Source {
	return &imageSource{img: img}
}

// DecodeImage decodes uploaded image bytes.
func DecodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return img, nil
}

func (s *imageSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawn {
		return nil, io.EOF
	}
	s.drawn = true

	return s.img, nil
}

func (s *imageSource) Close() error {
	return nil
}
