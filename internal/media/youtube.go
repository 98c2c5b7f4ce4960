package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kkdai/youtube/v2"
)

const youtubeResolveTimeout = 15 * time.Second

// openYouTube resolves a watch URL to a direct stream URL, then hands the
// stream to ffmpeg like any other video input.
func openYouTube(ctx context.Context, url string) (Source, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrResolutionFailure)
	}

	resolveCtx, cancel := context.WithTimeout(ctx, youtubeResolveTimeout)
	defer cancel()

	client := youtube.Client{}

	video, err := client.GetVideoContext(resolveCtx, url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrResolutionTimeout, url)
		}
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailure, err)
	}

	formats := video.Formats.Type("video/mp4")
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no mp4 format available", ErrResolutionFailure)
	}
	formats.Sort()

	streamURL, err := client.GetStreamURLContext(resolveCtx, video, &formats[0])
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrResolutionTimeout, url)
		}
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailure, err)
	}

	return newFFmpegSource(streamURL, nil)
}
