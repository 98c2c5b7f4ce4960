package media

import (
	"fmt"
	"os"
)

func openVideo(preset string) (Source, error) {
	path, ok := VideoPresets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailure, path, err)
	}

	return newFFmpegSource(path, nil)
}
