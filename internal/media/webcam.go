package media

import (
	"fmt"
	"os"
)

func openWebcam(index int) (Source, error) {
	devicePath := webcamDevicePath(index)

	if _, err := os.Stat(devicePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, devicePath)
	}

	return newFFmpegSource(devicePath, map[string]interface{}{
		"f": "v4l2",
	})
}
