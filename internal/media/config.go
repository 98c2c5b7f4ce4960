package media

import "fmt"

const (
	// DefaultImagePath is the bundled sample shown before a user uploads
	// anything of their own.
	DefaultImagePath = "images/sample.jpg"

	// DetectionModelPath is the weights file the inference service loads.
	DetectionModelPath = "weights/yolov8n.pt"
)

// VideoPresets maps the preset names exposed by the API to bundled files.
var VideoPresets = map[string]string{
	"v1": "videos/v1.mp4",
	"v2": "videos/v2.mp4",
	"v3": "videos/v3.mp4",
	"v4": "videos/v4.mp4",
	"v5": "videos/v5.mp4",
	"v6": "videos/v6.mp4",
	"v7": "videos/v7.mp4",
}

func webcamDevicePath(index int) string {
	return fmt.Sprintf("/dev/video%d", index)
}
