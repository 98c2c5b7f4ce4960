package detection

import "Perception/internal/entity"

type SourceKind string

const (
	ImageSource   SourceKind = "image"
	VideoSource   SourceKind = "video"
	WebcamSource  SourceKind = "webcam"
	YouTubeSource SourceKind = "youtube"
)

type DetectImageResponse struct {
	Detections     []entity.Detection `json:"detections"`
	AnnotatedImage string             `json:"annotated_image"`
	ArchiveURL     string             `json:"archive_url,omitempty"`
}

type SampleImageResponse struct {
	Image string `json:"image"`
}

type StreamRequest struct {
	Source      SourceKind `json:"source" validate:"required,oneof=video webcam youtube"`
	Preset      string     `json:"preset" validate:"required_if=Source video"`
	DeviceIndex int        `json:"device_index" validate:"gte=0"`
	URL         string     `json:"url" validate:"required_if=Source youtube,omitempty,url"`
	Confidence  float64    `json:"confidence" validate:"gt=0,lte=1"`
}

type StreamFrame struct {
	Index          int                `json:"index"`
	Detections     []entity.Detection `json:"detections,omitempty"`
	AnnotatedImage string             `json:"annotated_image,omitempty"`
	Skipped        bool               `json:"skipped,omitempty"`
	Error          string             `json:"error,omitempty"`
}

type SourcesResponse struct {
	VideoPresets []string `json:"video_presets"`
	Webcam       bool     `json:"webcam"`
	YouTube      bool     `json:"youtube"`
}
