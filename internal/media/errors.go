package media

import "errors"

var (
	ErrInvalidSource     = errors.New("invalid media source")
	ErrUnknownPreset     = errors.New("unknown video preset")
	ErrOpenFailure       = errors.New("failed to open media source")
	ErrDecodeFailure     = errors.New("failed to decode frame")
	ErrDeviceUnavailable = errors.New("webcam device unavailable")

	ErrResolutionFailure = errors.New("failed to resolve video URL")
	ErrResolutionTimeout = errors.New("timed out resolving video URL")
)
