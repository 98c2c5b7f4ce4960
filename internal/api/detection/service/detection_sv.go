package detectionService

import (
	"Perception/internal/api/detection"
	"Perception/internal/entity"
	"Perception/internal/media"
	contextPkg "Perception/pkg/context"
	"Perception/pkg/draw"
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"io"
	"sort"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// streamInterval caps streaming at 10 frames per second regardless of how
// fast the source produces frames.
const streamInterval = 100 * time.Millisecond

func (s *detectionService) DetectImage(ctx context.Context, username string, imageData []byte, confidence float64) (detection.DetectImageResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	img, err := media.DecodeImage(imageData)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode uploaded image")
		return detection.DetectImageResponse{}, detection.ErrInvalidImage
	}

	detections, err := s.model.Predict(imageData, confidence)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Model prediction failed")
		return detection.DetectImageResponse{}, detection.ErrModelUnavailable
	}

	detections = filterByConfidence(detections, confidence)

	annotated, err := encodeJPEG(draw.Overlay(img, detections))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode annotated image")
		return detection.DetectImageResponse{}, err
	}

	if err := s.activity.RecordActivity(ctx, username, "Detected objects on image"); err != nil {
		return detection.DetectImageResponse{}, err
	}

	res := detection.DetectImageResponse{
		Detections:     detections,
		AnnotatedImage: base64.StdEncoding.EncodeToString(annotated),
	}

	if s.s3Client != nil {
		location, err := s.s3Client.UploadImage("detection.jpg", annotated)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to archive annotated image")
		} else {
			res.ArchiveURL = location
		}
	}

	return res, nil
}

func (s *detectionService) SampleImage(ctx context.Context) (detection.SampleImageResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	src, err := media.Open(ctx, media.Config{Kind: media.KindImage})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to open sample image")
		return detection.SampleImageResponse{}, err
	}
	defer src.Close()

	img, err := src.Next(ctx)
	if err != nil {
		return detection.SampleImageResponse{}, err
	}

	encoded, err := encodeJPEG(img)
	if err != nil {
		return detection.SampleImageResponse{}, err
	}

	return detection.SampleImageResponse{
		Image: base64.StdEncoding.EncodeToString(encoded),
	}, nil
}

// StreamDetections pulls frames from src until it ends or ctx is cancelled.
// A frame that fails decoding or prediction is reported as skipped and the
// stream moves on; the stream itself only stops on source exhaustion, a
// broken source, or a failed yield.
func (s *detectionService) StreamDetections(ctx context.Context, username string, src media.Source, confidence float64, yield func(detection.StreamFrame) error) error {
	requestID := contextPkg.GetRequestID(ctx)
	defer src.Close()

	if err := s.activity.RecordActivity(ctx, username, "Started detection stream"); err != nil {
		return err
	}

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	index := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		img, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"frames":     index,
				}).Info("Stream source exhausted")
				return nil
			}
			if errors.Is(err, media.ErrDecodeFailure) {
				s.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"frame":      index,
					"error":      err.Error(),
				}).Warn("Skipping undecodable frame")
				if yieldErr := yield(detection.StreamFrame{Index: index, Skipped: true, Error: err.Error()}); yieldErr != nil {
					return yieldErr
				}
				index++
				continue
			}
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"frame":      index,
				"error":      err.Error(),
			}).Error("Stream source failed")
			return err
		}

		frame, err := s.processFrame(img, confidence)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"frame":      index,
				"error":      err.Error(),
			}).Warn("Skipping frame after prediction failure")
			frame = detection.StreamFrame{Skipped: true, Error: err.Error()}
		}
		frame.Index = index

		if err := yield(frame); err != nil {
			return err
		}
		index++
	}
}

func (s *detectionService) ListSources() detection.SourcesResponse {
	presets := make([]string, 0, len(media.VideoPresets))
	for name := range media.VideoPresets {
		presets = append(presets, name)
	}
	sort.Strings(presets)

	return detection.SourcesResponse{
		VideoPresets: presets,
		Webcam:       true,
		YouTube:      true,
	}
}

func (s *detectionService) processFrame(img image.Image, confidence float64) (detection.StreamFrame, error) {
	encoded, err := encodeJPEG(img)
	if err != nil {
		return detection.StreamFrame{}, err
	}

	detections, err := s.model.Predict(encoded, confidence)
	if err != nil {
		return detection.StreamFrame{}, err
	}

	detections = filterByConfidence(detections, confidence)

	annotated, err := encodeJPEG(draw.Overlay(img, detections))
	if err != nil {
		return detection.StreamFrame{}, err
	}

	return detection.StreamFrame{
		Detections:     detections,
		AnnotatedImage: base64.StdEncoding.EncodeToString(annotated),
	}, nil
}

// filterByConfidence keeps detections at or above the threshold. The model
// filters server-side too, but a fake or stale model may not.
func filterByConfidence(detections []entity.Detection, confidence float64) []entity.Detection {
	kept := make([]entity.Detection, 0, len(detections))
	for _, d := range detections {
		if d.Score >= confidence {
			kept = append(kept, d)
		}
	}
	return kept
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
