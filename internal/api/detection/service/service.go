package detectionService

import (
	authService "Perception/internal/api/auth/service"
	"Perception/internal/api/detection"
	"Perception/internal/media"
	"Perception/pkg/s3"
	"Perception/pkg/yolo"
	"golang.org/x/net/context"

	"github.com/sirupsen/logrus"
)

type IDetectionService interface {
	DetectImage(ctx context.Context, username string, imageData []byte, confidence float64) (detection.DetectImageResponse, error)
	SampleImage(ctx context.Context) (detection.SampleImageResponse, error)
	StreamDetections(ctx context.Context, username string, src media.Source, confidence float64, yield func(detection.StreamFrame) error) error
	ListSources() detection.SourcesResponse
}

type detectionService struct {
	log      *logrus.Logger
	model    yolo.IModel
	activity authService.ActivityDomain
	s3Client s3.ItfS3
}

func NewDetectionService(
	log *logrus.Logger,
	model yolo.IModel,
	activity authService.ActivityDomain,
	s3Client s3.ItfS3,
) IDetectionService {
	return &detectionService{
		log:      log,
		model:    model,
		activity: activity,
		s3Client: s3Client,
	}
}
