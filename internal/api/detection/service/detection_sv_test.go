package detectionService

import (
	"Perception/internal/api/auth"
	"Perception/internal/api/detection"
	"Perception/internal/entity"
	"Perception/internal/media"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	mu         sync.Mutex
	calls      int
	detections []entity.Detection
	errOnCall  map[int]error
}

func (f *fakeModel) Predict(_ []byte, _ float64) ([]entity.Detection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errOnCall[f.calls]; ok {
		return nil, err
	}
	return f.detections, nil
}

func (f *fakeModel) IsConnected() bool { return true }
func (f *fakeModel) Reconnect() error  { return nil }
func (f *fakeModel) CloseConnection()  {}

func (f *fakeModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSource struct {
	frames []image.Image
	next   int
	closed bool
}

func (f *fakeSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.next >= len(f.frames) {
		return nil, io.EOF
	}
	img := f.frames[f.next]
	f.next++
	return img, nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

type fakeActivity struct {
	mu      sync.Mutex
	entries []string
}

func (f *fakeActivity) RecordActivity(_ context.Context, username, activity string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, username+": "+activity)
	return nil
}

func (f *fakeActivity) GetActivities(_ context.Context, _ string) (auth.ActivitiesResponse, error) {
	return auth.ActivitiesResponse{}, nil
}

func testFrame(t *testing.T) (image.Image, []byte) {
	t.Helper()
	img := imaging.New(64, 48, color.NRGBA{G: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return img, buf.Bytes()
}

func TestDetectImage_AnnotatesAndRecordsActivity(t *testing.T) {
	model := &fakeModel{detections: []entity.Detection{
		{Box: entity.Box{X1: 4, Y1: 4, X2: 20, Y2: 20}, Label: "cat", Score: 0.9},
	}}
	activity := &fakeActivity{}
	svc := NewDetectionService(logrus.New(), model, activity, nil)

	_, data := testFrame(t)

	res, err := svc.DetectImage(context.Background(), "alice", data, 0.5)
	require.NoError(t, err)
	require.Len(t, res.Detections, 1)
	assert.Equal(t, "cat", res.Detections[0].Label)
	assert.NotEmpty(t, res.AnnotatedImage)
	assert.Empty(t, res.ArchiveURL)

	assert.Equal(t, 1, model.callCount())
	require.Len(t, activity.entries, 1)
	assert.Equal(t, "alice: Detected objects on image", activity.entries[0])
}

func TestDetectImage_ThresholdIsInclusive(t *testing.T) {
	model := &fakeModel{detections: []entity.Detection{
		{Label: "exactly-at", Score: 0.5},
		{Label: "above", Score: 0.51},
		{Label: "below", Score: 0.49},
	}}
	svc := NewDetectionService(logrus.New(), model, &fakeActivity{}, nil)

	_, data := testFrame(t)

	res, err := svc.DetectImage(context.Background(), "alice", data, 0.5)
	require.NoError(t, err)
	require.Len(t, res.Detections, 2)
	assert.Equal(t, "exactly-at", res.Detections[0].Label)
	assert.Equal(t, "above", res.Detections[1].Label)
}

func TestDetectImage_InvalidImage(t *testing.T) {
	model := &fakeModel{}
	svc := NewDetectionService(logrus.New(), model, &fakeActivity{}, nil)

	_, err := svc.DetectImage(context.Background(), "alice", []byte("not an image"), 0.5)
	require.ErrorIs(t, err, detection.ErrInvalidImage)
	assert.Equal(t, 0, model.callCount())
}

func TestDetectImage_ModelDown(t *testing.T) {
	model := &fakeModel{errOnCall: map[int]error{1: errors.New("connection refused")}}
	activity := &fakeActivity{}
	svc := NewDetectionService(logrus.New(), model, activity, nil)

	_, data := testFrame(t)

	_, err := svc.DetectImage(context.Background(), "alice", data, 0.5)
	require.ErrorIs(t, err, detection.ErrModelUnavailable)
	assert.Empty(t, activity.entries)
}

func TestStreamDetections_SkipsFailedFrameAndContinues(t *testing.T) {
	img, _ := testFrame(t)
	src := &fakeSource{frames: []image.Image{img, img, img}}
	model := &fakeModel{
		detections: []entity.Detection{{Label: "dog", Score: 0.8}},
		errOnCall:  map[int]error{2: errors.New("inference failed")},
	}
	activity := &fakeActivity{}
	svc := NewDetectionService(logrus.New(), model, activity, nil)

	var frames []detection.StreamFrame
	err := svc.StreamDetections(context.Background(), "alice", src, 0.5, func(f detection.StreamFrame) error {
		frames = append(frames, f)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, frames, 3)
	assert.Equal(t, 0, frames[0].Index)
	assert.False(t, frames[0].Skipped)
	assert.Len(t, frames[0].Detections, 1)

	assert.Equal(t, 1, frames[1].Index)
	assert.True(t, frames[1].Skipped)
	assert.NotEmpty(t, frames[1].Error)
	assert.Empty(t, frames[1].Detections)

	assert.Equal(t, 2, frames[2].Index)
	assert.False(t, frames[2].Skipped)

	assert.True(t, src.closed)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, "alice: Started detection stream", activity.entries[0])
}

func TestStreamDetections_ContextCancelStopsStream(t *testing.T) {
	img, _ := testFrame(t)
	src := &fakeSource{frames: []image.Image{img, img, img, img, img}}
	model := &fakeModel{}
	svc := NewDetectionService(logrus.New(), model, &fakeActivity{}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	var yielded int
	err := svc.StreamDetections(ctx, "alice", src, 0.5, func(detection.StreamFrame) error {
		yielded++
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, yielded)
	assert.True(t, src.closed)
}

func TestStreamDetections_YieldErrorStopsStream(t *testing.T) {
	img, _ := testFrame(t)
	src := &fakeSource{frames: []image.Image{img, img}}
	svc := NewDetectionService(logrus.New(), &fakeModel{}, &fakeActivity{}, nil)

	wantErr := errors.New("client went away")
	err := svc.StreamDetections(context.Background(), "alice", src, 0.5, func(detection.StreamFrame) error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	assert.True(t, src.closed)
}

func TestListSources(t *testing.T) {
	svc := NewDetectionService(logrus.New(), &fakeModel{}, &fakeActivity{}, nil)

	res := svc.ListSources()
	assert.Len(t, res.VideoPresets, len(media.VideoPresets))
	assert.Equal(t, "v1", res.VideoPresets[0])
	assert.True(t, res.Webcam)
	assert.True(t, res.YouTube)
}
