package draw

import (
	"Perception/internal/entity"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlay_DoesNotMutateInput(t *testing.T) {
	original := imaging.New(64, 64, color.NRGBA{B: 255, A: 255})
	snapshot := imaging.Clone(original)

	detections := []entity.Detection{
		{Box: entity.Box{X1: 8, Y1: 8, X2: 40, Y2: 40}, Label: "cat", Score: 0.87},
	}

	annotated := Overlay(original, detections)
	require.NotNil(t, annotated)

	assert.Equal(t, snapshot.Pix, original.Pix)
}

func TestOverlay_DrawsBoxes(t *testing.T) {
	original := imaging.New(64, 64, color.NRGBA{B: 255, A: 255})

	annotated := Overlay(original, []entity.Detection{
		{Box: entity.Box{X1: 8, Y1: 8, X2: 40, Y2: 40}, Label: "cat", Score: 0.87},
	})

	assert.NotEqual(t, original.Pix, annotated.Pix)
	assert.Equal(t, original.Bounds(), annotated.Bounds())
}

func TestOverlay_NoDetections(t *testing.T) {
	original := imaging.New(16, 16, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	annotated := Overlay(original, nil)
	require.NotNil(t, annotated)
	assert.Equal(t, original.Pix, annotated.Pix)
}
