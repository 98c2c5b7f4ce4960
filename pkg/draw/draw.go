package draw

import (
	"Perception/internal/entity"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var font *truetype.Font

// init sets up the font we use for labels.
func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

var boxColor = color.NRGBA{R: 255, G: 0, B: 0, A: 255}

// Overlay draws bounding boxes and "label score" captions onto a copy of
// img. The input image is never mutated.
func Overlay(img image.Image, detections []entity.Detection) *image.NRGBA {
	annotated := imaging.Clone(img)

	dc := gg.NewContextForImage(annotated)
	for _, d := range detections {
		drawRectangleEmpty(dc, image.Rect(d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2), boxColor, 2)

		caption := fmt.Sprintf("%s %.2f", d.Label, d.Score)
		drawString(dc, caption, image.Point{X: d.Box.X1, Y: d.Box.Y1 - 16}, boxColor, 14)
	}

	return imaging.Clone(dc.Image())
}

// drawString writes a string to the given context at a particular point.
func drawString(dc *gg.Context, text string, p image.Point, c color.Color, size float64) {
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: size}))
	dc.SetColor(c)
	dc.DrawStringWrapped(text, float64(p.X), float64(p.Y), 0, 0, float64(dc.Width()), 1, 0)
}

// drawRectangleEmpty draws the outline of the given rectangle into the context.
func drawRectangleEmpty(dc *gg.Context, r image.Rectangle, c color.Color, width float64) {
	dc.SetColor(c)

	dc.DrawLine(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Min.Y))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.DrawLine(float64(r.Min.X), float64(r.Min.Y), float64(r.Min.X), float64(r.Max.Y))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.DrawLine(float64(r.Max.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
	dc.SetLineWidth(width)
	dc.Stroke()

	dc.DrawLine(float64(r.Min.X), float64(r.Max.Y), float64(r.Max.X), float64(r.Max.Y))
	dc.SetLineWidth(width)
	dc.Stroke()
}
