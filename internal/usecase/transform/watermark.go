package transform

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Watermarker stamps a text mark into images at ingestion time. The mark is
// burned into the canonical copy, so it never widens the derivative key space.
type Watermarker struct {
	font *truetype.Font
}

func NewWatermarker() (*Watermarker, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse watermark font: %w", err)
	}
	return &Watermarker{font: f}, nil
}

// Stamp draws text in the bottom-right corner at half opacity and returns the
// marked image. The source image is not modified.
func (w *Watermarker) Stamp(img image.Image, text string) (image.Image, error) {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	fontSize := float64(bounds.Dx()) / 40
	if fontSize < 16 {
		fontSize = 16
	}

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(w.font)
	c.SetFontSize(fontSize)
	c.SetClip(result.Bounds())
	c.SetDst(result)
	c.SetSrc(image.NewUniform(color.RGBA{255, 255, 255, 128}))
	c.SetHinting(font.HintingFull)

	margin := 20
	textWidth := int(float64(len(text)) * fontSize * 0.6)
	pt := freetype.Pt(bounds.Dx()-textWidth-margin, bounds.Dy()-margin)

	if _, err := c.DrawString(text, pt); err != nil {
		return nil, fmt.Errorf("failed to draw watermark text: %w", err)
	}
	return result, nil
}
