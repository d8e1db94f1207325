// Package transform renders derivatives of a canonical image. Every function
// here is pure: bytes in, bytes out, no I/O and no shared state.
package transform

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"pictiato/internal/domain"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedSize = errors.New("unsupported size class")
	ErrCorruptSource   = errors.New("cannot decode source image")
)

// Options controls crop placement. Alignment fractions run 0..1 on each axis:
// 0 keeps the start of the source, 1 the end, 0.5 the center.
type Options struct {
	AlignX float64
	AlignY float64
}

func DefaultOptions() Options {
	return Options{AlignX: 0.5, AlignY: 0.5}
}

// Decode parses uploaded bytes as an image (GIF, JPEG, PNG or WebP).
func Decode(src []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSource, err)
	}
	return img, nil
}

// EncodeCanonical renders an image in the canonical serving format.
func EncodeCanonical(img image.Image) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: domain.DefaultJPEGQuality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode canonical image: %w", err)
	}
	return buf.Bytes(), domain.CanonicalContentType, nil
}

// Derivative turns canonical bytes plus a size class and crop flag into one
// cacheable variant. With no size class the canonical bytes pass through
// unmodified (the crop flag is then meaningless and ignored). With a size
// class, the source is optionally cropped to the class aspect, then
// downscaled so neither dimension exceeds the class bound. Dimensions are
// never upscaled.
func Derivative(src []byte, size domain.SizeClass, crop bool, opts Options) ([]byte, string, error) {
	img, err := Decode(src)
	if err != nil {
		return nil, "", err
	}

	if size == "" {
		return src, domain.CanonicalContentType, nil
	}

	bound, ok := domain.SizeBounds[size]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedSize, size)
	}

	if crop {
		img = CropToAspect(img, bound.Width, bound.Height, opts.AlignX, opts.AlignY)
	}
	img = scaleToFit(img, bound)

	return EncodeCanonical(img)
}

// CropToAspect extracts the largest rectangle of the target aspect ratio that
// fits inside the source, positioned by the alignment fractions. Only one
// dimension is ever reduced; nothing is upscaled to reach the aspect.
func CropToAspect(img image.Image, aspectW, aspectH int, alignX, alignY float64) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	cropW, cropH := w, h
	if w*aspectH > h*aspectW {
		// wider than the target aspect: trim width
		cropW = h * aspectW / aspectH
	} else {
		// narrower (or exact): trim height
		cropH = w * aspectH / aspectW
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}

	x := b.Min.X + int(float64(w-cropW)*alignX)
	y := b.Min.Y + int(float64(h-cropH)*alignY)

	dst := image.NewRGBA(image.Rect(0, 0, cropW, cropH))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img,
		image.Rect(x, y, x+cropW, y+cropH), xdraw.Over, nil)
	return dst
}

func scaleToFit(img image.Image, bound domain.SizeBound) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= bound.Width && h <= bound.Height {
		return img
	}

	ratio := float64(bound.Width) / float64(w)
	if rh := float64(bound.Height) / float64(h); rh < ratio {
		ratio = rh
	}

	newW := int(float64(w) * ratio)
	newH := int(float64(h) * ratio)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return resizeImage(img, newW, newH)
}

func resizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}
