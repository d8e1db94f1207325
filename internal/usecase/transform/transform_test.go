package transform

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"pictiato/internal/domain"
)

// fill is the solid color variant; split paints the left half one color and
// the right half another so crop placement can be observed.
func makeJPEG(t *testing.T, w, h int, left, right color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, left)
			} else {
				img.Set(x, y, right)
			}
		}
	}
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: domain.DefaultJPEGQuality}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode derivative: %v", err)
	}
	return cfg.Width, cfg.Height
}

var (
	red  = color.RGBA{200, 30, 30, 255}
	blue = color.RGBA{30, 30, 200, 255}
)

func TestDerivativePassthrough(t *testing.T) {
	src := makeJPEG(t, 300, 200, red, red)

	out, contentType, err := Derivative(src, "", false, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Error("no size class must return the canonical bytes unmodified")
	}
	if contentType != domain.CanonicalContentType {
		t.Errorf("content type = %q", contentType)
	}
}

func TestDerivativeDownscaleWithinBound(t *testing.T) {
	src := makeJPEG(t, 2000, 500, red, red)

	out, _, err := Derivative(src, domain.SizeXS, false, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, h := decodeDims(t, out)
	if w > 576 || h > 576 {
		t.Errorf("derivative %dx%d exceeds xs bound", w, h)
	}
	// aspect preserved: 2000x500 scaled to width 576 gives height 144
	if w != 576 || h != 144 {
		t.Errorf("derivative = %dx%d, want 576x144", w, h)
	}
}

func TestDerivativeCropThenScale(t *testing.T) {
	src := makeJPEG(t, 2000, 500, red, red)

	out, _, err := Derivative(src, domain.SizeXS, true, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, h := decodeDims(t, out)
	if w > 576 || h > 576 {
		t.Errorf("derivative %dx%d exceeds xs bound", w, h)
	}
	if w != h {
		t.Errorf("crop to a square class must yield a square, got %dx%d", w, h)
	}
	// the 1:1 crop of a 2000x500 source is 500x500; the bound must not upscale it
	if w != 500 {
		t.Errorf("derivative side = %d, want 500 (no upscaling)", w)
	}
}

func TestDerivativeNeverUpscales(t *testing.T) {
	src := makeJPEG(t, 64, 48, red, red)

	out, _, err := Derivative(src, domain.SizeLG, false, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, h := decodeDims(t, out)
	if w != 64 || h != 48 {
		t.Errorf("derivative = %dx%d, want original 64x48", w, h)
	}
}

func TestDerivativeUnsupportedSize(t *testing.T) {
	src := makeJPEG(t, 10, 10, red, red)

	if _, _, err := Derivative(src, domain.SizeClass("huge"), false, DefaultOptions()); !errors.Is(err, ErrUnsupportedSize) {
		t.Errorf("err = %v, want ErrUnsupportedSize", err)
	}
}

func TestDerivativeCorruptSource(t *testing.T) {
	if _, _, err := Derivative([]byte("not an image"), domain.SizeXS, false, DefaultOptions()); !errors.Is(err, ErrCorruptSource) {
		t.Errorf("err = %v, want ErrCorruptSource", err)
	}
}

func TestCropToAspectAlignment(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if x < 100 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, blue)
			}
		}
	}

	sample := func(m image.Image) color.RGBA {
		r, g, b, a := m.At(m.Bounds().Dx()/2, m.Bounds().Dy()/2).RGBA()
		return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	}
	near := func(got, want color.RGBA) bool {
		diff := func(a, b uint8) int {
			d := int(a) - int(b)
			if d < 0 {
				d = -d
			}
			return d
		}
		return diff(got.R, want.R) < 30 && diff(got.G, want.G) < 30 && diff(got.B, want.B) < 30
	}

	leftCrop := CropToAspect(img, 1, 1, 0, 0.5)
	if b := leftCrop.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("crop = %dx%d, want 100x100", b.Dx(), b.Dy())
	}
	if got := sample(leftCrop); !near(got, red) {
		t.Errorf("align 0 crop center = %v, want red half", got)
	}

	rightCrop := CropToAspect(img, 1, 1, 1, 0.5)
	if got := sample(rightCrop); !near(got, blue) {
		t.Errorf("align 1 crop center = %v, want blue half", got)
	}
}

func TestWatermarkStamp(t *testing.T) {
	wm, err := NewWatermarker()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	stamped, err := wm.Stamp(img, "© fishd.club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stamped.Bounds() != img.Bounds() {
		t.Errorf("stamp changed bounds: %v", stamped.Bounds())
	}
}
