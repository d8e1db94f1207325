package domain

// SizeClass names a fixed maximum (width, height) bound for a derivative.
type SizeClass string

const (
	SizeThumbnail SizeClass = "thumbnail"
	SizeXS        SizeClass = "xs"
	SizeSM        SizeClass = "sm"
	SizeMS        SizeClass = "ms"
	SizeLG        SizeClass = "lg"
)

// SizeBound is the maximum dimensions a derivative of that class may have.
// Derivatives are never upscaled to reach the bound.
type SizeBound struct {
	Width  int
	Height int
}

var SizeBounds = map[SizeClass]SizeBound{
	SizeThumbnail: {200, 200},
	SizeXS:        {576, 576},
	SizeSM:        {768, 768},
	SizeMS:        {992, 992},
	SizeLG:        {1200, 1200},
}

// SizeClassList is the fixed enumeration order used when purging the
// derivative key space of an asset.
var SizeClassList = []SizeClass{SizeThumbnail, SizeXS, SizeSM, SizeMS, SizeLG}

// ParseSizeClass resolves a size token. Unknown tokens report ok=false; the
// HTTP boundary treats that as "no size class" rather than an error.
func ParseSizeClass(token string) (SizeClass, bool) {
	c := SizeClass(token)
	if _, ok := SizeBounds[c]; ok {
		return c, true
	}
	return "", false
}
