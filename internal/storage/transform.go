package storage

import (
	"sort"
	"strconv"
	"strings"
)

// Transformation is the fixed set of delivery parameters encoded into a URL.
type Transformation struct {
	Quality     string
	Crop        string
	Gravity     string
	FetchFormat string
	Width       int
	Height      int
}

// String encodes t in Cloudinary's component syntax with keys sorted,
// e.g. "c_limit,h_2000,q_auto:good,w_2000".
func (t Transformation) String() string {
	parts := make([]string, 0, 6)
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"_"+value)
		}
	}
	add("c", t.Crop)
	add("f", t.FetchFormat)
	add("g", t.Gravity)
	add("q", t.Quality)
	if t.Width > 0 {
		add("w", strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		add("h", strconv.Itoa(t.Height))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Variant names a transformation preset. Variants differ only in the URL they
// render; upload, delete and lookups behave the same for all of them.
type Variant struct {
	Name           string
	Transformation Transformation
}

// f_auto is left out of the base and media variants: it produced 404s for
// some resources. Thumbnails still negotiate the format; revalidate before
// aligning the two.
var (
	// VariantBase is the generic storage preset: shrink to fit 2000x2000.
	VariantBase = Variant{
		Name: "base",
		Transformation: Transformation{
			Quality: "auto:good",
			Crop:    "limit",
			Width:   2000,
			Height:  2000,
		},
	}

	// VariantMedia is used for uploaded media files.
	VariantMedia = Variant{
		Name: "media",
		Transformation: Transformation{
			Quality: "auto:good",
			Crop:    "limit",
			Width:   2000,
			Height:  2000,
		},
	}

	// VariantThumbnail crops to a 300x300 square around the detected subject.
	VariantThumbnail = Variant{
		Name: "thumbnail",
		Transformation: Transformation{
			Quality:     "auto:good",
			Crop:        "fill",
			Gravity:     "auto",
			FetchFormat: "auto",
			Width:       300,
			Height:      300,
		},
	}
)
