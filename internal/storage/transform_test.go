package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformationString(t *testing.T) {
	assert.Equal(t, "c_limit,h_2000,q_auto:good,w_2000", VariantBase.Transformation.String())
	assert.Equal(t, "c_limit,h_2000,q_auto:good,w_2000", VariantMedia.Transformation.String())
	assert.Equal(t, "c_fill,f_auto,g_auto,h_300,q_auto:good,w_300", VariantThumbnail.Transformation.String())
	assert.Equal(t, "", Transformation{}.String())
}

func TestBaseVariantsNeverNegotiateFormat(t *testing.T) {
	for _, v := range []Variant{VariantBase, VariantMedia} {
		assert.Empty(t, v.Transformation.FetchFormat, v.Name)
		assert.NotContains(t, v.Transformation.String(), "f_", v.Name)
		assert.Equal(t, 2000, v.Transformation.Width, v.Name)
		assert.Equal(t, 2000, v.Transformation.Height, v.Name)
		assert.Equal(t, "limit", v.Transformation.Crop, v.Name)
	}
}

func TestThumbnailVariant(t *testing.T) {
	tr := VariantThumbnail.Transformation
	assert.Equal(t, 300, tr.Width)
	assert.Equal(t, 300, tr.Height)
	assert.Equal(t, "fill", tr.Crop)
	assert.Equal(t, "auto", tr.Gravity)
	assert.Equal(t, "auto", tr.FetchFormat)
}
