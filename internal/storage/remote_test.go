package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryRemoteImageURL(t *testing.T) {
	r, err := NewCloudinaryRemote("demo", "key", "secret")
	require.NoError(t, err)

	u, err := r.ImageURL("media/abc123", VariantBase.Transformation)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://res.cloudinary.com/demo/image/upload/"), u)
	assert.Contains(t, u, "c_limit,h_2000,q_auto:good,w_2000")
	assert.NotContains(t, u, "f_auto")
	assert.True(t, strings.HasSuffix(u, "/media/abc123"), u)
	assert.NotContains(t, u, "?", "delivery urls carry no query string")

	original, err := r.ImageURL("media/abc123", Transformation{})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/media/abc123", original)

	thumb, err := r.ImageURL("media/abc123", VariantThumbnail.Transformation)
	require.NoError(t, err)
	assert.Contains(t, thumb, "c_fill,f_auto,g_auto,h_300,q_auto:good,w_300")
}

func TestListParamsSelectUploadedImages(t *testing.T) {
	p := listParams("media/", maxPageSize, "next-page")

	assert.Equal(t, "upload", p.DeliveryType)
	assert.Equal(t, "media/", p.Prefix)
	assert.Equal(t, 500, p.MaxResults)
	assert.Equal(t, "next-page", p.NextCursor)
}

func TestRemoteErrorTagsNotFound(t *testing.T) {
	assert.True(t, errors.Is(remoteError("Resource not found - media/abc123"), ErrRemoteNotFound))
	assert.False(t, errors.Is(remoteError("Invalid Signature"), ErrRemoteNotFound))
	assert.EqualError(t, remoteError("Invalid Signature"), "Invalid Signature")
}
