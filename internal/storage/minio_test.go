package storage

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "media/logo_ab12cd34", objectKey("media", "logo_ab12cd34"))
	assert.Equal(t, "media/logo", objectKey("/media/", "logo"))
	assert.Equal(t, "logo", objectKey("", "logo"))
}

func TestContentTypeRoundTrip(t *testing.T) {
	for _, format := range []string{"jpg", "png", "gif", "webp", "svg"} {
		assert.Equal(t, format, formatFromContentType(contentTypeFor(format)), format)
	}
	assert.Equal(t, "application/octet-stream", contentTypeFor(""))
	assert.Equal(t, "", formatFromContentType("application/pdf"))
	assert.Equal(t, "", formatFromContentType("image/tiff"))
}

func TestIsNoSuchKey(t *testing.T) {
	assert.True(t, isNoSuchKey(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.False(t, isNoSuchKey(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNoSuchKey(errors.New("dial tcp: connection refused")))
}

func TestMinioImageURLIgnoresTransformation(t *testing.T) {
	m := &MinioRemote{publicBase: "http://localhost:9000/media"}

	u, err := m.ImageURL("media/logo_ab12cd34", VariantThumbnail.Transformation)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media/media/logo_ab12cd34", u)

	_, err = m.ImageURL("", Transformation{})
	assert.Error(t, err)
}

func TestPublicReadPolicy(t *testing.T) {
	var doc struct {
		Statement []struct {
			Action   string
			Resource string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(publicReadPolicy("media")), &doc))
	require.Len(t, doc.Statement, 1)
	assert.Equal(t, "s3:GetObject", doc.Statement[0].Action)
	assert.Equal(t, "arn:aws:s3:::media/*", doc.Statement[0].Resource)
}
