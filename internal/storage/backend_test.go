package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextslot/media-service/internal/config"
	"github.com/nextslot/media-service/internal/logging"
)

func TestOpenRemote(t *testing.T) {
	ctx := context.Background()

	r, err := OpenRemote(ctx, &config.Config{CloudinaryCloudName: "demo", CloudinaryAPIKey: "k", CloudinaryAPISecret: "s"}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &CloudinaryRemote{}, r)

	_, err = OpenRemote(ctx, &config.Config{StorageBackend: "ftp"}, logging.Discard())
	assert.ErrorContains(t, err, `unknown storage backend "ftp"`)
}
