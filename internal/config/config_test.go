package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CLOUDINARY_FOLDER", "")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("PROVIDER_SUBDOMAIN_BASE", "")
	t.Setenv("DNS_RECORD_TTL", "")

	cfg := Load()

	assert.Equal(t, "media", cfg.CloudinaryFolder)
	assert.Equal(t, "", cfg.CloudinaryCloudName)
	assert.Equal(t, "nextslot.in", cfg.SubdomainBase)
	assert.Equal(t, 3600, cfg.DNSRecordTTL)
	assert.False(t, cfg.HasCloudinaryCredentials())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CLOUDINARY_FOLDER", "booking_app")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")
	t.Setenv("DNS_RECORD_TTL", "300")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, "booking_app", cfg.CloudinaryFolder)
	assert.True(t, cfg.HasCloudinaryCredentials())
	assert.Equal(t, 300, cfg.DNSRecordTTL)
	assert.True(t, cfg.IsProduction())
}

func TestLoadIgnoresInvalidTTL(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("DNS_RECORD_TTL", "soon")

	assert.Equal(t, 3600, Load().DNSRecordTTL)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "key=DNS_RECORD_TTL")
	assert.Contains(t, buf.String(), "value=soon")
}
