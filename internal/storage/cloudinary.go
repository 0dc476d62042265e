package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// UploadError reports a failed upload. It unwraps to the remote error.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s to cloudinary: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

var _ Storage = (*CloudinaryStorage)(nil)

// CloudinaryStorage implements Storage on top of a hosted image Remote.
// It keeps no state besides its configuration and is safe for concurrent use.
type CloudinaryStorage struct {
	remote  Remote
	folder  string
	variant Variant
	logger  *slog.Logger
}

// NewCloudinaryStorage returns the base variant storing under folder
// ("media" when empty).
func NewCloudinaryStorage(remote Remote, folder string, logger *slog.Logger) *CloudinaryStorage {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = "media"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudinaryStorage{
		remote:  remote,
		folder:  folder,
		variant: VariantBase,
		logger:  logger.With("component", "storage"),
	}
}

// WithVariant returns a copy of s that renders URLs with v.
func (s *CloudinaryStorage) WithVariant(v Variant) *CloudinaryStorage {
	c := *s
	c.variant = v
	return &c
}

// Media returns the media-file variant of s.
func (s *CloudinaryStorage) Media() *CloudinaryStorage { return s.WithVariant(VariantMedia) }

// Thumbnail returns the thumbnail variant of s.
func (s *CloudinaryStorage) Thumbnail() *CloudinaryStorage { return s.WithVariant(VariantThumbnail) }

// Folder returns the folder every new reference is written under.
func (s *CloudinaryStorage) Folder() string { return s.folder }

// Variant returns the URL preset of s.
func (s *CloudinaryStorage) Variant() Variant { return s.variant }

// Save uploads content and returns "{folder}/{identifier}".
func (s *CloudinaryStorage) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	if content == nil {
		return "", &UploadError{Name: name, Err: errors.New("content is required")}
	}
	if seeker, ok := content.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", &UploadError{Name: name, Err: fmt.Errorf("rewind content: %w", err)}
		}
	}

	var contentType string
	if typed, ok := content.(interface{ ContentType() string }); ok {
		contentType = typed.ContentType()
	}

	publicID := s.generatePublicID(name)
	req := UploadRequest{
		PublicID: publicID,
		Folder:   s.folder,
		Format:   uploadFormat(name, contentType),
	}

	if _, err := s.remote.Upload(ctx, content, req); err != nil {
		s.logger.Error("upload failed", "name", name, "public_id", publicID, "error", err)
		return "", &UploadError{Name: name, Err: err}
	}
	return s.folder + "/" + publicID, nil
}

// Delete destroys the resource behind ref. Missing resources count as
// deleted; other failures are logged and dropped so cleanup paths never fail.
func (s *CloudinaryStorage) Delete(ctx context.Context, ref string) {
	publicID := s.PublicID(ref)
	if publicID == "" {
		return
	}
	err := s.remote.Destroy(ctx, publicID)
	if err == nil || errors.Is(err, ErrRemoteNotFound) {
		return
	}
	s.logger.Warn("delete failed", "ref", ref, "public_id", publicID, "error", err)
}

// Probe looks ref up remotely and keeps "absent" apart from "unknown".
func (s *CloudinaryStorage) Probe(ctx context.Context, ref string) Probe {
	publicID := s.PublicID(ref)
	if publicID == "" {
		return Probe{Presence: PresenceAbsent}
	}
	asset, err := s.remote.Asset(ctx, publicID)
	switch {
	case err == nil:
		return Probe{Presence: PresencePresent, Bytes: asset.Bytes}
	case errors.Is(err, ErrRemoteNotFound):
		return Probe{Presence: PresenceAbsent}
	default:
		return Probe{Presence: PresenceUnknown, Err: err}
	}
}

// Exists reports whether ref is hosted. Lookup errors count as absent.
func (s *CloudinaryStorage) Exists(ctx context.Context, ref string) bool {
	p := s.Probe(ctx, ref)
	if p.Presence == PresenceUnknown {
		s.logger.Debug("existence check failed", "ref", ref, "error", p.Err)
	}
	return p.Presence == PresencePresent
}

// Size returns the hosted byte size of ref, 0 when absent or unknown.
func (s *CloudinaryStorage) Size(ctx context.Context, ref string) int64 {
	p := s.Probe(ctx, ref)
	if p.Presence == PresenceUnknown {
		s.logger.Debug("size lookup failed", "ref", ref, "error", p.Err)
	}
	return p.Bytes
}

// URL renders the display URL with the variant's transformation.
func (s *CloudinaryStorage) URL(ref string) string {
	return s.buildURL(ref, s.variant.Transformation)
}

// OriginalURL renders the untransformed delivery URL of ref.
func (s *CloudinaryStorage) OriginalURL(ref string) string {
	return s.buildURL(ref, Transformation{})
}

func (s *CloudinaryStorage) buildURL(ref string, t Transformation) string {
	publicID := s.PublicID(ref)
	if publicID == "" {
		return ""
	}
	u, err := s.remote.ImageURL(publicID, t)
	if err != nil {
		s.logger.Warn("url generation failed", "ref", ref, "variant", s.variant.Name, "error", err)
		return ""
	}
	return u
}

// AvailableName returns a freshly generated identifier for name.
func (s *CloudinaryStorage) AvailableName(name string, _ int) string {
	return s.generatePublicID(name)
}

// PublicID resolves any historical reference format to the remote public id.
// It returns "" for empty references.
func (s *CloudinaryStorage) PublicID(ref string) string {
	return extractPublicID(ref, s.folder)
}

func (s *CloudinaryStorage) generatePublicID(name string) string {
	return sanitizeName(name) + "_" + randomSuffix()
}
