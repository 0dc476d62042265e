package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nextslot/media-service/internal/storage"
)

// ErrNoLogo is returned when removing a logo from a provider that has none.
var ErrNoLogo = errors.New("provider has no logo")

// store is the persistence the service needs; *Repository satisfies it.
type store interface {
	GetByID(ctx context.Context, id string) (*Provider, error)
	UpdateLogo(ctx context.Context, id, ref string) error
}

// Logo describes a provider's logo as rendered for clients.
type Logo struct {
	Reference    string `json:"reference"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Presence     string `json:"presence"`
	Bytes        int64  `json:"bytes"`
}

// Service contains the logo lifecycle of providers.
type Service struct {
	repo   store
	images *storage.CloudinaryStorage
	thumbs *storage.CloudinaryStorage
	logger *slog.Logger
}

// NewService creates a new provider Service. images renders full-size URLs;
// thumbnails use its thumbnail variant.
func NewService(repo store, images *storage.CloudinaryStorage, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		images: images,
		thumbs: images.Thumbnail(),
		logger: logger.With("component", "provider"),
	}
}

// GetByID returns a provider by its UUID.
func (s *Service) GetByID(ctx context.Context, id string) (*Provider, error) {
	return s.repo.GetByID(ctx, id)
}

// Logo renders the logo of a provider and probes the hosted resource.
func (s *Service) Logo(ctx context.Context, id string) (*Logo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, p.Logo), nil
}

// ReplaceLogo uploads a new logo, stores its reference and then removes the
// previous hosted image. If persisting fails the fresh upload is removed again.
func (s *Service) ReplaceLogo(ctx context.Context, id, filename string, content io.Reader) (*Logo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ref, err := s.images.Save(ctx, filename, content)
	if err != nil {
		return nil, fmt.Errorf("save logo: %w", err)
	}

	if err := s.repo.UpdateLogo(ctx, id, ref); err != nil {
		s.images.Delete(ctx, ref)
		return nil, fmt.Errorf("store logo reference: %w", err)
	}

	if p.Logo != "" && p.Logo != ref {
		s.images.Delete(ctx, p.Logo)
	}
	s.logger.Info("logo replaced", "provider_id", id, "ref", ref, "previous", p.Logo)

	return s.describe(ctx, ref), nil
}

// RemoveLogo clears the logo reference and deletes the hosted image.
func (s *Service) RemoveLogo(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Logo == "" {
		return ErrNoLogo
	}
	if err := s.repo.UpdateLogo(ctx, id, ""); err != nil {
		return fmt.Errorf("clear logo reference: %w", err)
	}
	s.images.Delete(ctx, p.Logo)
	s.logger.Info("logo removed", "provider_id", id, "ref", p.Logo)
	return nil
}

// IsNotFound returns true when the error indicates a provider was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func (s *Service) describe(ctx context.Context, ref string) *Logo {
	probe := s.images.Probe(ctx, ref)
	if probe.Presence == storage.PresenceUnknown {
		s.logger.Debug("logo probe failed", "ref", ref, "error", probe.Err)
	}
	return &Logo{
		Reference:    ref,
		URL:          s.images.URL(ref),
		ThumbnailURL: s.thumbs.URL(ref),
		Presence:     probe.Presence.String(),
		Bytes:        probe.Bytes,
	}
}
