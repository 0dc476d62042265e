package domains

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nextslot/media-service/internal/provider"
)

// Store is the provider persistence the syncer needs; *provider.Repository satisfies it.
type Store interface {
	ListWithCustomDomain(ctx context.Context) ([]provider.Provider, error)
	UpdateDNSTargets(ctx context.Context, id, cnameTarget, txtRecordName string) error
}

// Result is the outcome of syncing one provider.
type Result struct {
	Provider provider.Provider
	Targets  Targets
	Updated  []string // columns that changed, empty when already up to date
	Err      error    // set when the slug is unusable
}

// Syncer writes computed DNS targets back to provider records.
type Syncer struct {
	store  Store
	namer  Namer
	logger *slog.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(store Store, namer Namer, logger *slog.Logger) *Syncer {
	return &Syncer{store: store, namer: namer, logger: logger.With("component", "domains")}
}

// Sync computes targets for every provider with a custom domain and persists
// the ones that changed. With dryRun nothing is written but Updated is still
// reported. A provider with an unusable slug is reported and skipped.
func (s *Syncer) Sync(ctx context.Context, dryRun bool) ([]Result, error) {
	providers, err := s.store.ListWithCustomDomain(ctx)
	if err != nil {
		return nil, fmt.Errorf("load providers: %w", err)
	}

	results := make([]Result, 0, len(providers))
	for _, p := range providers {
		res := Result{Provider: p}

		targets, err := s.namer.Targets(p.Slug)
		if err != nil {
			res.Err = fmt.Errorf("provider %s (%q): %w", p.ID, p.Slug, err)
			s.logger.Warn("skipping provider", "provider_id", p.ID, "slug", p.Slug, "error", err)
			results = append(results, res)
			continue
		}
		res.Targets = targets

		res.Updated = changedFields(p, targets)

		if len(res.Updated) > 0 && !dryRun {
			if err := s.store.UpdateDNSTargets(ctx, p.ID, targets.CNAMETarget, targets.TXTRecordName); err != nil {
				return results, fmt.Errorf("update provider %s: %w", p.ID, err)
			}
			s.logger.Info("dns targets updated", "provider_id", p.ID, "fields", res.Updated)
		}
		results = append(results, res)
	}
	return results, nil
}

// changedFields lists the provider columns that differ from targets.
func changedFields(p provider.Provider, targets Targets) []string {
	var fields []string
	if p.CNAMETarget != targets.CNAMETarget {
		fields = append(fields, "cname_target")
	}
	if p.TXTRecordName != targets.TXTRecordName {
		fields = append(fields, "txt_record_name")
	}
	return fields
}
