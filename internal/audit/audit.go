// Package audit cross-checks logo references stored in the database against
// the images actually hosted by the image backend.
package audit

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/nextslot/media-service/internal/provider"
	"github.com/nextslot/media-service/internal/storage"
)

// LogoSource loads providers and their logo references.
type LogoSource interface {
	GetByID(ctx context.Context, id string) (*provider.Provider, error)
	ListWithLogo(ctx context.Context) ([]provider.Provider, error)
}

// Finding is the audit result for one provider logo.
type Finding struct {
	Provider provider.Provider
	PublicID string
	Found    bool
	URL      string
	Similar  []string // hosted ids resembling a missing reference
}

// Report is the outcome of Run.
type Report struct {
	Prefix   string
	Hosted   []storage.Asset
	Findings []Finding
	ListErr  error // set when the hosted images could not be listed
}

// Missing returns the findings whose image is not hosted.
func (r *Report) Missing() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if !f.Found {
			out = append(out, f)
		}
	}
	return out
}

// Inspection describes how a single provider logo resolves.
type Inspection struct {
	Provider    provider.Provider
	PublicID    string
	URL         string
	OriginalURL string
	Probe       storage.Probe
}

// Auditor compares hosted images with stored references.
type Auditor struct {
	remote storage.Remote
	images *storage.CloudinaryStorage
	logos  LogoSource
}

// New creates an Auditor.
func New(remote storage.Remote, images *storage.CloudinaryStorage, logos LogoSource) *Auditor {
	return &Auditor{remote: remote, images: images, logos: logos}
}

// Run lists up to limit hosted images under prefix (the storage folder when
// empty) and checks every provider logo against them. A listing failure is
// recorded on the report and every logo is reported missing.
func (a *Auditor) Run(ctx context.Context, prefix string, limit int) (*Report, error) {
	if prefix == "" {
		prefix = a.images.Folder() + "/"
	}
	report := &Report{Prefix: prefix}

	hosted, err := a.remote.ListAssets(ctx, prefix, limit)
	if err != nil {
		report.ListErr = err
	}
	report.Hosted = hosted

	ids := make(map[string]bool, len(hosted))
	for _, asset := range hosted {
		ids[asset.PublicID] = true
	}

	providers, err := a.logos.ListWithLogo(ctx)
	if err != nil {
		return nil, fmt.Errorf("load providers with logo: %w", err)
	}

	for _, p := range providers {
		f := Finding{Provider: p, PublicID: a.images.PublicID(p.Logo)}
		if ids[f.PublicID] {
			f.Found = true
			f.URL = a.images.URL(p.Logo)
		} else {
			f.Similar = similar(f.PublicID, hosted)
		}
		report.Findings = append(report.Findings, f)
	}
	return report, nil
}

// Inspect resolves the logo of one provider.
func (a *Auditor) Inspect(ctx context.Context, providerID string) (*Inspection, error) {
	p, err := a.logos.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return &Inspection{
		Provider:    *p,
		PublicID:    a.images.PublicID(p.Logo),
		URL:         a.images.URL(p.Logo),
		OriginalURL: a.images.OriginalURL(p.Logo),
		Probe:       a.images.Probe(ctx, p.Logo),
	}, nil
}

// similar returns hosted ids containing the search term of publicID: its base
// name up to the first underscore, compared case-insensitively.
func similar(publicID string, hosted []storage.Asset) []string {
	term := strings.ToLower(path.Base(publicID))
	if i := strings.IndexByte(term, '_'); i >= 0 {
		term = term[:i]
	}
	if term == "" || term == "." {
		return nil
	}
	var out []string
	for _, asset := range hosted {
		if strings.Contains(strings.ToLower(asset.PublicID), term) {
			out = append(out, asset.PublicID)
		}
	}
	sort.Strings(out)
	return out
}
