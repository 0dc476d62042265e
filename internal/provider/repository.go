// Package provider manages service providers: their logos and custom-domain DNS targets.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Provider is a tenant of the booking application.
type Provider struct {
	ID               string    `json:"id"`
	BusinessName     string    `json:"businessName"`
	Slug             string    `json:"slug"` // unique_booking_url
	Logo             string    `json:"logo"` // stored reference, "" when none
	CustomDomain     string    `json:"customDomain,omitempty"`
	CustomDomainType string    `json:"customDomainType,omitempty"`
	DomainVerified   bool      `json:"domainVerified"`
	SSLEnabled       bool      `json:"sslEnabled"`
	CNAMETarget      string    `json:"cnameTarget,omitempty"`
	TXTRecordName    string    `json:"txtRecordName,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a provider does not exist.
var ErrNotFound = errors.New("provider not found")

// providerColumns matches scanProvider. Text columns the booking application
// leaves NULL are read as "".
const providerColumns = `id, business_name, unique_booking_url,
	COALESCE(logo, ''), COALESCE(custom_domain, ''), COALESCE(custom_domain_type, ''),
	domain_verified, ssl_enabled,
	COALESCE(cname_target, ''), COALESCE(txt_record_name, ''), created_at, updated_at`

// Repository handles all provider database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetByID fetches a provider by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Provider, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+providerColumns+` FROM service_providers WHERE id = $1`, id)
	p, err := scanProvider(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get provider by id: %w", err)
	}
	return p, nil
}

// ListWithLogo returns every provider that has a logo reference.
func (r *Repository) ListWithLogo(ctx context.Context) ([]Provider, error) {
	return r.list(ctx, "list providers with logo",
		`SELECT `+providerColumns+` FROM service_providers
		 WHERE logo <> '' ORDER BY business_name`)
}

// ListWithCustomDomain returns every provider with a non-empty custom domain.
func (r *Repository) ListWithCustomDomain(ctx context.Context) ([]Provider, error) {
	return r.list(ctx, "list providers with custom domain",
		`SELECT `+providerColumns+` FROM service_providers
		 WHERE custom_domain IS NOT NULL AND custom_domain <> '' ORDER BY business_name`)
}

// UpdateLogo stores a new logo reference ("" clears it).
func (r *Repository) UpdateLogo(ctx context.Context, id, ref string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE service_providers SET logo = $2, updated_at = NOW() WHERE id = $1`, id, ref)
	if err != nil {
		return fmt.Errorf("update logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDNSTargets stores the CNAME target and TXT record name of a provider.
func (r *Repository) UpdateDNSTargets(ctx context.Context, id, cnameTarget, txtRecordName string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE service_providers
		 SET cname_target = $2, txt_record_name = $3, updated_at = NOW()
		 WHERE id = $1`,
		id, cnameTarget, txtRecordName)
	if err != nil {
		return fmt.Errorf("update dns targets: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, op, query string) ([]Provider, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanProvider(row pgx.Row) (*Provider, error) {
	p := &Provider{}
	err := row.Scan(&p.ID, &p.BusinessName, &p.Slug, &p.Logo,
		&p.CustomDomain, &p.CustomDomainType, &p.DomainVerified, &p.SSLEnabled,
		&p.CNAMETarget, &p.TXTRecordName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
