package domains

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nextslot/media-service/internal/provider"
	"github.com/nextslot/media-service/internal/response"
)

// ProviderGetter loads a single provider.
type ProviderGetter interface {
	GetByID(ctx context.Context, id string) (*provider.Provider, error)
}

// Handler serves the DNS setup sheet of a provider.
type Handler struct {
	providers ProviderGetter
	namer     Namer
	ttl       int
}

// NewHandler creates a new domains Handler.
func NewHandler(providers ProviderGetter, namer Namer, ttl int) *Handler {
	return &Handler{providers: providers, namer: namer, ttl: ttl}
}

type dnsData struct {
	CustomDomain   string  `json:"customDomain"`
	DomainVerified bool    `json:"domainVerified"`
	Targets        Targets `json:"targets"`
	Stored         Targets `json:"stored"`
	InSync         bool    `json:"inSync"`
	TTL            int     `json:"ttl"`
	Instructions   string  `json:"instructions"`
}

// GetDNS godoc
//
//	@Summary		Get custom domain DNS records
//	@Description	Returns the CNAME and TXT records the provider must create for its custom domain.
//	@Tags			providers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Provider ID"
//	@Success		200	{object}	response.Envelope{data=dnsData}
//	@Failure		404	{object}	response.Envelope
//	@Failure		422	{object}	response.Envelope
//	@Router			/providers/{id}/dns [get]
func (h *Handler) GetDNS(w http.ResponseWriter, r *http.Request) {
	p, err := h.providers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			response.NotFound(w, "provider not found")
			return
		}
		response.InternalError(w)
		return
	}
	if p.CustomDomain == "" {
		response.NotFound(w, "provider has no custom domain")
		return
	}

	targets, err := h.namer.Targets(p.Slug)
	if err != nil {
		response.UnprocessableEntity(w, err.Error())
		return
	}

	stored := Targets{CNAMETarget: p.CNAMETarget, TXTRecordName: p.TXTRecordName}
	res := Result{Provider: *p, Targets: targets, Updated: changedFields(*p, targets)}

	var buf bytes.Buffer
	if err := WriteInstructions(&buf, []Result{res}, Sheet{Base: h.namer.Base, TTL: h.ttl}); err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, dnsData{
		CustomDomain:   p.CustomDomain,
		DomainVerified: p.DomainVerified,
		Targets:        targets,
		Stored:         stored,
		InSync:         stored == targets,
		TTL:            h.ttl,
		Instructions:   buf.String(),
	})
}
