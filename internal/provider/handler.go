package provider

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nextslot/media-service/internal/response"
	"github.com/nextslot/media-service/internal/storage"
)

// maxLogoBytes caps the multipart body accepted for a logo upload.
const maxLogoBytes = 10 << 20

// Handler holds HTTP handlers for provider logo endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new provider Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetLogo godoc
//
//	@Summary		Get provider logo
//	@Description	Returns the stored logo reference with its display and thumbnail URLs.
//	@Tags			providers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Provider ID"
//	@Success		200	{object}	response.Envelope{data=Logo}
//	@Failure		401	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/providers/{id}/logo [get]
func (h *Handler) GetLogo(w http.ResponseWriter, r *http.Request) {
	logo, err := h.svc.Logo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, logo)
}

// UploadLogo godoc
//
//	@Summary		Upload provider logo
//	@Description	Uploads an image (jpg, png, gif, webp, svg) and replaces the current logo.
//	@Tags			providers
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Provider ID"
//	@Param			logo	formData	file	true	"Logo image"
//	@Success		201		{object}	response.Envelope{data=Logo}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		502		{object}	response.Envelope
//	@Router			/providers/{id}/logo [post]
func (h *Handler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes)
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		response.BadRequest(w, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		response.BadRequest(w, "logo file is required")
		return
	}
	defer file.Close()

	content := storage.WithContentType(file, header.Header.Get("Content-Type"))
	logo, err := h.svc.ReplaceLogo(r.Context(), chi.URLParam(r, "id"), header.Filename, content)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, logo)
}

// DeleteLogo godoc
//
//	@Summary	Remove provider logo
//	@Tags		providers
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Provider ID"
//	@Success	204
//	@Failure	404	{object}	response.Envelope
//	@Router		/providers/{id}/logo [delete]
func (h *Handler) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveLogo(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var uploadErr *storage.UploadError
	switch {
	case h.svc.IsNotFound(err):
		response.NotFound(w, "provider not found")
	case errors.Is(err, ErrNoLogo):
		response.NotFound(w, "provider has no logo")
	case errors.As(err, &uploadErr):
		response.BadGateway(w, "image upload failed")
	default:
		response.InternalError(w)
	}
}
