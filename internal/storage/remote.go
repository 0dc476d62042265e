package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrRemoteNotFound is returned by a Remote when the resource does not exist.
var ErrRemoteNotFound = errors.New("remote resource not found")

// UploadRequest describes a single image upload.
type UploadRequest struct {
	PublicID string // identifier without folder
	Folder   string
	Format   string // empty lets the remote detect it
}

// Asset is the subset of remote resource metadata the service uses.
type Asset struct {
	PublicID string
	Format   string
	Bytes    int64
	Width    int
	Height   int
}

// Remote is the hosted image API. Implementations must return an error
// wrapping ErrRemoteNotFound for missing resources.
type Remote interface {
	Upload(ctx context.Context, content io.Reader, req UploadRequest) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
	Asset(ctx context.Context, publicID string) (Asset, error)
	// ListAssets returns up to limit image assets whose public id starts with prefix.
	ListAssets(ctx context.Context, prefix string, limit int) ([]Asset, error)
	// ImageURL builds a secure delivery URL; an empty transformation yields the original.
	ImageURL(publicID string, t Transformation) (string, error)
}

// maxPageSize is the largest page the admin listing endpoint serves.
const maxPageSize = 500

var _ Remote = (*CloudinaryRemote)(nil)

// CloudinaryRemote implements Remote with the Cloudinary Go SDK.
type CloudinaryRemote struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryRemote creates a client from explicit credentials. Empty
// credentials are accepted; every call will then fail remotely.
func NewCloudinaryRemote(cloudName, apiKey, apiSecret string) (*CloudinaryRemote, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	cld.Config.URL.Analytics = false
	return &CloudinaryRemote{cld: cld}, nil
}

// Upload sends content as an image under req.Folder/req.PublicID without overwriting.
func (r *CloudinaryRemote) Upload(ctx context.Context, content io.Reader, req UploadRequest) (Asset, error) {
	res, err := r.cld.Upload.Upload(ctx, content, uploader.UploadParams{
		PublicID:       req.PublicID,
		Folder:         req.Folder,
		Format:         req.Format,
		ResourceType:   string(api.Image),
		Overwrite:      api.Bool(false),
		UniqueFilename: api.Bool(false),
		UseFilename:    api.Bool(false),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("upload %q: %w", req.PublicID, err)
	}
	if res.Error.Message != "" {
		return Asset{}, fmt.Errorf("upload %q: %w", req.PublicID, remoteError(res.Error.Message))
	}
	return Asset{
		PublicID: res.PublicID,
		Format:   res.Format,
		Bytes:    int64(res.Bytes),
		Width:    res.Width,
		Height:   res.Height,
	}, nil
}

// Destroy deletes the image and invalidates CDN caches.
func (r *CloudinaryRemote) Destroy(ctx context.Context, publicID string) error {
	res, err := r.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: string(api.Image),
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("destroy %q: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy %q: %w", publicID, remoteError(res.Error.Message))
	}
	if res.Result == "not found" {
		return fmt.Errorf("destroy %q: %w", publicID, ErrRemoteNotFound)
	}
	return nil
}

// Asset fetches metadata for a single image.
func (r *CloudinaryRemote) Asset(ctx context.Context, publicID string) (Asset, error) {
	res, err := r.cld.Admin.Asset(ctx, admin.AssetParams{
		AssetType: api.Image,
		PublicID:  publicID,
	})
	if err != nil {
		return Asset{}, fmt.Errorf("asset %q: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return Asset{}, fmt.Errorf("asset %q: %w", publicID, remoteError(res.Error.Message))
	}
	return Asset{
		PublicID: res.PublicID,
		Format:   res.Format,
		Bytes:    int64(res.Bytes),
		Width:    res.Width,
		Height:   res.Height,
	}, nil
}

// ListAssets pages through uploaded images under prefix.
func (r *CloudinaryRemote) ListAssets(ctx context.Context, prefix string, limit int) ([]Asset, error) {
	var (
		out    []Asset
		cursor string
	)
	for limit <= 0 || len(out) < limit {
		page := maxPageSize
		if limit > 0 && limit-len(out) < page {
			page = limit - len(out)
		}
		res, err := r.cld.Admin.Assets(ctx, listParams(prefix, page, cursor))
		if err != nil {
			return nil, fmt.Errorf("list assets %q: %w", prefix, err)
		}
		if res.Error.Message != "" {
			return nil, fmt.Errorf("list assets %q: %w", prefix, remoteError(res.Error.Message))
		}
		for _, a := range res.Assets {
			out = append(out, Asset{
				PublicID: a.PublicID,
				Format:   a.Format,
				Bytes:    int64(a.Bytes),
				Width:    a.Width,
				Height:   a.Height,
			})
		}
		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}
	return out, nil
}

// listParams selects one page of uploaded images under prefix.
func listParams(prefix string, page int, cursor string) admin.AssetsParams {
	return admin.AssetsParams{
		AssetType:    api.Image,
		DeliveryType: string(api.Upload),
		Prefix:       prefix,
		MaxResults:   page,
		NextCursor:   cursor,
	}
}

// ImageURL renders a delivery URL. No network call is made.
func (r *CloudinaryRemote) ImageURL(publicID string, t Transformation) (string, error) {
	img, err := r.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("image %q: %w", publicID, err)
	}
	img.Transformation = t.String()
	u, err := img.String()
	if err != nil {
		return "", fmt.Errorf("build url %q: %w", publicID, err)
	}
	return u, nil
}

// remoteError turns an API error message into an error, tagging not-found
// responses so callers can match them with errors.Is.
func remoteError(msg string) error {
	if strings.Contains(strings.ToLower(msg), "not found") {
		return fmt.Errorf("%w: %s", ErrRemoteNotFound, msg)
	}
	return errors.New(msg)
}
