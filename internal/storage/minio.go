package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ Remote = (*MinioRemote)(nil)

// MinioRemote implements Remote on a MinIO (or any S3-compatible) bucket for
// local development without a Cloudinary account. Objects are keyed by their
// full public id. Delivery URLs point at the original object; transformations
// are not applied.
type MinioRemote struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioRemote creates a MinIO client, ensures the bucket exists with a
// public-read policy, and returns a ready-to-use MinioRemote.
func NewMinioRemote(ctx context.Context, endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool, logger *slog.Logger) (*MinioRemote, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		logger.Info("created storage bucket", "bucket", bucket)
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioRemote{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload streams content to folder/publicID. Existing objects are never overwritten.
func (m *MinioRemote) Upload(ctx context.Context, content io.Reader, req UploadRequest) (Asset, error) {
	key := objectKey(req.Folder, req.PublicID)

	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err == nil {
		return Asset{}, fmt.Errorf("upload %q: object already exists", key)
	} else if !isNoSuchKey(err) {
		return Asset{}, fmt.Errorf("upload %q: %w", key, err)
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, content, -1, minio.PutObjectOptions{
		ContentType: contentTypeFor(req.Format),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("put object %q: %w", key, err)
	}
	return Asset{PublicID: key, Format: req.Format, Bytes: info.Size}, nil
}

// Destroy removes the object. S3 deletes are idempotent, so presence is checked first.
func (m *MinioRemote) Destroy(ctx context.Context, publicID string) error {
	if _, err := m.Asset(ctx, publicID); err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", publicID, err)
	}
	return nil
}

// Asset stats the object.
func (m *MinioRemote) Asset(ctx context.Context, publicID string) (Asset, error) {
	info, err := m.client.StatObject(ctx, m.bucket, publicID, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return Asset{}, fmt.Errorf("stat object %q: %w", publicID, ErrRemoteNotFound)
		}
		return Asset{}, fmt.Errorf("stat object %q: %w", publicID, err)
	}
	return objectAsset(info), nil
}

// ListAssets lists objects under prefix, stopping after limit when limit > 0.
func (m *MinioRemote) ListAssets(ctx context.Context, prefix string, limit int) ([]Asset, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out []Asset
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects %q: %w", prefix, obj.Err)
		}
		out = append(out, objectAsset(obj))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// ImageURL returns the public object URL. The transformation is ignored.
func (m *MinioRemote) ImageURL(publicID string, _ Transformation) (string, error) {
	if publicID == "" {
		return "", errors.New("empty public id")
	}
	return m.publicBase + "/" + publicID, nil
}

func objectKey(folder, publicID string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return publicID
	}
	return folder + "/" + publicID
}

func objectAsset(info minio.ObjectInfo) Asset {
	return Asset{
		PublicID: info.Key,
		Format:   formatFromContentType(info.ContentType),
		Bytes:    info.Size,
	}
}

func contentTypeFor(format string) string {
	switch format {
	case "":
		return "application/octet-stream"
	case "jpg":
		return "image/jpeg"
	case "svg":
		return "image/svg+xml"
	default:
		return "image/" + format
	}
}

func formatFromContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/svg+xml":
		return "svg"
	}
	if f := strings.TrimPrefix(contentType, "image/"); f != contentType && isAllowedFormat(f) {
		return f
	}
	return ""
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
