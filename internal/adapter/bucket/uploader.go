// Package bucket publishes artifacts to an S3-compatible bucket.
package bucket

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/couchcryptid/levee-files/internal/domain"
	"github.com/couchcryptid/levee-files/internal/output"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the bucket connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Secure    bool
}

type objectPutter interface {
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Uploader stores each artifact as <prefix>/<name>. It implements
// pipeline.Loader.
type Uploader struct {
	client objectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// New creates an Uploader backed by a minio client.
func New(cfg Config, logger *slog.Logger) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &Uploader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, logger: logger}, nil
}

// ObjectName returns the key an artifact named name is stored under.
func (u *Uploader) ObjectName(name string) string {
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// Load uploads doc with its content type.
func (u *Uploader) Load(ctx context.Context, doc output.Document) error {
	key := u.ObjectName(doc.Name())
	data := doc.Bytes()
	info, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: doc.ContentType(),
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w: %w", u.bucket, key, domain.ErrEmitterWrite, err)
	}
	u.logger.Debug("artifact uploaded", "bucket", u.bucket, "key", key, "etag", info.ETag)
	return nil
}
