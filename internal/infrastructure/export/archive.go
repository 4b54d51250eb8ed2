package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"stationery/pkg/logger"
)

// ArchiveConfig configures the S3-compatible archive bucket.
type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string
}

// Archive copies generated files into a bucket.
type Archive struct {
	client *minio.Client
	bucket string
	prefix string
	log    *logger.Logger
}

// NewArchive connects to the bucket, creating it when missing.
func NewArchive(ctx context.Context, cfg ArchiveConfig, log *logger.Logger) (*Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	if log == nil {
		log = logger.Nop()
	}
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		log:    log.WithComponent("archive"),
	}, nil
}

// ObjectName places name under <prefix>/<YYYY/MM/DD>/.
func ObjectName(prefix, name string, at time.Time) string {
	return path.Join(prefix, at.Format("2006/01/02"), name)
}

// Put stores data under name and returns the object key.
func (a *Archive) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := ObjectName(a.prefix, name, time.Now().UTC())
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	a.log.WithContext(ctx).Infow("export archived", "bucket", a.bucket, "key", key, "bytes", len(data))
	return key, nil
}
