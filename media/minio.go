package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type minioPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioOptions configures a self-hosted MinIO bucket.
type MinioOptions struct {
	Endpoint  string // host:port
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
	PublicURL string
	Folder    string
}

// MinioStorage writes media objects to MinIO
type MinioStorage struct {
	client minioPutter
	bucket string
	naming objectNaming
	logger *zap.SugaredLogger
}

// NewMinioStorage connects to MinIO and creates the bucket if it doesn't exist
func NewMinioStorage(ctx context.Context, opts MinioOptions, logger *zap.SugaredLogger) (*MinioStorage, error) {
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("minio storage requires an endpoint and a bucket")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check minio bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("failed to create minio bucket %s: %w", opts.Bucket, err)
		}
		logger.Infow("created minio bucket", "bucket", opts.Bucket)
	}

	publicBase := opts.PublicURL
	if publicBase == "" {
		publicBase = client.EndpointURL().String() + "/" + opts.Bucket
	}

	logger.Infow("initialized minio media storage", "endpoint", opts.Endpoint, "bucket", opts.Bucket)
	return &MinioStorage{
		client: client,
		bucket: opts.Bucket,
		naming: objectNaming{folder: opts.Folder, publicBase: publicBase, now: time.Now},
		logger: logger,
	}, nil
}

func (ms *MinioStorage) Kind() RefKind { return RefRemote }

func (ms *MinioStorage) Name() string { return "minio" }

func (ms *MinioStorage) Save(ctx context.Context, upload Upload) (Ref, error) {
	key := ms.naming.key(upload.Name)

	size := upload.Size
	if size <= 0 {
		size = -1 // unknown length, streamed in parts
	}
	info, err := ms.client.PutObject(ctx, ms.bucket, key, upload.Body, size, minio.PutObjectOptions{
		ContentType: contentType(upload),
	})
	if err != nil {
		return Ref{}, fmt.Errorf("minio put of %s failed: %w", key, err)
	}

	ms.logger.Infow("uploaded media", "backend", ms.Name(), "key", info.Key, "bytes", info.Size, "original", upload.Name)
	return Ref{Kind: RefRemote, Value: ms.naming.publicURL(key)}, nil
}
