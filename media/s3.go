package media

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type s3Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3 (or S3-compatible) bucket.
type S3Options struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string // optional custom endpoint, path-style addressing is used when set
	PublicURL string // optional base for object URLs, e.g. a CDN
	Folder    string
}

// S3Storage writes media objects with the AWS SDK
type S3Storage struct {
	client s3Putter
	bucket string
	naming objectNaming
	logger *zap.SugaredLogger
}

func NewS3Storage(ctx context.Context, opts S3Options, logger *zap.SugaredLogger) (*S3Storage, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires a bucket")
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := opts.PublicURL
	if publicBase == "" {
		if opts.Endpoint != "" {
			publicBase = opts.Endpoint + "/" + opts.Bucket
		} else {
			publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}

	logger.Infow("initialized s3 media storage", "bucket", opts.Bucket, "region", opts.Region, "endpoint", opts.Endpoint)
	return &S3Storage{
		client: client,
		bucket: opts.Bucket,
		naming: objectNaming{folder: opts.Folder, publicBase: publicBase, now: time.Now},
		logger: logger,
	}, nil
}

func (ss *S3Storage) Kind() RefKind { return RefRemote }

func (ss *S3Storage) Name() string { return "s3" }

func (ss *S3Storage) Save(ctx context.Context, upload Upload) (Ref, error) {
	key := ss.naming.key(upload.Name)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        upload.Body,
		ContentType: aws.String(contentType(upload)),
	}
	if upload.Size > 0 {
		input.ContentLength = aws.Int64(upload.Size)
	}

	if _, err := ss.client.PutObject(ctx, input); err != nil {
		return Ref{}, fmt.Errorf("s3 put of %s failed: %w", key, err)
	}

	ss.logger.Infow("uploaded media", "backend", ss.Name(), "key", key, "original", upload.Name)
	return Ref{Kind: RefRemote, Value: ss.naming.publicURL(key)}, nil
}
