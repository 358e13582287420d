package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"ft-go/internal/config"
	"ft-go/internal/ft"
)

// s3Getter is the subset of *s3.Client used to read snapshots.
type s3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Uploader is the subset of *manager.Uploader used to write snapshots.
type s3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Store keeps each snapshot as the object <prefix>/<key>.json. A PUT replaces
// an object atomically, so readers never observe a partial snapshot.
type S3Store struct {
	getter   s3Getter
	uploader s3Uploader
	bucket   string
	prefix   string
}

var _ ft.SnapshotStore = (*S3Store)(nil)

// NewS3Store builds an S3 client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
// A custom endpoint switches to path-style addressing for S3-compatible servers.
func NewS3Store(ctx context.Context, cfg config.SnapshotConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("s3 snapshot store requires s3_bucket to be set")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, manager.NewUploader(client), cfg.S3Bucket, cfg.S3Prefix), nil
}

func newS3Store(getter s3Getter, uploader s3Uploader, bucket, prefix string) *S3Store {
	return &S3Store{getter: getter, uploader: uploader, bucket: bucket, prefix: prefix}
}

func (s *S3Store) objectKey(key string) string {
	return path.Join(s.prefix, key+".json")
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.getter.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot object: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot object: %w", err)
	}
	return nil
}

func (s *S3Store) Close() error { return nil }

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
