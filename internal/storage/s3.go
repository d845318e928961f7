package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/iliyamo/vidtube/internal/config"
)

// s3API is the subset of *s3.Client the store uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps assets in an S3-compatible bucket (AWS, MinIO, R2).
type S3Store struct {
	client    s3API
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewS3Store builds a store from configuration. Static credentials are
// used when an access key is configured, otherwise the default AWS
// credential chain applies. A custom endpoint switches to path-style
// addressing.
func NewS3Store(ctx context.Context, c config.S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, c), nil
}

func newS3Store(client s3API, c config.S3Config) *S3Store {
	base := strings.TrimRight(c.PublicURL, "/")
	if base == "" {
		if c.Endpoint != "" {
			base = strings.TrimRight(c.Endpoint, "/") + "/" + c.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
		}
	}
	return &S3Store{client: client, bucket: c.Bucket, publicURL: base, now: time.Now}
}

// Upload stores a under a fresh key in folder.
func (s *S3Store) Upload(ctx context.Context, folder string, a Asset) (UploadResult, error) {
	if a.Body == nil || a.Size == 0 {
		return UploadResult{}, ErrEmptyAsset
	}
	key := storageKey(folder, a.Name, a.ContentType, s.now().UTC())
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          a.Body,
		ContentLength: aws.Int64(a.Size),
	}
	if a.ContentType != "" {
		in.ContentType = aws.String(a.ContentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return UploadResult{}, fmt.Errorf("put object %s: %w", key, err)
	}
	return UploadResult{URL: s.publicURL + "/" + key, PublicID: key}, nil
}

// Destroy deletes the object stored under publicID. A missing object is
// reported as ResultNotFound rather than an error.
func (s *S3Store) Destroy(ctx context.Context, publicID string) (DestroyResult, error) {
	if publicID == "" {
		return DestroyResult{Result: ResultNotFound}, nil
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return DestroyResult{Result: ResultNotFound}, nil
		}
		return DestroyResult{}, fmt.Errorf("head object %s: %w", publicID, err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	}); err != nil {
		return DestroyResult{}, fmt.Errorf("delete object %s: %w", publicID, err)
	}
	return DestroyResult{Result: ResultOK}, nil
}
