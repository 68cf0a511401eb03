package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/avetrov/filedrop/internal/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Store implements BlobStore over an S3-compatible backend (AWS S3, MinIO).
// The handle is immutable after construction and safe for concurrent use.
type S3Store struct {
	client   *s3.Client
	endpoint string
}

// NewS3Store builds the shared store client from static credentials and a
// base endpoint. Path-style addressing is used so bucket names do not have
// to resolve as DNS labels (MinIO-style deployments).
func NewS3Store(ctx context.Context, accessKey, secretKey, region, baseEndpoint string) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(baseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{client: client, endpoint: baseEndpoint}, nil
}

func (s *S3Store) EnsureContainer(ctx context.Context, container string) error {
	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(container),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *S3Store) PutObject(ctx context.Context, container, name string, content io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(name),
		Body:   content,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return s.GetLocator(container, name), nil
}

func (s *S3Store) ListObjects(ctx context.Context, container string) ObjectIterator {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(container),
	})
	return &s3Iterator{paginator: paginator}
}

func (s *S3Store) Exists(ctx context.Context, container, name string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(name),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return true, nil
}

// GetLocator constructs the object's URL from the configured endpoint. With
// path-style addressing the locator is <endpoint>/<container>/<escaped key>.
func (s *S3Store) GetLocator(container, name string) string {
	base := strings.TrimRight(s.endpoint, "/")
	return base + "/" + container + "/" + url.PathEscape(name)
}

func (s *S3Store) DeleteObject(ctx context.Context, container, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// s3Iterator walks ListObjectsV2 pages one at a time. A returned error is
// sticky: further Next calls keep failing with it.
type s3Iterator struct {
	paginator *s3.ListObjectsV2Paginator
	buf       []types.Object
	err       error
}

func (it *s3Iterator) Next(ctx context.Context) (ObjectInfo, bool, error) {
	for len(it.buf) == 0 {
		if it.err != nil {
			return ObjectInfo{}, false, it.err
		}
		if !it.paginator.HasMorePages() {
			return ObjectInfo{}, false, nil
		}
		page, err := it.paginator.NextPage(ctx)
		if err != nil {
			it.err = fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
			return ObjectInfo{}, false, it.err
		}
		it.buf = page.Contents
	}

	obj := it.buf[0]
	it.buf = it.buf[1:]

	return ObjectInfo{
		Name:         aws.ToString(obj.Key),
		LastModified: aws.ToTime(obj.LastModified),
	}, true, nil
}
