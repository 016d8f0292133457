package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/windrose-io/windrose/pkg/errors"
)

// S3API is the subset of the S3 client the source uses. Tests inject a
// fake implementation.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Options configures the S3 client.
type S3Options struct {
	// Region is the AWS region for the bucket
	Region string
	// Endpoint is an optional custom endpoint (for MinIO, LocalStack, etc.)
	Endpoint string
	// UsePathStyle enables path-style addressing (required for MinIO)
	UsePathStyle bool
}

// S3Object is a random-access view of one S3 object. Ranged GetObject
// requests implement ReaderAt, so S3 inputs work with the parallel
// strategy exactly like local files.
type S3Object struct {
	// ctx carries the run's lifetime into ReadAt, whose io.ReaderAt
	// signature has no context parameter of its own.
	ctx    context.Context
	client S3API
	bucket string
	key    string
	size   int64
}

// ParseS3URL splits an s3://bucket/key URL.
func ParseS3URL(url string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(url, "s3://")
	if !ok {
		return "", "", errors.Newf(errors.ErrorTypeConfig, "not an s3 URL: %s", url)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", errors.Newf(errors.ErrorTypeConfig, "s3 URL must be s3://bucket/key, got %s", url)
	}
	return bucket, key, nil
}

// OpenS3 opens an S3 object as a random-access source.
func OpenS3(ctx context.Context, bucket, key string, opts S3Options) (*S3Object, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to load AWS config")
	}

	var s3Opts []func(*s3.Options)
	if opts.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		})
	}
	if opts.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewS3ObjectWithClient(ctx, s3.NewFromConfig(awsCfg, s3Opts...), bucket, key)
}

// NewS3ObjectWithClient opens an S3 object with a pre-configured client.
// The object size is fetched once via HeadObject.
func NewS3ObjectWithClient(ctx context.Context, client S3API, bucket, key string) (*S3Object, error) {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to head S3 object").
			WithDetail("bucket", bucket).
			WithDetail("key", key)
	}
	if head.ContentLength == nil {
		return nil, errors.New(errors.ErrorTypeIO, "S3 object has no content length").
			WithDetail("bucket", bucket).
			WithDetail("key", key)
	}

	return &S3Object{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		key:    key,
		size:   *head.ContentLength,
	}, nil
}

// ReadAt implements io.ReaderAt via a ranged GetObject request.
func (o *S3Object) ReadAt(p []byte, off int64) (int, error) {
	if off >= o.size {
		return 0, io.EOF
	}

	want := int64(len(p))
	if off+want > o.size {
		want = o.size - off
	}
	if want == 0 {
		return 0, nil
	}

	// HTTP ranges are inclusive on both ends.
	rng := fmt.Sprintf("bytes=%d-%d", off, off+want-1)
	out, err := o.client.GetObject(o.ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
		Range:  aws.String(rng),
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeIO, "ranged S3 read failed").
			WithDetail("bucket", o.bucket).
			WithDetail("key", o.key).
			WithDetail("range", rng)
	}
	defer out.Body.Close()

	n, err := io.ReadFull(out.Body, p[:want])
	if err != nil {
		return n, errors.Wrap(err, errors.ErrorTypeIO, "short S3 range body").
			WithDetail("range", rng)
	}
	if int64(n) < int64(len(p)) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the object length in bytes.
func (o *S3Object) Size() int64 {
	return o.size
}

// Close is a no-op; the S3 client holds no per-object resources.
func (o *S3Object) Close() error {
	return nil
}
