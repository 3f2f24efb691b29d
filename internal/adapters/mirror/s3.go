// Package mirror replicates published build records to remote stores and
// composes them with the local store into a single repository.
package mirror

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/domain"
)

// S3Store implements ports.MetadataRepository on an S3 bucket. Records live
// at records/<uuid>/build.yaml.
type S3Store struct {
	client *s3.Client
	bucket string
}

// S3Options configure the bucket connection. Endpoint is optional and
// switches the client to path-style addressing, for S3-compatible stores.
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Store creates an S3Store. With an explicit key pair the store uses
// static credentials; otherwise they come from the default AWS provider
// chain.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load AWS config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: opts.Bucket}, nil
}

// Publish uploads rec's canonical serialization. Identical re-publishes are
// no-ops; divergent content under an existing uuid fails with
// domain.ErrRecordConflict.
func (s *S3Store) Publish(ctx context.Context, rec *domain.RepeatableBuild) error {
	data, err := rec.Canonical()
	if err != nil {
		return err
	}

	key := recordKey(rec.UUID)
	existing, err := s.download(ctx, key)
	switch {
	case err == nil:
		if !bytes.Equal(existing, data) {
			return zerr.With(domain.ErrRecordConflict, "uuid", rec.UUID)
		}
		return nil
	case !isNoSuchKey(err):
		return zerr.Wrap(err, "failed to check existing build record")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/yaml"),
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to upload build record"), "bucket", s.bucket)
	}
	return nil
}

// Get downloads and parses a previously published record.
func (s *S3Store) Get(ctx context.Context, uuid string) (*domain.RepeatableBuild, error) {
	data, err := s.download(ctx, recordKey(uuid))
	if err != nil {
		if isNoSuchKey(err) {
			return nil, zerr.With(domain.ErrRecordNotFound, "uuid", uuid)
		}
		return nil, zerr.Wrap(err, "failed to download build record")
	}
	return domain.ParseRepeatable(data)
}

func (s *S3Store) download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func recordKey(uuid string) string {
	return "records/" + uuid + "/build.yaml"
}

func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}
