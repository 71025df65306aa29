// Package s3source loads message bundles from an S3-compatible bucket.
//
// Objects under the configured prefix follow the same layout as a bundle
// directory on disk:
//
//	<prefix>/messages            default bundle
//	<prefix>/messages.fr         bundle for fr
//	<prefix>/fr/errors.yaml      keys "errors.*" for fr
//
// Objects that do not match the layout are ignored.
package s3source

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// maxObjectSize caps a single bundle object.
const maxObjectSize = 4 << 20

// Client is the subset of *s3.Client used by Source.
type Client interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config holds connection settings for NewFromConfig.
type Config struct {
	// Bucket is the bucket name (required).
	Bucket string

	// Prefix is the key prefix bundles live under, without a trailing slash.
	Prefix string

	// Region is the AWS region (default: us-east-1).
	Region string

	// Endpoint is a custom endpoint for MinIO and other S3-compatible services.
	Endpoint string

	AccessKey string
	SecretKey string

	// PathStyle enables path-style addressing (required for MinIO).
	PathStyle bool
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	c.Prefix = strings.Trim(c.Prefix, "/")
}

func (c Config) validate() error {
	if c.Bucket == "" {
		return errors.Join(ErrInvalidConfig, errors.New("bucket is required"))
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return errors.Join(ErrInvalidConfig, errors.New("access key and secret key must be set together"))
	}
	return nil
}

// Source is an i18n.Source reading bundle objects from a bucket.
type Source struct {
	client Client
	bucket string
	prefix string
}

// New creates a Source over an existing client.
func New(client Client, bucket, prefix string) (*Source, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if bucket == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("bucket is required"))
	}
	return &Source{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// NewFromConfig builds an S3 client from cfg and wraps it in a Source.
func NewFromConfig(cfg Config) (*Source, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			if cfg.AccessKey != "" {
				o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
			}
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return New(s3.New(s3.Options{}, opts...), cfg.Bucket, cfg.Prefix)
}

// Name implements i18n.Source.
func (s *Source) Name() string {
	if s.prefix == "" {
		return "s3:" + s.bucket
	}
	return "s3:" + s.bucket + "/" + s.prefix
}

// Load implements i18n.Source. Every object is decoded; the load fails if
// any bundle object is malformed.
func (s *Source) Load(ctx context.Context) ([]i18n.Bundle, error) {
	keys, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	var (
		bundles []i18n.Bundle
		errs    []error
	)
	for _, key := range keys {
		rel := strings.TrimPrefix(strings.TrimPrefix(key, s.prefix), "/")
		if !i18n.IsBundleFile(rel) {
			continue
		}

		data, err := s.read(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		b, _, err := i18n.BundleFromFile(rel, data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.Source = s.Name() + ":" + rel
		bundles = append(bundles, b)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return bundles, nil
}

// list returns the bundle object keys under the prefix, sorted so that
// override order is deterministic.
func (s *Source) list(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}

	var keys []string
	p := s3.NewListObjectsV2Paginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error(err, ErrListFailed)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)
	return keys, nil
}

func (s *Source) read(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrReadFailed)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	if len(data) > maxObjectSize {
		return nil, errors.Join(ErrReadFailed, errors.New(key+": object exceeds size limit"))
	}
	return data, nil
}
