// Package s3store provides an airdrive store backed directly by AWS S3 (or a
// compatible service), using the AWS SDK for Go v2.
//
// Unlike the "s3" store in the blobstore package, this store deletes many
// objects with batched DeleteObjects requests, so it's a better fit for
// drives holding large numbers of files.
//
// # Usage
//
// Call New with an "aws+s3" URL, or register Provider with an
// airdrive.StoreMux:
//
//	aws+s3://bucket/prefix/?region=eu-west-1
//
// The supported query parameters are:
//
//   - region - the AWS region (default: from the environment)
//   - endpoint - a custom endpoint, for S3-compatible services
//   - use_path_style (or s3ForcePathStyle) - use path-style addressing
//   - disable_https (or disableSSL) - use http for an endpoint given without
//     a scheme
//
// AWS_S3_ENDPOINT is used when no endpoint is given, and AWS_ANON=true sends
// unsigned requests. Credentials are otherwise found the usual way for the
// AWS SDK.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/hairyhenderson/go-airdrive"
	"github.com/hairyhenderson/go-airdrive/internal/env"
)

// Scheme is the URL scheme handled by this store.
const Scheme = "aws+s3"

// maxDeleteObjects is the most keys a single DeleteObjects request may name
const maxDeleteObjects = 1000

type s3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ airdrive.Store = (*s3Store)(nil)

// New opens a store for the bucket named by u's host, with keys prefixed by
// u's path.
func New(ctx context.Context, u *url.URL) (airdrive.Store, error) {
	return newStore(ctx, u, http.DefaultClient, os.DirFS("/"))
}

// Provider is used to register this store with an airdrive.StoreMux
//
//nolint:gochecknoglobals
var Provider = airdrive.StoreProviderFunc(New, Scheme)

// HTTPClientProvider returns a provider whose stores make requests with the
// given client.
func HTTPClientProvider(client *http.Client) airdrive.StoreProvider {
	return airdrive.StoreProviderFunc(func(ctx context.Context, u *url.URL) (airdrive.Store, error) {
		return newStore(ctx, u, client, os.DirFS("/"))
	}, Scheme)
}

func newStore(ctx context.Context, u *url.URL, hclient *http.Client, envfs fs.FS) (*s3Store, error) {
	if u.Scheme != Scheme {
		return nil, fmt.Errorf("invalid URL scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("no bucket named in URL %q", u.String())
	}

	client, err := newClient(ctx, u.Query(), hclient, envfs)
	if err != nil {
		return nil, err
	}

	prefix := strings.TrimPrefix(u.Path, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &s3Store{client: client, bucket: u.Host, prefix: prefix}, nil
}

func newClient(ctx context.Context, q url.Values, hclient *http.Client, envfs fs.FS) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	opts := []func(*s3.Options){
		func(opts *s3.Options) {
			opts.HTTPClient = hclient
		},
	}

	if env.GetenvFS(envfs, "AWS_ANON") == "true" {
		opts = append(opts, func(opts *s3.Options) {
			opts.Credentials = aws.AnonymousCredentials{}
		})
	}

	// override Region if present in query
	if region := q.Get("region"); region != "" {
		opts = append(opts, func(opts *s3.Options) {
			opts.Region = region
		})
	}

	if boolParam(q, "use_path_style", "s3ForcePathStyle") {
		opts = append(opts, func(opts *s3.Options) {
			opts.UsePathStyle = true
		})
	}

	endpoint := q.Get("endpoint")
	if endpoint == "" {
		endpoint = env.GetenvFS(envfs, "AWS_S3_ENDPOINT")
	}

	if endpoint != "" {
		endpoint = endpointURL(endpoint, boolParam(q, "disable_https", "disableSSL"))

		opts = append(opts, func(opts *s3.Options) {
			opts.BaseEndpoint = aws.String(endpoint)
		})
	}

	return s3.NewFromConfig(cfg, opts...), nil
}

// boolParam reports whether any of the named query parameters is "true"
func boolParam(q url.Values, names ...string) bool {
	for _, n := range names {
		if q.Get(n) == "true" {
			return true
		}
	}

	return false
}

// endpointURL adds a scheme to a bare host[:port] endpoint
func endpointURL(endpoint string, insecure bool) string {
	u, err := url.Parse(endpoint)
	if err == nil && u.Scheme != "" && u.Host != "" {
		return endpoint
	}

	if insecure {
		return "http://" + endpoint
	}

	return "https://" + endpoint
}

func (s *s3Store) Put(ctx context.Context, key string, data []byte) error {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.prefix + key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}

	if ct := airdrive.ContentType(key); ct != "" {
		in.ContentType = aws.String(ct)
	}

	_, err := s.client.PutObject(ctx, in)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	return nil
}

func (s *s3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if isNotFound(err) {
		return nil, &fs.PathError{Op: "get", Path: key, Err: airdrive.ErrNotExist}
	}

	if err != nil {
		return nil, &fs.PathError{Op: "get", Path: key, Err: err}
	}

	return out.Body, nil
}

func (s *s3Store) List(ctx context.Context) ([]string, error) {
	keys := []string{}

	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}

		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if key == "" || strings.HasSuffix(key, "/") {
				// "directory" placeholders made by other tools
				continue
			}

			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Delete - S3 reports success for missing keys
func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// DeleteMany deletes keys in batches of up to 1000 per request.
func (s *s3Store) DeleteMany(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += maxDeleteObjects {
		end := min(start+maxDeleteObjects, len(keys))

		if err := s.deleteBatch(ctx, keys[start:end]); err != nil {
			return err
		}
	}

	return nil
}

func (s *s3Store) deleteBatch(ctx context.Context, keys []string) error {
	objs := make([]types.ObjectIdentifier, len(keys))
	for i, k := range keys {
		objs[i] = types.ObjectIdentifier{Key: aws.String(s.prefix + k)}
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objs, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("delete %d objects: %w", len(keys), err)
	}

	errs := make([]error, 0, len(out.Errors))

	for _, e := range out.Errors {
		if aws.ToString(e.Code) == "NoSuchKey" {
			continue
		}

		errs = append(errs, fmt.Errorf("delete %s: %s: %s",
			strings.TrimPrefix(aws.ToString(e.Key), s.prefix),
			aws.ToString(e.Code), aws.ToString(e.Message)))
	}

	return errors.Join(errs...)
}

func (s *s3Store) Close() error {
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
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
