package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hairyhenderson/go-airdrive"
	"github.com/hairyhenderson/go-airdrive/internal/env"
	"gocloud.dev/blob"
	"gocloud.dev/blob/azureblob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
	"gocloud.dev/gcp"
)

type blobStore struct {
	bucket *blob.Bucket
	// closer releases the bucket - a no-op for shared mem buckets
	closer func() error
}

var _ airdrive.Store = (*blobStore)(nil)

// New opens a store backed by the bucket named in u, scoped to the key prefix
// given by the URL's path.
func New(ctx context.Context, u *url.URL) (airdrive.Store, error) {
	o := &opener{hclient: http.DefaultClient, envfs: os.DirFS("/")}

	return o.open(ctx, u)
}

// Provider is used to register this store with an airdrive.StoreMux
//
//nolint:gochecknoglobals
var Provider = airdrive.StoreProviderFunc(New, Schemes()...)

// HTTPClientProvider returns a provider whose stores make requests with the
// given client, where the underlying service allows it (currently "gs").
func HTTPClientProvider(client *http.Client) airdrive.StoreProvider {
	o := &opener{hclient: client, envfs: os.DirFS("/")}

	return airdrive.StoreProviderFunc(o.open, Schemes()...)
}

// Schemes returns the URL schemes supported by this package.
func Schemes() []string {
	return []string{
		s3blob.Scheme, gcsblob.Scheme, azureblob.Scheme,
		fileblob.Scheme, memblob.Scheme,
	}
}

type opener struct {
	hclient *http.Client
	envfs   fs.FS
}

func (o *opener) open(ctx context.Context, u *url.URL) (airdrive.Store, error) {
	var (
		bucket *blob.Bucket
		closer func() error
		err    error
	)

	prefix := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case s3blob.Scheme, azureblob.Scheme, gcsblob.Scheme:
		bucket, err = o.openBucket(ctx, u)
	case fileblob.Scheme:
		bucket, err = openDir(u)
		prefix = ""
	case memblob.Scheme:
		bucket = memBucket(u.Host)
		closer = func() error { return nil }
	default:
		return nil, fmt.Errorf("invalid URL scheme %q", u.Scheme)
	}

	if err != nil {
		return nil, err
	}

	if prefix != "" {
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}

		// closing a prefixed bucket also closes the one it wraps
		bucket = blob.PrefixedBucket(bucket, prefix)
	}

	if closer == nil {
		closer = bucket.Close
	}

	return &blobStore{bucket: bucket, closer: closer}, nil
}

func (o *opener) openBucket(ctx context.Context, u *url.URL) (*blob.Bucket, error) {
	bo, err := o.newOpener(ctx, u.Scheme)
	if err != nil {
		return nil, fmt.Errorf("bucket opener: %w", err)
	}

	cu := o.cleanCdkURL(*u)
	cu.Path = ""

	bucket, err := bo.OpenBucketURL(ctx, &cu)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}

	return bucket, nil
}

// create the correct kind of blob.BucketURLOpener for the given scheme
func (o *opener) newOpener(ctx context.Context, scheme string) (blob.BucketURLOpener, error) {
	switch scheme {
	case gcsblob.Scheme:
		if env.GetenvFS(o.envfs, "GOOGLE_ANON") == "true" {
			return &gcsblob.URLOpener{
				Client: gcp.NewAnonymousHTTPClient(o.hclient.Transport),
			}, nil
		}

		creds, err := gcp.DefaultCredentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve GCP credentials: %w", err)
		}

		client, err := gcp.NewHTTPClient(
			o.hclient.Transport,
			gcp.CredentialsTokenSource(creds))
		if err != nil {
			return nil, fmt.Errorf("failed to create GCP HTTP client: %w", err)
		}

		return &gcsblob.URLOpener{Client: client}, nil
	case s3blob.Scheme, azureblob.Scheme:
		// see https://gocloud.dev/concepts/urls/#muxes
		return blob.DefaultURLMux(), nil
	default:
		return nil, fmt.Errorf("unsupported scheme: %s", scheme)
	}
}

// copy/sanitize the URL for the Go CDK - it doesn't like params it can't parse
func (o *opener) cleanCdkURL(u url.URL) url.URL {
	switch u.Scheme {
	case s3blob.Scheme:
		return o.cleanS3URL(u)
	case gcsblob.Scheme:
		return cleanParams(u, "access_id", "private_key_path")
	case azureblob.Scheme:
		return cleanParams(u, "domain", "protocol", "localemu")
	default:
		return u
	}
}

func cleanParams(u url.URL, allowed ...string) url.URL {
	q := u.Query()

	for param := range q {
		keep := false

		for _, a := range allowed {
			if param == a {
				keep = true

				break
			}
		}

		if !keep {
			q.Del(param)
		}
	}

	u.RawQuery = q.Encode()

	return u
}

// openDir opens the local directory named by a file URL's path, creating it
// first if needed
func openDir(u *url.URL) (*blob.Bucket, error) {
	dir := filepath.FromSlash(u.Path)
	if dir == "" {
		return nil, fmt.Errorf("file URL %q has no path", u.String())
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}

	return bucket, nil
}

//nolint:gochecknoglobals
var memBuckets sync.Map

func memBucket(name string) *blob.Bucket {
	if b, ok := memBuckets.Load(name); ok {
		return b.(*blob.Bucket)
	}

	b, _ := memBuckets.LoadOrStore(name, memblob.OpenBucket(nil))

	return b.(*blob.Bucket)
}

func (s *blobStore) Put(ctx context.Context, key string, data []byte) error {
	// an empty content type is detected by the CDK
	opts := &blob.WriterOptions{ContentType: airdrive.ContentType(key)}

	err := s.bucket.WriteAll(ctx, key, data, opts)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	return nil
}

func (s *blobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, &fs.PathError{Op: "get", Path: key, Err: airdrive.ErrNotExist}
	}

	if err != nil {
		return nil, &fs.PathError{Op: "get", Path: key, Err: err}
	}

	return r, nil
}

func (s *blobStore) List(ctx context.Context) ([]string, error) {
	keys := []string{}
	iter := s.bucket.List(nil)

	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			return keys, nil
		}

		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}

		if obj.IsDir {
			continue
		}

		keys = append(keys, obj.Key)
	}
}

func (s *blobStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}

	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// DeleteMany deletes keys one at a time, since the Go CDK has no batch delete
func (s *blobStore) DeleteMany(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}

	return nil
}

func (s *blobStore) Close() error {
	return s.closer()
}
