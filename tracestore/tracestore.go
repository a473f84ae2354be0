// Package tracestore instruments an airdrive store for distributed tracing.
// The OpenTelemetry API is supported.
//
// This is not a store implementation, but rather a wrapper around an existing
// store. As such, it does not implement the [airdrive.StoreProvider]
// interface.
//
// # Usage
//
// Call [New] with a store, or [Opener] with an [airdrive.Opener]. Every
// operation on the returned store gets its own span, started from the context
// given to the operation.
//
// In order to report traces, an OTel [trace.TracerProvider] must first be set
// up. The airdrive command in this repository shows one approach. A provider
// can optionally be passed with [WithTracerProvider].
package tracestore

import (
	"context"
	"fmt"
	"io"

	"github.com/hairyhenderson/go-airdrive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/hairyhenderson/go-airdrive/tracestore"

type traceStore struct {
	store  airdrive.Store
	tracer trace.Tracer
	typ    string
}

var _ airdrive.Store = (*traceStore)(nil)

// New returns a store that instruments the given store, adding a trace span
// for each operation.
func New(store airdrive.Store, opts ...Option) airdrive.Store {
	return newTraceStore(store, tracer(opts))
}

func newTraceStore(store airdrive.Store, tracer trace.Tracer) *traceStore {
	return &traceStore{store: store, tracer: tracer, typ: fmt.Sprintf("%T", store)}
}

func tracer(opts []Option) trace.Tracer {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.tp == nil {
		cfg.tp = otel.GetTracerProvider()
	}

	return cfg.tp.Tracer(tracerName)
}

// Opener returns an opener which instruments the opening of each store, as
// well as the stores it opens.
func Opener(o airdrive.Opener, opts ...Option) airdrive.Opener {
	t := tracer(opts)

	return airdrive.OpenerFunc(func(ctx context.Context, credential, drive string) (airdrive.Store, error) {
		_, span := t.Start(ctx, "store.Open", trace.WithAttributes(Drive(drive)))
		defer span.End()

		// the credential may well be a secret, so it's never recorded
		store, err := o.Open(ctx, credential, drive)
		if err != nil {
			return nil, recordError(span, err)
		}

		span.SetAttributes(Type(fmt.Sprintf("%T", store)))

		return newTraceStore(store, t), nil
	})
}

func (s *traceStore) start(ctx context.Context, name string, key string) (context.Context, trace.Span) {
	opts := trace.WithAttributes(Type(s.typ))
	if key != "" {
		opts = trace.WithAttributes(Type(s.typ), Key(key))
	}

	return s.tracer.Start(ctx, name, opts)
}

func (s *traceStore) Put(ctx context.Context, key string, data []byte) error {
	ctx, span := s.start(ctx, "store.Put", key)
	defer span.End()

	span.SetAttributes(Size(len(data)))

	return recordError(span, s.store.Put(ctx, key, data))
}

func (s *traceStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, span := s.start(ctx, "store.Get", key)
	defer span.End()

	rc, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, recordError(span, err)
	}

	return &traceReader{ctx: ctx, rc: rc, s: s, key: key}, nil
}

func (s *traceStore) List(ctx context.Context) ([]string, error) {
	ctx, span := s.start(ctx, "store.List", "")
	defer span.End()

	keys, err := s.store.List(ctx)

	span.SetAttributes(KeyCount(len(keys)))

	return keys, recordError(span, err)
}

func (s *traceStore) Delete(ctx context.Context, key string) error {
	ctx, span := s.start(ctx, "store.Delete", key)
	defer span.End()

	return recordError(span, s.store.Delete(ctx, key))
}

func (s *traceStore) DeleteMany(ctx context.Context, keys []string) error {
	ctx, span := s.start(ctx, "store.DeleteMany", "")
	defer span.End()

	span.SetAttributes(KeyCount(len(keys)))

	return recordError(span, s.store.DeleteMany(ctx, keys))
}

func (s *traceStore) Close() error {
	_, span := s.start(context.Background(), "store.Close", "")
	defer span.End()

	return recordError(span, s.store.Close())
}

// traceReader counts the bytes read from an object, and reports them in a
// span when closed
type traceReader struct {
	ctx  context.Context
	rc   io.ReadCloser
	s    *traceStore
	key  string
	read int64
}

func (r *traceReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	r.read += int64(n)

	return n, err
}

func (r *traceReader) Close() error {
	_, span := r.s.start(r.ctx, "object.Close", r.key)
	defer span.End()

	span.SetAttributes(BytesRead(r.read))

	return recordError(span, r.rc.Close())
}

// recordError records the given error on the span, and returns it, marking
// the span as failed.
func recordError(span trace.Span, err error) error {
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
