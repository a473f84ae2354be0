package tracestore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hairyhenderson/go-airdrive"
	"github.com/hairyhenderson/go-airdrive/blobstore"
	"github.com/hairyhenderson/go-airdrive/internal/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

//nolint:gochecknoglobals
var (
	exporter = tracetest.NewInMemoryExporter()
	tp       = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
)

func attribmap(kvs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs))

	for _, attr := range kvs {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}

	return m
}

func spanNames(spans tracetest.SpanStubs) []string {
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name
	}

	return names
}

func newMemStore(t *testing.T) airdrive.Store {
	t.Helper()

	s, err := blobstore.New(context.Background(), tests.MustURL("mem://"+t.Name()+"/"))
	require.NoError(t, err)

	return s
}

func TestTraceStore_PutGet(t *testing.T) {
	ctx := context.Background()

	exporter.Reset()

	s := New(newMemStore(t), WithTracerProvider(tp))

	require.NoError(t, s.Put(ctx, "foo/bar", []byte("hello")))

	r, err := s.Get(ctx, "foo/bar")
	require.NoError(t, err)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	require.NoError(t, r.Close())

	spans := exporter.GetSpans()
	assert.Equal(t, []string{"store.Put", "store.Get", "object.Close"}, spanNames(spans))

	assert.Equal(t, map[string]interface{}{
		"store.type":  "*blobstore.blobStore",
		"store.key":   "foo/bar",
		"object.size": int64(5),
	}, attribmap(spans[0].Attributes))
	assert.Equal(t, map[string]interface{}{
		"store.type":        "*blobstore.blobStore",
		"store.key":         "foo/bar",
		"object.bytes_read": int64(5),
	}, attribmap(spans[2].Attributes))

	// the close span is a child of the get span
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[2].Parent.SpanID())
}

func TestTraceStore_GetMissing(t *testing.T) {
	ctx := context.Background()

	exporter.Reset()

	s := New(newMemStore(t), WithTracerProvider(tp))

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, airdrive.ErrNotExist)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Len(t, spans[0].Events, 1)
}

func TestTraceStore_ListDelete(t *testing.T) {
	ctx := context.Background()
	s := New(newMemStore(t), WithTracerProvider(tp))

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(ctx, k, []byte(k)))
	}

	exporter.Reset()

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, keys)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.DeleteMany(ctx, []string{"b", "c"}))
	require.NoError(t, s.Close())

	spans := exporter.GetSpans()
	assert.Equal(t, []string{"store.List", "store.Delete", "store.DeleteMany", "store.Close"}, spanNames(spans))

	assert.Equal(t, map[string]interface{}{
		"store.type":      "*blobstore.blobStore",
		"store.key_count": int64(3),
	}, attribmap(spans[0].Attributes))
	assert.Equal(t, "a", attribmap(spans[1].Attributes)["store.key"])
	assert.Equal(t, int64(2), attribmap(spans[2].Attributes)["store.key_count"])
	assert.Equal(t, codes.Unset, spans[3].Status.Code)
}

func TestOpener(t *testing.T) {
	ctx := context.Background()

	exporter.Reset()

	mux := airdrive.NewMux()
	mux.Add(blobstore.Provider)

	o := Opener(mux, WithTracerProvider(tp))

	s, err := o.Open(ctx, "mem://"+t.Name(), "d1")
	require.NoError(t, err)
	assert.IsType(t, &traceStore{}, s)

	_, err = s.List(ctx)
	require.NoError(t, err)

	spans := exporter.GetSpans()
	assert.Equal(t, []string{"store.Open", "store.List"}, spanNames(spans))
	assert.Equal(t, map[string]interface{}{
		"store.drive": "d1",
		"store.type":  "*blobstore.blobStore",
	}, attribmap(spans[0].Attributes))

	exporter.Reset()

	failing := airdrive.OpenerFunc(func(context.Context, string, string) (airdrive.Store, error) {
		return nil, errors.New("boom")
	})

	_, err = Opener(failing, WithTracerProvider(tp)).Open(ctx, "whatever", "d2")
	require.Error(t, err)

	spans = exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, map[string]interface{}{"store.drive": "d2"}, attribmap(spans[0].Attributes))
}

func TestDriveWithTracing(t *testing.T) {
	ctx := context.Background()

	mux := airdrive.NewMux()
	mux.Add(blobstore.Provider)

	exporter.Reset()

	d, err := airdrive.Create(ctx, Opener(mux, WithTracerProvider(tp)), "mem://"+t.Name(), "d1", airdrive.WithSilent(true))
	require.NoError(t, err)

	b, err := d.Cache(ctx, airdrive.SentinelName)
	require.NoError(t, err)
	assert.Equal(t, []byte(" "), b)

	assert.Equal(t,
		[]string{"store.Open", "store.List", "store.Put", "store.Get", "object.Close"},
		spanNames(exporter.GetSpans()))
}
