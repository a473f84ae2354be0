package airdrive

import (
	"context"
	"net/url"
	"testing"

	"github.com/hairyhenderson/go-airdrive/internal/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreMux(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	fn := func(_ context.Context, _ *url.URL) (Store, error) { return store, nil }
	sp := StoreProviderFunc(fn, "foo", "bar")
	sp2 := StoreProviderFunc(fn, "baz", "qux")

	m := NewMux()

	_, err := m.Lookup(ctx, ":bogus/url")
	require.Error(t, err)

	_, err = m.Lookup(ctx, "foo:///")
	require.Error(t, err)

	m.Add(sp)
	m.Add(sp2)

	actual, err := m.Lookup(ctx, "foo:///")
	require.NoError(t, err)
	assert.Same(t, store, actual)

	actual, err = m.Lookup(ctx, "qux:///")
	require.NoError(t, err)
	assert.Same(t, store, actual)

	_, err = m.Lookup(ctx, "file:///")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scheme "file"`)

	assert.Equal(t, []string{"bar", "baz", "foo", "qux"}, m.Schemes())

	actual, err = m.New(ctx, tests.MustURL("bar:///"))
	require.NoError(t, err)
	assert.Same(t, store, actual)
}

func TestStoreMux_Open(t *testing.T) {
	ctx := context.Background()

	var got *url.URL

	m := NewMux()
	m.Add(StoreProviderFunc(func(_ context.Context, u *url.URL) (Store, error) {
		got = u

		return newMemStore(), nil
	}, "mem"))

	_, err := m.Open(ctx, "mem://bucket/prefix", "d1")
	require.NoError(t, err)
	assert.Equal(t, "mem://bucket/prefix/d1/", got.String())

	_, err = m.Open(ctx, "mem://bucket?region=x", "d1")
	require.NoError(t, err)
	assert.Equal(t, "mem://bucket/d1/?region=x", got.String())

	_, err = m.Open(ctx, "not a url", "d1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = m.Open(ctx, ":bogus", "d1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	got = nil

	for _, drive := range []string{"", ".", "..", "../other", "a/b"} {
		_, err = m.Open(ctx, "mem://bucket/drives", drive)
		require.ErrorIs(t, err, ErrInvalidParameter, "drive=%q", drive)
	}

	assert.Nil(t, got)

	// unregistered schemes are a plain error
	_, err = m.Open(ctx, "nope://bucket", "d1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestDriveURL(t *testing.T) {
	testdata := []struct {
		base, drive, expected string
	}{
		{"s3://bucket", "d1", "s3://bucket/d1/"},
		{"s3://bucket/", "d1", "s3://bucket/d1/"},
		{"s3://bucket/a/b/", "d1", "s3://bucket/a/b/d1/"},
		{"s3://bucket/a?region=eu-west-1", "d1", "s3://bucket/a/d1/?region=eu-west-1"},
		{"mem://", "d1", "mem:///d1/"},
		{"mem://bucket", "", "mem://bucket/"},
		{"file:///tmp/drives", "d1", "file:///tmp/drives/d1/"},
	}

	for _, d := range testdata {
		base := tests.MustURL(d.base)
		assert.Equal(t, d.expected, DriveURL(base, d.drive).String(), "base=%s drive=%s", d.base, d.drive)
		assert.Equal(t, d.base, base.String(), "base must not be modified")
	}
}
