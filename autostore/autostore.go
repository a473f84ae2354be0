// Package autostore provides the ability to look up all stores supported by
// this module. Using this package will compile a great many dependencies into
// the resulting binary, so unless you need to support all supported stores,
// use airdrive.NewMux instead.
package autostore

import (
	"context"
	"net/url"
	"sync"

	"github.com/hairyhenderson/go-airdrive"
	"github.com/hairyhenderson/go-airdrive/blobstore"
	"github.com/hairyhenderson/go-airdrive/s3store"
)

// Lookup returns an appropriate store for the given URL.
// If a store can't be found for the provided URL's scheme, an error will
// be returned.
func Lookup(ctx context.Context, u string) (airdrive.Store, error) {
	return Mux().Lookup(ctx, u)
}

// Mux returns a StoreMux with every store in this module registered. It is
// also an airdrive.Opener, suitable for airdrive.Create and airdrive.Login.
func Mux() airdrive.StoreMux {
	return initMux()
}

// Provider is used to register all stores with an airdrive.StoreMux
//
//nolint:gochecknoglobals
var Provider = &autoStore{}

type autoStore struct{}

var _ airdrive.StoreProvider = (*autoStore)(nil)

func (c *autoStore) Schemes() []string {
	return initMux().Schemes()
}

func (c *autoStore) New(ctx context.Context, u *url.URL) (airdrive.Store, error) {
	return initMux().New(ctx, u)
}

//nolint:gochecknoglobals
var initMux = sync.OnceValue(func() airdrive.StoreMux {
	mux := airdrive.NewMux()
	mux.Add(blobstore.Provider)
	mux.Add(s3store.Provider)

	return mux
})
