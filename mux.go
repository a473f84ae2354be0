package airdrive

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"sort"
)

// StoreMux allows you to dynamically look up a registered store for a given
// URL. All stores provided in this module can be registered, and additional
// stores can be registered given an implementation of StoreProvider.
// StoreMux is itself a StoreProvider, which provides the superset of all
// registered stores, and an Opener, which treats the credential as a store URL.
type StoreMux map[string]func(context.Context, *url.URL) (Store, error)

var (
	_ StoreProvider = (StoreMux)(nil)
	_ Opener        = (StoreMux)(nil)
)

// NewMux returns a StoreMux ready for use.
func NewMux() StoreMux {
	return StoreMux(map[string]func(context.Context, *url.URL) (Store, error){})
}

// Add registers the given store provider for its supported URL schemes. If
// any of its schemes are already registered, they will be overridden.
func (m StoreMux) Add(p StoreProvider) {
	for _, scheme := range p.Schemes() {
		m[scheme] = p.New
	}
}

// Lookup returns an appropriate store for the given URL. Use Add to register
// providers.
func (m StoreMux) Lookup(ctx context.Context, u string) (Store, error) {
	base, err := url.Parse(u)
	if err != nil {
		return nil, err
	}

	return m.New(ctx, base)
}

// Schemes - implements StoreProvider
func (m StoreMux) Schemes() []string {
	schemes := make([]string, 0, len(m))
	for scheme := range m {
		schemes = append(schemes, scheme)
	}

	sort.Strings(schemes)

	return schemes
}

// New - implements StoreProvider
func (m StoreMux) New(ctx context.Context, u *url.URL) (Store, error) {
	f, ok := m[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("no store registered for scheme %q", u.Scheme)
	}

	return f(ctx, u)
}

// Open - implements Opener. The credential must be an absolute store URL; the
// drive name is appended to its path (see DriveURL).
func (m StoreMux) Open(ctx context.Context, credential, drive string) (Store, error) {
	if !validDriveName(drive) {
		return nil, &Error{Kind: ErrInvalidParameter, Op: "open", Path: drive, Msg: "drive name must be a single path segment"}
	}

	base, err := url.Parse(credential)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidCredentials, Op: "open", Path: drive, Err: err}
	}

	if base.Scheme == "" {
		return nil, &Error{Kind: ErrInvalidCredentials, Op: "open", Path: drive, Msg: "credential is not a store URL"}
	}

	return m.New(ctx, DriveURL(base, drive))
}

// DriveURL returns a copy of base with the drive name appended to its path.
// The resulting path always starts and ends with a '/', so that it can be used
// directly as a key prefix.
func DriveURL(base *url.URL, drive string) *url.URL {
	u := *base

	p := path.Join("/", u.Path, drive)
	if p != "/" {
		p += "/"
	}

	u.Path = p
	u.RawPath = ""

	return &u
}

// StoreProvider provides a store for a set of defined schemes
type StoreProvider interface {
	// Schemes returns the valid URL schemes for this store
	Schemes() []string

	// New returns a store from the given URL
	New(ctx context.Context, u *url.URL) (Store, error)
}

// StoreProviderFunc -
func StoreProviderFunc(f func(context.Context, *url.URL) (Store, error), schemes ...string) StoreProvider {
	return sp{f, schemes}
}

type sp struct {
	newFunc func(context.Context, *url.URL) (Store, error)
	schemes []string
}

func (p sp) Schemes() []string {
	return p.schemes
}

func (p sp) New(ctx context.Context, u *url.URL) (Store, error) {
	return p.newFunc(ctx, u)
}
