package airdrive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"
)

// memStore is an in-memory Store which keeps keys in insertion order
type memStore struct {
	objects map[string][]byte
	calls   map[string]int
	order   []string
	mu      sync.Mutex
	closed  bool
}

var _ Store = (*memStore)(nil)

func newMemStore(keys ...string) *memStore {
	s := &memStore{objects: map[string][]byte{}, calls: map[string]int{}}
	for _, k := range keys {
		_ = s.Put(context.Background(), k, []byte(k))
	}

	s.calls = map[string]int{}

	return s
}

func (s *memStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["put"]++

	if _, ok := s.objects[key]; !ok {
		s.order = append(s.order, key)
	}

	s.objects[key] = bytes.Clone(data)

	return nil
}

func (s *memStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["get"]++

	b, ok := s.objects[key]
	if !ok {
		return nil, &fs.PathError{Op: "get", Path: key, Err: ErrNotExist}
	}

	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["list"]++

	return append([]string{}, s.order...), nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["delete"]++
	s.remove(key)

	return nil
}

func (s *memStore) DeleteMany(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls["deleteMany"]++

	for _, k := range keys {
		s.remove(k)
	}

	return nil
}

func (s *memStore) remove(key string) {
	if _, ok := s.objects[key]; !ok {
		return
	}

	delete(s.objects, key)

	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}
}

func (s *memStore) Close() error {
	s.closed = true

	return nil
}

func (s *memStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string{}, s.order...)
}

// errStore fails every operation with err
type errStore struct {
	err error
}

var _ Store = (*errStore)(nil)

func (s *errStore) Put(context.Context, string, []byte) error { return s.err }
func (s *errStore) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, s.err
}
func (s *errStore) List(context.Context) ([]string, error)     { return nil, s.err }
func (s *errStore) Delete(context.Context, string) error       { return s.err }
func (s *errStore) DeleteMany(context.Context, []string) error { return s.err }
func (s *errStore) Close() error                               { return nil }

var errBoom = errors.New("boom")

// memOpener hands out one memStore per drive name
type memOpener struct {
	stores map[string]*memStore
}

func newMemOpener() *memOpener {
	return &memOpener{stores: map[string]*memStore{}}
}

func (o *memOpener) Open(_ context.Context, _, drive string) (Store, error) {
	s, ok := o.stores[drive]
	if !ok {
		s = newMemStore()
		o.stores[drive] = s
	}

	return s, nil
}
