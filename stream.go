package airdrive

import (
	"errors"
	"io"
	"iter"
)

// DefaultChunkSize is the size of the chunks read from the store by
// Drive.Download and Drive.Cache, unless overridden with WithChunkSize.
const DefaultChunkSize = 1024

// Stream is an open object in a drive. It is read sequentially, either as a
// plain io.Reader or chunk by chunk with Chunks. Streams can't be rewound.
type Stream struct {
	rc   io.ReadCloser
	name string
}

var _ io.ReadCloser = (*Stream)(nil)

// Name returns the key the stream was opened for.
func (s *Stream) Name() string {
	return s.name
}

func (s *Stream) Read(p []byte) (int, error) {
	return s.rc.Read(p)
}

func (s *Stream) Close() error {
	return s.rc.Close()
}

// Chunks returns an iterator over the remaining content of the stream, in
// chunks of size bytes (the last one may be shorter). Each chunk is a fresh
// slice that the caller may keep. Iteration stops at the first read error,
// which is yielded with a nil chunk.
//
// The iterator consumes the stream, so ranging over it a second time yields
// nothing.
func (s *Stream) Chunks(size int) iter.Seq2[[]byte, error] {
	if size <= 0 {
		size = DefaultChunkSize
	}

	return func(yield func([]byte, error) bool) {
		buf := make([]byte, size)

		for {
			n, err := io.ReadFull(s.rc, buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])

				if !yield(chunk, nil) {
					return
				}
			}

			switch {
			case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
				return
			case err != nil:
				yield(nil, err)

				return
			}
		}
	}
}
