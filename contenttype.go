package airdrive

import (
	"mime"
	"path"
	"sync"
)

// common types we want to be able to handle which can be missing by default
//
//nolint:gochecknoglobals
var (
	extraMimeTypes = map[string]string{
		".yml":  "application/yaml",
		".yaml": "application/yaml",
		".csv":  "text/csv",
		".toml": "application/toml",
		".env":  "application/x-env",
		".txt":  "text/plain",
	}
	extraMimeInit sync.Once
)

// ContentType returns the MIME content type for the object stored at key,
// guessed by the key's extension. See the docs for mime.TypeByExtension for
// details on how extension lookup works. An empty string is returned when the
// type can't be guessed, in which case stores are free to sniff the content.
//
// The returned value may have parameters (e.g. "text/plain; charset=utf-8")
// which can be parsed with mime.ParseMediaType.
func ContentType(key string) string {
	if IsSentinel(key) {
		return "text/plain"
	}

	extraMimeInit.Do(func() {
		for k, v := range extraMimeTypes {
			_ = mime.AddExtensionType(k, v)
		}
	})

	return mime.TypeByExtension(path.Ext(key))
}
