// Package env reads store and CLI settings from the environment.
package env

import (
	"io/fs"
	"os"
	"strings"
)

// GetenvFS returns the value of the environment variable key. When key is
// unset or empty, but key+"_FILE" names a file in fsys, the trimmed content of
// that file is returned instead, so that secrets can be mounted as files.
// Absolute paths are resolved relative to the root of fsys.
//
// If neither gives a value, def[0] is returned, or "" when no default is
// given.
func GetenvFS(fsys fs.FS, key string, def ...string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	if val := readEnvFile(fsys, os.Getenv(key+"_FILE")); val != "" {
		return val
	}

	if len(def) > 0 {
		return def[0]
	}

	return ""
}

// readEnvFile returns the trimmed content of the file at p, or "" if it can't
// be read
func readEnvFile(fsys fs.FS, p string) string {
	if p == "" {
		return ""
	}

	b, err := fs.ReadFile(fsys, strings.TrimPrefix(p, "/"))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(b))
}
