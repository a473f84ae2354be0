package airdrive

import (
	"path"
	"strings"
)

// SentinelName is the name of the marker object proving that a drive (at the
// root) or a folder (inside it) exists. Sentinels are never listed by
// Drive.Files.
const SentinelName = ".air"

// sentinel content - some stores reject zero-length objects
const sentinelContent = " "

// JoinKey composes the store key for name inside folder. An empty folder
// means the drive root. Runs of '/' are collapsed, so the resulting key never
// contains "//".
func JoinKey(folder, name string) string {
	key := name
	if folder != "" {
		key = folder + "/" + name
	}

	return collapseSeparators(key)
}

// FolderMarker returns the key of the sentinel object for folder.
func FolderMarker(folder string) string {
	return JoinKey(folder, SentinelName)
}

// IsSentinel reports whether key is the drive sentinel or a folder marker.
func IsSentinel(key string) bool {
	return path.Base(key) == SentinelName
}

// validDriveName reports whether name is usable as a drive name: a single
// path segment, so the drive can't resolve outside its own prefix.
func validDriveName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}

	return !strings.ContainsAny(name, `/\`) && name == path.Clean(name)
}

func collapseSeparators(key string) string {
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}

	return key
}
