package airdrive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinKey(t *testing.T) {
	testdata := []struct {
		folder, name, expected string
	}{
		{"", "a.txt", "a.txt"},
		{"docs", "a.txt", "docs/a.txt"},
		{"docs/", "a.txt", "docs/a.txt"},
		{"docs//", "a.txt", "docs/a.txt"},
		{"a/b", "c", "a/b/c"},
		{"", "x//y", "x/y"},
		{"a///b", "c", "a/b/c"},
	}

	for _, d := range testdata {
		assert.Equal(t, d.expected, JoinKey(d.folder, d.name), "folder=%q name=%q", d.folder, d.name)
		assert.NotContains(t, JoinKey(d.folder, d.name), "//")
	}
}

func TestFolderMarker(t *testing.T) {
	assert.Equal(t, ".air", FolderMarker(""))
	assert.Equal(t, "docs/.air", FolderMarker("docs"))
	assert.Equal(t, "docs/.air", FolderMarker("docs/"))
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel(".air"))
	assert.True(t, IsSentinel("docs/.air"))
	assert.True(t, IsSentinel("a/b/.air"))

	assert.False(t, IsSentinel("a.air"))
	assert.False(t, IsSentinel(".air/file"))
	assert.False(t, IsSentinel("file"))
}

func TestValidDriveName(t *testing.T) {
	for _, name := range []string{"d1", "my-drive", "photos.2024", "a..b", ".hidden"} {
		assert.True(t, validDriveName(name), name)
	}

	for _, name := range []string{"", ".", "..", "../x", "a/b", "a/", "/a", `a\b`, `..\x`} {
		assert.False(t, validDriveName(name), name)
	}
}
