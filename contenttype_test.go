package airdrive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	assert.Equal(t, "", ContentType("foo"))
	assert.Equal(t, "", ContentType("dir/foo.unknownext"))
	assert.Equal(t, "application/json", ContentType("foo.json"))
	assert.Equal(t, "application/yaml", ContentType("dir/config.yaml"))
	assert.Equal(t, "text/plain", ContentType(".air"))
	assert.Equal(t, "text/plain", ContentType("docs/.air"))
	assert.Contains(t, ContentType("notes.txt"), "text/plain")
}
