package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderKey(t *testing.T) {
	assert.Equal(t, "render:post:pho-bo:vi", renderKey("pho-bo", "vi"))
	assert.NotEqual(t, renderKey("a", "vi"), renderKey("a", "en"))
}
