package troupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestId_Equal(t *testing.T) {
	a := Id[None]{ID: 7}
	b := Id[None]{ID: 7}
	c := Id[None]{ID: 8}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestId_Remote(t *testing.T) {
	r := Remote[None](42)
	assert.True(t, r.IsRemote())
	assert.Equal(t, ID(42), r.ID)
}

func TestId_String(t *testing.T) {
	assert.Contains(t, Remote[None](1).String(), "remote")
}
