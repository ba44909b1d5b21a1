package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIDPrecedence(t *testing.T) {
	t.Setenv("INSTANCE_ID", "")
	t.Setenv("DYNO", "")
	t.Setenv("HOSTNAME", "")
	assert.Equal(t, DefaultID, GetID())

	t.Setenv("HOSTNAME", "box-1")
	assert.Equal(t, "box-1", GetID())

	t.Setenv("DYNO", "web.2")
	assert.Equal(t, "web.2", GetID())

	t.Setenv("INSTANCE_ID", " api-7 ")
	assert.Equal(t, "api-7", GetID())
}
