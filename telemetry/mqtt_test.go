package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMirrorNotConnected(t *testing.T) {
	m := NewMirror("tcp://127.0.0.1:1", "agrokit-test", "agrokit/KIT123/telemetry")
	err := m.Publish([]byte(`{}`))
	assert.ErrorIs(t, err, ErrNotConnected)
}
