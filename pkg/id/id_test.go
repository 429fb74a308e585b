package id

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTraceIDFrom(t *testing.T) {
	a := TraceIDFrom("liquidate-alice-1")
	assert.Equal(t, a, TraceIDFrom("liquidate-alice-1"))
	assert.NotEqual(t, a, TraceIDFrom("liquidate-alice-2"))

	u, err := uuid.FromString(a)
	assert.NoError(t, err)
	assert.Equal(t, byte(3), u.Version())
}

func TestGenTraceID(t *testing.T) {
	assert.NotEqual(t, GenTraceID(), GenTraceID())
}
