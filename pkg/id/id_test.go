package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDFrom(t *testing.T) {
	a := TraceIDFrom("deposit", "alice", "1")
	assert.Equal(t, a, TraceIDFrom("deposit", "alice", "1"))
	assert.NotEqual(t, a, TraceIDFrom("deposit", "alice", "2"))
	assert.True(t, IsUUID(a))
}

func TestGenTraceID(t *testing.T) {
	a, b := GenTraceID(), GenTraceID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsUUID(a))
	assert.False(t, IsUUID("worker-sweep"))
}
