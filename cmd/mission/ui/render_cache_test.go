package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeKey(t *testing.T) {
	assert.Equal(t, ComputeKey("a", 80), ComputeKey("a", 80))
	assert.NotEqual(t, ComputeKey("a", 80), ComputeKey("a", 81))
	assert.NotEqual(t, ComputeKey("a1", 0), ComputeKey("a", 10))
}

func TestRenderCache_GetOrCompute(t *testing.T) {
	rc := NewRenderCache(4)
	calls := 0
	render := func() string {
		calls++
		return "rendered"
	}

	assert.Equal(t, "rendered", rc.GetOrCompute("m1", 80, render))
	assert.Equal(t, "rendered", rc.GetOrCompute("m1", 80, render))
	assert.Equal(t, 1, calls)

	rc.GetOrCompute("m1", 60, render)
	assert.Equal(t, 2, calls, "width change re-renders")
}

func TestRenderCache_Bounded(t *testing.T) {
	rc := NewRenderCache(2)
	rc.Set(1, "a")
	rc.Set(2, "b")
	rc.Set(3, "c")

	assert.LessOrEqual(t, rc.Len(), 2)
	got, ok := rc.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "c", got)

	rc.Clear()
	assert.Zero(t, rc.Len())
}
