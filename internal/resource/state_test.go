// ABOUTME: Tests for the per-key sequencer

package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencer(t *testing.T) {
	var s sequencer

	a := s.issue(keyList)
	b := s.issue(groupKey("x"))
	assert.Greater(t, b, a)
	assert.True(t, s.latest(keyList, a), "other keys do not supersede")

	c := s.issue(keyList)
	assert.False(t, s.latest(keyList, a))
	assert.True(t, s.latest(keyList, c))

	assert.False(t, s.appliedAfter(groupKey("x"), a))
	stamp := s.apply(groupKey("x"))
	assert.Greater(t, stamp, c)
	assert.True(t, s.appliedAfter(groupKey("x"), a))
	assert.True(t, s.appliedAfter(groupKey("x"), c), "applied after c was issued, though sent before it")

	d := s.issue(keyList)
	assert.False(t, s.appliedAfter(groupKey("x"), d))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "state(9)", State(9).String())
}
