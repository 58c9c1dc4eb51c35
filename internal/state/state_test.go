package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncrementCycleRoundRobins(t *testing.T) {
	m := NewManager()
	var seen []int
	for i := 0; i < 7; i++ {
		seen = append(seen, m.IncrementCycle("k", 3))
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, seen)
}

func TestIncrementCycleZeroLengthIsNoop(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 0, m.IncrementCycle("k", 0))
	assert.Equal(t, 0, m.IncrementCycle("k", 0))
}

func TestCanTriggerWithoutPriorRecord(t *testing.T) {
	m := NewManager()
	assert.True(t, m.CanTrigger("k", 10.0, 2.0))
}

func TestCanTriggerRespectsGap(t *testing.T) {
	m := NewManager()
	m.SetLastTrigger("k", 10.0)
	assert.False(t, m.CanTrigger("k", 11.0, 2.0))
	assert.True(t, m.CanTrigger("k", 12.0, 2.0))
}

func TestGetLastTrigger(t *testing.T) {
	m := NewManager()
	_, ok := m.GetLastTrigger("missing")
	assert.False(t, ok)

	m.SetLastTrigger("k", 5.0)
	v, ok := m.GetLastTrigger("k")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestReset(t *testing.T) {
	m := NewManager()
	m.IncrementCycle("k", 3)
	m.SetLastTrigger("k", 1.0)

	m.Reset()

	assert.Equal(t, 0, m.IncrementCycle("k", 3))
	_, ok := m.GetLastTrigger("k")
	assert.False(t, ok)
}
