package scheduler

import (
	"testing"

	"github.com/rfielding/bog/internal/builtins"
	"github.com/rfielding/bog/internal/parser"
	"github.com/rfielding/bog/internal/state"
	"github.com/rfielding/bog/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, cb Callbacks) *Scheduler {
	t.Helper()
	return New(cb, builtins.NewRegistry(), state.NewManager(), nil)
}

func TestTickAtNoProgramIsNoop(t *testing.T) {
	called := false
	s := newTestScheduler(t, Callbacks{Kick: func(udata any, t, vel float64) { called = true }})
	s.TickAt(1.0)
	assert.False(t, called)
}

func TestTickAtDispatchesDrumVoice(t *testing.T) {
	prog, arena, err := parser.Parse(`event(kick, 60, 0.9, T) :- true.`)
	require.NoError(t, err)

	var hits []float64
	s := newTestScheduler(t, Callbacks{
		Kick: func(udata any, tm, vel float64) { hits = append(hits, tm) },
	})
	s.Configure(120, 0, 80, 0.25)
	s.SetProgram(prog, arena)

	s.TickAt(0.5)
	assert.NotEmpty(t, hits)
}

func TestTickAtNotifiesBeatCallbackOnBoundaryChange(t *testing.T) {
	prog, arena, err := parser.Parse(`event(kick, 60, 0.9, T) :- true.`)
	require.NoError(t, err)

	s := newTestScheduler(t, Callbacks{})
	s.Configure(120, 0, 80, 0.25)
	s.SetProgram(prog, arena)

	var beats []int
	s.AddBeatCallback(func(beat int, udata any) { beats = append(beats, beat) }, nil)

	s.TickAt(0.0)
	s.TickAt(0.6)
	require.GreaterOrEqual(t, len(beats), 1)
	assert.Equal(t, 1, beats[len(beats)-1])
}

func TestSwingAdjustPushesOddEighths(t *testing.T) {
	s := newTestScheduler(t, Callbacks{})
	s.Configure(120, 0.5, 80, 0.25)

	eighth := 60.0 / 120 / 2
	// An even eighth-cell time is unaffected.
	assert.Equal(t, 0.0, s.swingAdjust(0))
	// An odd eighth-cell time shifts later by swing*eighth.
	assert.InDelta(t, eighth+0.5*eighth, s.swingAdjust(eighth), 1e-9)
}

func TestAddAndRemoveBeatCallback(t *testing.T) {
	s := newTestScheduler(t, Callbacks{})
	count := 0
	handle := s.AddBeatCallback(func(beat int, udata any) { count++ }, nil)
	s.notifyBeatCallbacks(1)
	assert.Equal(t, 1, count)

	s.RemoveBeatCallback(handle)
	s.notifyBeatCallbacks(2)
	assert.Equal(t, 1, count)
}

func TestStopResetsBeatAndNotifies(t *testing.T) {
	s := newTestScheduler(t, Callbacks{})
	var last int
	s.AddBeatCallback(func(beat int, udata any) { last = beat }, nil)
	s.currentBeat = 5
	s.running = true

	s.Stop()
	assert.False(t, s.Running())
	assert.Equal(t, 0, last)
}

func TestSetSeedMakesPickDeterministicAcrossRuns(t *testing.T) {
	prog, arena, err := parser.Parse(`event(sine, N, 0.7, T) :- pick([60,64,67], N).`)
	require.NoError(t, err)

	run := func() []float64 {
		var midis []float64
		s := newTestScheduler(t, Callbacks{
			Sine: func(udata any, tm, midi, vel float64) { midis = append(midis, midi) },
		})
		s.Configure(120, 0, 80, 0.25)
		s.SetSeed(42)
		s.SetProgram(prog, arena)
		s.TickAt(1.0)
		return midis
	}

	first := run()
	second := run()
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestTickAtReturnsErrorWhenArenaLimitExceeded(t *testing.T) {
	prog, arena, err := parser.Parse(`
count(0).
count(N) :- N > 0, M is N - 1, count(M).
event(kick, 60, 0.9, T) :- count(500).
`)
	require.NoError(t, err)

	s := newTestScheduler(t, Callbacks{})
	s.Configure(120, 0, 80, 0.25)
	s.SetMaxArenaBlocks(1)
	s.SetProgram(prog, arena)

	tickErr := s.TickAt(0.5)
	require.Error(t, tickErr)
	assert.ErrorIs(t, tickErr, term.ErrArenaExhausted)
}

func TestTickAtSucceedsWithGenerousArenaLimit(t *testing.T) {
	prog, arena, err := parser.Parse(`event(kick, 60, 0.9, T) :- true.`)
	require.NoError(t, err)

	s := newTestScheduler(t, Callbacks{})
	s.Configure(120, 0, 80, 0.25)
	s.SetMaxArenaBlocks(1000)
	s.SetProgram(prog, arena)

	assert.NoError(t, s.TickAt(0.5))
}

func TestConfigureIgnoresNonPositiveOverrides(t *testing.T) {
	s := newTestScheduler(t, Callbacks{})
	s.Configure(140, 0.3, 100, 0.5)
	s.Configure(0, -1, 0, 0)
	assert.Equal(t, 140.0, s.bpm)
	assert.Equal(t, 0.3, s.swing)
	assert.Equal(t, 100.0, s.lookaheadMs)
	assert.Equal(t, 0.5, s.gridBeats)
}
