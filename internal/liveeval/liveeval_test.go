package liveeval

import (
	"testing"

	"github.com/rfielding/bog/internal/builtins"
	"github.com/rfielding/bog/internal/scheduler"
	"github.com/rfielding/bog/internal/state"
	"github.com/rfielding/bog/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture() *Evaluator {
	sched := scheduler.New(scheduler.Callbacks{}, builtins.NewRegistry(), state.NewManager(), nil)
	return New(sched, nil)
}

func TestEvaluateSuccessUpdatesLastCode(t *testing.T) {
	e := newFixture()
	err := e.Evaluate("event(kick, 36, 0.9, T) :- true")
	require.NoError(t, err)
	assert.Equal(t, "event(kick, 36, 0.9, T) :- true.", e.LastCode())
}

func TestEvaluateEmptyTextInstallsEmptyProgram(t *testing.T) {
	e := newFixture()
	require.NoError(t, e.Evaluate("event(kick, 36, 0.9, T) :- true."))
	require.NoError(t, e.Evaluate("   "))
	assert.Equal(t, "", e.LastCode())
}

func TestEvaluateParseErrorLeavesLastCodeUnchanged(t *testing.T) {
	e := newFixture()
	require.NoError(t, e.Evaluate("event(kick, 36, 0.9, T) :- true."))
	err := e.Evaluate("this is $ not valid")
	assert.Error(t, err)
	assert.Equal(t, "event(kick, 36, 0.9, T) :- true.", e.LastCode())
}

func TestEvaluateNotifiesCallbacks(t *testing.T) {
	e := newFixture()
	var gotSuccess bool
	var gotText string
	var gotErr error
	e.AddCallback(func(success bool, prog *term.Program, text string, err error) {
		gotSuccess = success
		gotText = text
		gotErr = err
	})

	require.NoError(t, e.Evaluate("event(kick, 36, 0.9, T) :- true."))
	assert.True(t, gotSuccess)
	assert.Equal(t, "event(kick, 36, 0.9, T) :- true.", gotText)
	assert.NoError(t, gotErr)

	err := e.Evaluate("this is $ not valid")
	assert.False(t, gotSuccess)
	assert.Error(t, err)
}

func TestDefMuteSoloAssemble(t *testing.T) {
	e := newFixture()
	e.Def("drums", "event(kick, 36, 0.9, T) :- true.")
	e.Def("lead", "event(sine, 60, 0.7, T) :- true.")

	require.NoError(t, e.Assemble())
	assert.Contains(t, e.LastCode(), "kick")
	assert.Contains(t, e.LastCode(), "sine")

	e.Mute("lead")
	require.NoError(t, e.Assemble())
	assert.Contains(t, e.LastCode(), "kick")
	assert.NotContains(t, e.LastCode(), "sine")

	e.Solo("lead")
	require.NoError(t, e.Assemble())
	assert.NotContains(t, e.LastCode(), "kick")
	assert.Contains(t, e.LastCode(), "sine")

	e.Unsolo()
	e.Unmute("lead")
	require.NoError(t, e.Assemble())
	assert.Contains(t, e.LastCode(), "kick")
	assert.Contains(t, e.LastCode(), "sine")
}

func TestUndefAndClearSlots(t *testing.T) {
	e := newFixture()
	e.Def("a", "event(kick, 36, 0.9, T) :- true.")
	e.Def("b", "event(sine, 60, 0.7, T) :- true.")
	assert.ElementsMatch(t, []string{"a", "b"}, e.SlotNames())

	e.Undef("a")
	assert.Equal(t, []string{"b"}, e.SlotNames())

	e.ClearSlots()
	assert.Empty(t, e.SlotNames())
}
