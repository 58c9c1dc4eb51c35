package scheduler

import (
	"log"

	"github.com/google/uuid"

	"github.com/rfielding/bog/internal/term"
)

type pendingProgram struct {
	prog     *term.Program
	arena    *term.Arena
	boundary float64
}

// Transition holds at most one pending (program, boundary-time) pair and
// swaps it into the scheduler only once the next quantisation boundary
// is reached (§4.9), so a live edit never cuts off a bar mid-phrase.
type Transition struct {
	sched        *Scheduler
	quantisation float64
	pending      *pendingProgram
}

// NewTransition returns a Transition bound to sched with the default
// 4-beat quantisation.
func NewTransition(sched *Scheduler) *Transition {
	return &Transition{sched: sched, quantisation: 4}
}

// SetQuantisation overrides the quantisation window in beats; values
// <= 0 are ignored.
func (tr *Transition) SetQuantisation(beats float64) {
	if beats > 0 {
		tr.quantisation = beats
	}
}

// Schedule queues prog to become active at the next quantisation
// boundary, computed from the scheduler's current time and BPM.
func (tr *Transition) Schedule(prog *term.Program, arena *term.Arena) {
	now := tr.sched.Now()
	bpm := tr.sched.bpm
	if bpm <= 0 {
		bpm = 120
	}
	beatDur := 60 / bpm
	quantDur := beatDur * tr.quantisation
	phase := mod(now, quantDur)

	timeToNext := 0.0
	if phase != 0 {
		timeToNext = quantDur - phase
	}

	tr.pending = &pendingProgram{prog: prog, arena: arena, boundary: now + timeToNext}
}

// Process swaps the pending program into the scheduler once now has
// reached its boundary (within 1e-9 to absorb float rounding) and then
// clears the pending pair; before the boundary the pair stays queued.
func (tr *Transition) Process(now float64) {
	if tr.pending == nil {
		return
	}
	if now+1e-9 >= tr.pending.boundary {
		id := uuid.NewString()
		log.Printf("transition[%s]: swapping in program at boundary=%.3f", id, tr.pending.boundary)
		tr.sched.SetProgram(tr.pending.prog, tr.pending.arena)
		tr.pending = nil
	}
}

// Cancel clears any pending transition without applying it.
func (tr *Transition) Cancel() {
	tr.pending = nil
}

// HasPending reports whether a transition is currently queued.
func (tr *Transition) HasPending() bool {
	return tr.pending != nil
}

func mod(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	r := a - b*float64(int(a/b))
	if r < 0 {
		r += b
	}
	return r
}
