// Package liveeval implements the REPL-facing live-evaluation contract
// (§6): parsing text into a fresh program, installing it into the
// scheduler directly or via the transition manager, and tracking the
// named slots that back `:def`/`:mute`/`:solo` style commands.
package liveeval

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/rfielding/bog/internal/parser"
	"github.com/rfielding/bog/internal/scheduler"
	"github.com/rfielding/bog/internal/term"
)

// Callback receives the outcome of one Evaluate call: success, the
// installed program (nil on failure), the raw text, and the error (nil
// on success).
type Callback func(success bool, prog *term.Program, text string, err error)

// Evaluator owns the slot table and the last successful source text,
// and installs programs into a Scheduler either directly or through a
// Transition.
type Evaluator struct {
	sched *scheduler.Scheduler
	trans *scheduler.Transition

	mu        sync.Mutex
	lastCode  string
	callbacks []Callback

	slots []slot
}

type slot struct {
	name  string
	body  string
	muted bool
	solo  bool
}

// New returns an Evaluator that installs programs into sched. If trans
// is non-nil, successful evaluations are routed through it instead of
// swapping the scheduler's program directly.
func New(sched *scheduler.Scheduler, trans *scheduler.Transition) *Evaluator {
	return &Evaluator{sched: sched, trans: trans}
}

// AddCallback registers cb to be notified after every Evaluate call.
func (e *Evaluator) AddCallback(cb Callback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks = append(e.callbacks, cb)
}

// Evaluate trims text, installs an empty program if the result is
// empty, appends a trailing "." if absent, parses, and on success
// installs the result (via the transition manager if one was supplied,
// otherwise directly) and records it as the last successful text. On
// failure, scheduler state is left unchanged.
func (e *Evaluator) Evaluate(text string) error {
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		prog := &term.Program{}
		arena := term.NewArena()
		e.install(prog, arena)
		e.recordSuccess(trimmed)
		e.notify(true, prog, text, nil)
		return nil
	}

	if !strings.HasSuffix(trimmed, ".") {
		trimmed += "."
	}

	prog, arena, err := parser.Parse(trimmed)
	if err != nil {
		wrapped := fmt.Errorf("evaluate: %w", err)
		log.Printf("liveeval: parse failed: %v", wrapped)
		e.notify(false, nil, text, wrapped)
		return wrapped
	}

	e.install(prog, arena)
	e.recordSuccess(trimmed)
	e.notify(true, prog, text, nil)
	return nil
}

func (e *Evaluator) install(prog *term.Program, arena *term.Arena) {
	if e.trans != nil {
		e.trans.Schedule(prog, arena)
		return
	}
	e.sched.SetProgram(prog, arena)
}

func (e *Evaluator) recordSuccess(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastCode = text
}

func (e *Evaluator) notify(success bool, prog *term.Program, text string, err error) {
	e.mu.Lock()
	cbs := make([]Callback, len(e.callbacks))
	copy(cbs, e.callbacks)
	e.mu.Unlock()

	for _, cb := range cbs {
		cb(success, prog, text, err)
	}
}

// LastCode returns the most recently successfully evaluated text.
func (e *Evaluator) LastCode() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastCode
}
