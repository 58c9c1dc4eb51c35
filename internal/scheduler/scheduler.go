// Package scheduler implements the lookahead tick loop that queries a
// Program for upcoming note events and dispatches them to voice
// callbacks, with swing applied per micro-grid step (§4.8).
package scheduler

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rfielding/bog/internal/builtins"
	"github.com/rfielding/bog/internal/resolver"
	"github.com/rfielding/bog/internal/state"
	"github.com/rfielding/bog/internal/term"
	"github.com/rfielding/bog/internal/unify"
)

// maxTickLog bounds the in-memory tick history exposed to the debug
// server, the same fixed-size-ring approach the teacher's pkg/server
// uses for its time series.
const maxTickLog = 1000

// TickRecord is one resolved grid step, stamped with a correlation id so
// log lines from the same tick can be grep'd together.
type TickRecord struct {
	ID     string
	At     float64
	Events int
}

// Callbacks is the set of function slots the scheduler drives but never
// implements itself (§6). Any nil slot silently drops its voice.
type Callbacks struct {
	Init func(userdata any)
	Time func(userdata any) float64

	Kick  func(userdata any, t, vel float64)
	Snare func(userdata any, t, vel float64)
	Hat   func(userdata any, t, vel float64)
	Clap  func(userdata any, t, vel float64)
	Noise func(userdata any, t, vel float64)

	Sine     func(userdata any, t, midi, vel float64)
	Square   func(userdata any, t, midi, vel float64)
	Triangle func(userdata any, t, midi, vel float64)
}

var drumVoices = map[string]bool{"kick": true, "snare": true, "hat": true, "clap": true, "noise": true}
var melodicVoices = map[string]bool{"sine": true, "square": true, "triangle": true}

type beatCallback struct {
	handle int
	fn     func(beat int, udata any)
	udata  any
}

// Scheduler is the tick-driven engine. Program swaps are visible to the
// tick goroutine via an atomic pointer (§5): exactly one thread is
// expected to call Tick, but SetProgram and beat-callback registration
// may be called from any goroutine.
type Scheduler struct {
	callbacks Callbacks
	registry  *builtins.Registry
	state     *state.Manager
	userdata  any

	program atomic.Pointer[programSlot]

	bpm         float64
	swing       float64
	lookaheadMs float64
	gridBeats   float64

	running     bool
	currentBeat int

	mu            sync.Mutex
	beatCallbacks []beatCallback
	nextHandle    int

	logMu sync.RWMutex
	ticks []TickRecord

	// rngMu guards rng: builtins draw from it once per tick on the tick
	// goroutine, but SetSeed may be called from any goroutine (§9 — a
	// single seedable RNG threaded through the scheduler, never
	// reconstructed per call or reseeded from grid position).
	rngMu sync.Mutex
	rng   *rand.Rand

	// maxArenaBlocks bounds each tick's query arena (§4.1/§7); 0 leaves
	// it unbounded. SetMaxArenaBlocks is the knob operators use to make
	// resource exhaustion a reachable, reportable condition instead of
	// silent unbounded growth.
	maxArenaBlocks int
}

type programSlot struct {
	prog  *term.Program
	arena *term.Arena
}

// New creates a Scheduler with sane defaults (120 BPM, no swing, 80 ms
// lookahead, 0.25-beat grid), no program installed, and an RNG seeded
// from the current time. Call SetSeed afterward for reproducible
// randomness builtins (§8: "rand/prob are deterministic when the RNG is
// seeded identically").
func New(cb Callbacks, reg *builtins.Registry, st *state.Manager, userdata any) *Scheduler {
	return &Scheduler{
		callbacks:   cb,
		registry:    reg,
		state:       st,
		userdata:    userdata,
		bpm:         120,
		swing:       0,
		lookaheadMs: 80,
		gridBeats:   0.25,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetSeed replaces the scheduler's RNG with one freshly seeded from
// seed, so every randomness builtin (rand/3, randint/3, pick/2, prob/1)
// becomes reproducible across runs. Safe to call from any goroutine.
func (s *Scheduler) SetSeed(seed int64) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = rand.New(rand.NewSource(seed))
}

// SetMaxArenaBlocks bounds the size of each tick's query arena; once a
// tick's resolution would need more than maxBlocks blocks, that tick's
// arena reports term.ErrArenaExhausted through Tick/TickAt's error
// return instead of growing without bound. maxBlocks <= 0 means
// unbounded, the default.
func (s *Scheduler) SetMaxArenaBlocks(maxBlocks int) {
	s.maxArenaBlocks = maxBlocks
}

// Configure overrides bpm/swing/lookaheadMs/gridBeats; only
// strictly-positive values are applied, so a caller can pass 0 to leave
// a setting untouched (swing may legitimately be 0, so it is always
// applied as long as it is within [0,1]).
func (s *Scheduler) Configure(bpm, swing, lookaheadMs, gridBeats float64) {
	if bpm > 0 {
		s.bpm = bpm
	}
	if swing >= 0 && swing <= 1 {
		s.swing = swing
	}
	if lookaheadMs > 0 {
		s.lookaheadMs = lookaheadMs
	}
	if gridBeats > 0 {
		s.gridBeats = gridBeats
	}
}

// SetProgram atomically swaps in a new program; the next tick sees it.
func (s *Scheduler) SetProgram(prog *term.Program, arena *term.Arena) {
	s.program.Store(&programSlot{prog: prog, arena: arena})
}

// Start runs the init callback, marks the scheduler running, and resets
// the beat counter to 0.
func (s *Scheduler) Start() {
	if s.callbacks.Init != nil {
		s.callbacks.Init(s.userdata)
	}
	s.running = true
	s.currentBeat = 0
}

// Stop marks the scheduler not running, resets the beat counter, and
// notifies beat callbacks once with beat=0. It does not flush any
// in-flight notes; that is the caller's panic policy.
func (s *Scheduler) Stop() {
	s.running = false
	s.currentBeat = 0
	s.notifyBeatCallbacks(0)
}

// Running reports whether Start has been called more recently than
// Stop.
func (s *Scheduler) Running() bool {
	return s.running
}

// Now passes through to the configured time callback, or 0 if none is
// set.
func (s *Scheduler) Now() float64 {
	if s.callbacks.Time == nil {
		return 0
	}
	return s.callbacks.Time(s.userdata)
}

// AddBeatCallback registers cb and returns a monotone handle usable with
// RemoveBeatCallback. Safe to call from any goroutine.
func (s *Scheduler) AddBeatCallback(cb func(beat int, udata any), udata any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHandle++
	handle := s.nextHandle
	s.beatCallbacks = append(s.beatCallbacks, beatCallback{handle: handle, fn: cb, udata: udata})
	return handle
}

// RemoveBeatCallback removes the callback registered under handle, if
// any.
func (s *Scheduler) RemoveBeatCallback(handle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cb := range s.beatCallbacks {
		if cb.handle == handle {
			s.beatCallbacks = append(s.beatCallbacks[:i], s.beatCallbacks[i+1:]...)
			return
		}
	}
}

func (s *Scheduler) notifyBeatCallbacks(beat int) {
	s.mu.Lock()
	cbs := make([]beatCallback, len(s.beatCallbacks))
	copy(cbs, s.beatCallbacks)
	s.mu.Unlock()

	for _, cb := range cbs {
		cb.fn(beat, cb.udata)
	}
}

// Tick reads the current time via the Time callback and runs TickAt.
func (s *Scheduler) Tick() error {
	return s.TickAt(s.Now())
}

// TickAt is the core tick_at algorithm (§4.8): a no-op with no program
// installed; otherwise it advances the beat counter, notifies beat
// callbacks on a beat boundary, and schedules every grid step between
// the current grid-aligned start and now+lookahead. It returns
// term.ErrArenaExhausted (wrapped per grid step hit) if any step's
// query arena exceeded its configured block ceiling; the remaining
// steps in this tick still run, since a single grid step's exhaustion
// says nothing about its neighbors.
func (s *Scheduler) TickAt(now float64) error {
	slot := s.program.Load()
	if slot == nil {
		return nil
	}

	step := (60 / s.bpm) * s.gridBeats
	ahead := s.lookaheadMs / 1000
	start := math.Floor(now/step) * step

	beatDur := 60 / s.bpm
	newBeat := int(math.Floor(now / beatDur))
	if newBeat != s.currentBeat {
		s.currentBeat = newBeat
		s.notifyBeatCallbacks(newBeat)
	}

	var firstErr error
	for t := start; t < now+ahead; t += step {
		if err := s.queryAndSchedule(slot, t+step); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// queryAndSchedule resolves event(Voice, Pitch, Vel, t) against the
// installed program and dispatches every solution to its matching voice
// callback, applying swing to the scheduled time. It returns
// term.ErrArenaExhausted if this step's query arena hit its configured
// block ceiling mid-resolution; solutions found before exhaustion are
// still dispatched, since they were fully resolved before the ceiling
// was reached.
func (s *Scheduler) queryAndSchedule(slot *programSlot, t float64) error {
	tickArena := term.NewArenaWithLimit(s.maxArenaBlocks)
	voice := tickArena.NewVar("Voice")
	pitch := tickArena.NewVar("Pitch")
	vel := tickArena.NewVar("Vel")
	probe := tickArena.NewCompound("event", []*term.Term{voice, pitch, vel, tickArena.NewNum(t)})

	ctx := &builtins.Context{BPM: s.bpm, State: s.state, Rand: s.currentRand()}
	r := resolver.New(slot.prog, s.registry)
	solutions := r.Solve([]*term.Goal{{Kind: term.GoalPositive, Term: probe}}, term.NewEnv(), ctx, tickArena)

	for _, env := range solutions {
		s.dispatchSolution(voice, pitch, vel, env, term.NewArena(), t)
	}

	s.recordTick(TickRecord{ID: uuid.NewString(), At: t, Events: len(solutions)})
	return tickArena.Err()
}

// currentRand returns the scheduler's persistent RNG under lock, so a
// concurrent SetSeed can't race with a builtin mid-draw.
func (s *Scheduler) currentRand() *rand.Rand {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng
}

// recordTick appends to the bounded tick log, dropping the oldest entry
// once maxTickLog is reached.
func (s *Scheduler) recordTick(rec TickRecord) {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	s.ticks = append(s.ticks, rec)
	if len(s.ticks) > maxTickLog {
		s.ticks = s.ticks[len(s.ticks)-maxTickLog:]
	}
}

// TickLog returns a snapshot of the most recent tick records, oldest
// first, for the debug server's /api/ticks endpoint.
func (s *Scheduler) TickLog() []TickRecord {
	s.logMu.RLock()
	defer s.logMu.RUnlock()
	out := make([]TickRecord, len(s.ticks))
	copy(out, s.ticks)
	return out
}

func (s *Scheduler) dispatchSolution(voiceVar, pitchVar, velVar *term.Term, env *term.Env, arena *term.Arena, t float64) {
	voiceTerm := unify.Subst(voiceVar, env, arena)
	if voiceTerm == nil || voiceTerm.Kind != term.Atom {
		return
	}
	name := voiceTerm.Text

	midi := 48.0
	if v, ok := numOf(unify.Subst(pitchVar, env, arena)); ok {
		midi = v
	}

	velocity := 0.7
	if v, ok := numOf(unify.Subst(velVar, env, arena)); ok {
		velocity = clamp01(v)
	}

	scheduled := s.swingAdjust(t)

	if drumVoices[name] {
		s.dispatchDrum(name, scheduled, velocity)
		return
	}
	if melodicVoices[name] {
		s.dispatchMelodic(name, scheduled, midi, velocity)
	}
}

func (s *Scheduler) dispatchDrum(name string, t, vel float64) {
	var fn func(any, float64, float64)
	switch name {
	case "kick":
		fn = s.callbacks.Kick
	case "snare":
		fn = s.callbacks.Snare
	case "hat":
		fn = s.callbacks.Hat
	case "clap":
		fn = s.callbacks.Clap
	case "noise":
		fn = s.callbacks.Noise
	}
	if fn != nil {
		fn(s.userdata, t, vel)
	}
}

func (s *Scheduler) dispatchMelodic(name string, t, midi, vel float64) {
	var fn func(any, float64, float64, float64)
	switch name {
	case "sine":
		fn = s.callbacks.Sine
	case "square":
		fn = s.callbacks.Square
	case "triangle":
		fn = s.callbacks.Triangle
	}
	if fn != nil {
		fn(s.userdata, t, midi, vel)
	}
}

// swingAdjust implements swing_adjust(t, BPM, swing): odd-numbered
// eighth-note grid cells are pushed later by swing*eighth seconds.
func (s *Scheduler) swingAdjust(t float64) float64 {
	eighth := 60 / s.bpm / 2
	pos := t / eighth
	if int(math.Floor(pos))%2 != 0 {
		return t + s.swing*eighth
	}
	return t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func numOf(t *term.Term) (float64, bool) {
	if t == nil || t.Kind != term.Num {
		return 0, false
	}
	return t.NumVal, true
}
