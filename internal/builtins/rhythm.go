package builtins

import (
	"math"

	"github.com/rfielding/bog/internal/term"
)

// elapsedBeats converts an absolute time in seconds to a beat count
// using the context's current tempo.
func elapsedBeats(t float64, ctx *Context) float64 {
	return t * ctx.BPM / 60
}

// rhythmTolerance is the grid-alignment tolerance for every/2 and
// beat/2. It is looser than numTolerance because these values pass
// through an extra ·BPM/60 division and accumulate drift from the tick
// loop's repeated t += step accumulation (§4.8) — 1e-9 spuriously fails
// grid hits once that drift exceeds unification-grade precision.
const rhythmTolerance = 1e-4

// nearlyInt reports whether v is within rhythmTolerance of some integer.
func nearlyInt(v float64) bool {
	return math.Abs(v-math.Round(v)) <= rhythmTolerance
}

// biEvery implements every/2: every(T, N) succeeds when T, converted to
// elapsed beats at the context tempo, lands on a multiple of N beats
// (e.g. every(T, 1.0) fires once per beat; every(T, 0.25) fires four
// times per beat) — i.e. beats/N is within rhythmTolerance of an
// integer.
func biEvery(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	t, ok1 := numArg(args, 0, env, arena)
	n, ok2 := numArg(args, 1, env, arena)
	if !ok1 || !ok2 || n <= 0 {
		return none()
	}
	if !nearlyInt(elapsedBeats(t, ctx) / n) {
		return none()
	}
	return one(env)
}

// biBeat implements beat/2: beat(T, N) succeeds when T, converted to
// elapsed beats and multiplied by N subdivisions-per-beat, lands on a
// grid line (is nearly an integer).
func biBeat(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	t, ok1 := numArg(args, 0, env, arena)
	n, ok2 := numArg(args, 1, env, arena)
	if !ok1 || !ok2 {
		return none()
	}
	if !nearlyInt(elapsedBeats(t, ctx) * n) {
		return none()
	}
	return one(env)
}

// biPhase implements phase/3: phase(T, N, Step) unifies Step with
// round(T's elapsed beats * N) mod N — the discrete grid-step index
// within one cycle of N steps.
func biPhase(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	t, ok1 := numArg(args, 0, env, arena)
	n, ok2 := numArg(args, 1, env, arena)
	if !ok1 || !ok2 || n <= 0 {
		return none()
	}
	step := math.Round(elapsedBeats(t, ctx) * n)
	wrapped := math.Mod(step, n)
	if wrapped < 0 {
		wrapped += n
	}
	return bindResult(args[2], arena.NewNum(wrapped), env, arena)
}

// biEuc implements euc/5: euc(T, K, N, B, R) succeeds when T lands on
// one of the K pulses of a Euclidean rhythm spreading K onsets evenly
// across a cycle of B beats split into N grid steps of B/N beats each,
// rotated by R steps (§4.6):
// s = round(beta/B * N) mod N; s' = (s + R mod N) mod N; succeeds iff
// (s'*K) mod N < K — the standard even-spacing formula Bjorklund's
// algorithm produces, expressed without materializing the pattern.
func biEuc(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	t, ok1 := numArg(args, 0, env, arena)
	k, ok2 := numArg(args, 1, env, arena)
	n, ok3 := numArg(args, 2, env, arena)
	b, ok4 := numArg(args, 3, env, arena)
	r, ok5 := numArg(args, 4, env, arena)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return none()
	}
	if n <= 0 || k < 0 || k > n || b == 0 {
		return none()
	}

	beats := elapsedBeats(t, ctx)
	s := floorMod(math.Round(beats/b*n), n)
	sPrime := floorMod(s+floorMod(r, n), n)
	if floorMod(sPrime*k, n) < k {
		return one(env)
	}
	return none()
}

// floorMod returns a mod n with a result in [0, n), matching the
// spec's "mod" (as opposed to Go's truncating %).
func floorMod(a, n float64) float64 {
	r := math.Mod(a, n)
	if r < 0 {
		r += n
	}
	return r
}

