// Package builtins implements Bog's domain predicate library: rhythm
// grids, scales/chords, list/selection policies, randomness, and the
// cooldown gate, all dispatched through the same (args, env, ctx, arena)
// calling convention as clause heads (§4.6).
package builtins

import (
	"fmt"
	"math/rand"

	"github.com/rfielding/bog/internal/state"
	"github.com/rfielding/bog/internal/term"
)

// Context carries the per-resolution values builtins need that aren't
// part of the term graph: tempo, the state manager, and a seedable RNG
// (§9 — no process-wide globals; everything is threaded through here).
type Context struct {
	BPM   float64
	State *state.Manager
	Rand  *rand.Rand
}

// Func is the calling convention every builtin and clause head shares:
// consume arguments plus the ambient env/ctx/arena, produce zero or more
// successor environments.
type Func func(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env

// Registry is an immutable-after-construction table of name/arity ->
// Func entries.
type Registry struct {
	table map[string]Func
}

func key(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

// NewRegistry builds the registry with every predicate from §4.6 wired
// in.
func NewRegistry() *Registry {
	r := &Registry{table: make(map[string]Func)}

	r.add("=", 2, biUnify)
	r.add("eq", 2, biUnify)
	r.add("=:=", 2, biNumEq)
	r.add("=\\=", 2, biNumNeq)
	r.add("is", 2, biIs)

	r.add("<", 2, biLt)
	r.add(">", 2, biGt)
	r.add("=<", 2, biLte)
	r.add(">=", 2, biGte)
	r.add("lt", 2, biLt)
	r.add("gt", 2, biGt)
	r.add("lte", 2, biLte)
	r.add("gte", 2, biGte)

	r.add("within", 3, biWithin)

	r.add("distinct", 1, biDistinct)
	r.add("choose", 2, biChoose)
	r.add("pick", 2, biPick)
	r.add("cycle", 2, biCycle)
	r.add("rotate", 3, biRotate)

	r.add("rand", 3, biRand)
	r.add("randint", 3, biRandint)
	r.add("prob", 1, biProb)

	r.add("every", 2, biEvery)
	r.add("beat", 2, biBeat)
	r.add("phase", 3, biPhase)
	r.add("euc", 5, biEuc)

	r.add("scale", 5, biScale)
	r.add("chord", 4, biChord)
	r.add("transpose", 3, biTranspose)
	r.add("add", 3, biAdd)
	r.add("range", 4, biRange)

	r.add("cooldown", 3, biCooldown)

	return r
}

func (r *Registry) add(name string, arity int, fn Func) {
	r.table[key(name, arity)] = fn
}

// Lookup returns the registered builtin for name/arity, if any.
func (r *Registry) Lookup(name string, arity int) (Func, bool) {
	fn, ok := r.table[key(name, arity)]
	return fn, ok
}
