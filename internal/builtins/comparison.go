package builtins

import "github.com/rfielding/bog/internal/term"

// biLt, biGt, biLte, biGte implement </2, >/2, =</2, >=/2 (and their
// lt/gt/lte/gte aliases): numeric comparisons that either succeed with
// env unchanged or fail outright. Neither side binds anything, so there
// is nothing to unify.
func biLt(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	return compareNums(args, env, arena, func(a, b float64) bool { return a < b })
}

func biGt(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	return compareNums(args, env, arena, func(a, b float64) bool { return a > b })
}

func biLte(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	return compareNums(args, env, arena, func(a, b float64) bool { return a <= b })
}

func biGte(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	return compareNums(args, env, arena, func(a, b float64) bool { return a >= b })
}

func compareNums(args []*term.Term, env *term.Env, arena *term.Arena, cmp func(a, b float64) bool) []*term.Env {
	left, ok1 := numArg(args, 0, env, arena)
	right, ok2 := numArg(args, 1, env, arena)
	if !ok1 || !ok2 || !cmp(left, right) {
		return none()
	}
	return one(env)
}

// biWithin implements within/3: succeeds when the first argument's
// numeric value lies in the closed interval [lo, hi] — t ∈ [a,b] taken
// literally, so a value equal to either bound succeeds.
func biWithin(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	value, ok1 := numArg(args, 0, env, arena)
	lo, ok2 := numArg(args, 1, env, arena)
	hi, ok3 := numArg(args, 2, env, arena)
	if !ok1 || !ok2 || !ok3 {
		return none()
	}
	if value < lo || value > hi {
		return none()
	}
	return one(env)
}
