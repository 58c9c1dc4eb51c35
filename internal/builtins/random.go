package builtins

import "github.com/rfielding/bog/internal/term"

// biRand implements rand/3: X unifies with a uniform float drawn from
// [Lo, Hi).
func biRand(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	lo, ok1 := numArg(args, 0, env, arena)
	hi, ok2 := numArg(args, 1, env, arena)
	if !ok1 || !ok2 || hi <= lo {
		return none()
	}
	val := lo + ctx.Rand.Float64()*(hi-lo)
	return bindResult(args[2], arena.NewNum(val), env, arena)
}

// biRandint implements randint/3: X unifies with a uniform integer
// drawn from [Lo, Hi] inclusive.
func biRandint(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	lo, ok1 := numArg(args, 0, env, arena)
	hi, ok2 := numArg(args, 1, env, arena)
	if !ok1 || !ok2 || hi < lo {
		return none()
	}
	span := int(hi) - int(lo) + 1
	val := int(lo) + ctx.Rand.Intn(span)
	return bindResult(args[2], arena.NewNum(float64(val)), env, arena)
}

// biProb implements prob/1: succeeds with probability P, P in [0, 1].
func biProb(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	p, ok := numArg(args, 0, env, arena)
	if !ok {
		return none()
	}
	if ctx.Rand.Float64() >= p {
		return none()
	}
	return one(env)
}
