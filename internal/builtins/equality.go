package builtins

import (
	"math"

	"github.com/rfielding/bog/internal/term"
	"github.com/rfielding/bog/internal/unify"
)

// biUnify implements =/2 and eq/2: standard unification against a clone
// of env so a failed attempt leaves the caller's env untouched.
func biUnify(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	working := env.Clone()
	if !unify.Unify(args[0], args[1], working, arena) {
		return none()
	}
	return one(working)
}

// biIs implements is/2: evaluate the right side as arithmetic and unify
// the left side with the resulting number.
func biIs(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	val, ok := numArg(args, 1, env, arena)
	if !ok {
		return none()
	}
	working := env.Clone()
	if !unify.Unify(args[0], arena.NewNum(val), working, arena) {
		return none()
	}
	return one(working)
}

// biNumEq implements =:=/2: both sides evaluate to numerically equal
// values (within numTolerance).
func biNumEq(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	left, ok1 := numArg(args, 0, env, arena)
	right, ok2 := numArg(args, 1, env, arena)
	if !ok1 || !ok2 {
		return none()
	}
	if math.Abs(left-right) > numTolerance {
		return none()
	}
	return one(env)
}

// biNumNeq implements =\=/2: the negation of =:=/2.
func biNumNeq(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	left, ok1 := numArg(args, 0, env, arena)
	right, ok2 := numArg(args, 1, env, arena)
	if !ok1 || !ok2 {
		return none()
	}
	if math.Abs(left-right) <= numTolerance {
		return none()
	}
	return one(env)
}

const numTolerance = 1e-9
