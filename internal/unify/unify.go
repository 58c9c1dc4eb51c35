package unify

import (
	"math"

	"github.com/rfielding/bog/internal/term"
)

// Tolerance is the absolute numeric tolerance applied when unifying two
// Num terms (§4.3).
const Tolerance = 1e-9

// Unify attempts to make a and b identical by binding variables into env.
// Both sides are dereferenced via Subst before comparison. Unify mutates
// env directly; callers that need backtracking isolation must clone env
// before calling Unify (the resolver always does). There is no occurs
// check (§4.3, §9): binding a variable to a term that contains it is
// allowed and will not terminate if later dereferenced.
func Unify(a, b *term.Term, env *term.Env, arena *term.Arena) bool {
	a = Subst(a, env, arena)
	b = Subst(b, env, arena)

	if a.Kind == term.Var && b.Kind == term.Var && a.Text == b.Text {
		return true
	}
	if a.Kind == term.Var {
		env.Bind(a.Text, b)
		return true
	}
	if b.Kind == term.Var {
		env.Bind(b.Text, a)
		return true
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case term.Num:
		return math.Abs(a.NumVal-b.NumVal) <= Tolerance
	case term.Atom:
		return a.Text == b.Text
	case term.Expr:
		return a.ExprOp == b.ExprOp &&
			Unify(a.Left, b.Left, env, arena) &&
			Unify(a.Right, b.Right, env, arena)
	case term.Compound:
		if a.Text != b.Text || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Unify(a.Args[i], b.Args[i], env, arena) {
				return false
			}
		}
		return true
	case term.List:
		return unifyLists(a, b, env, arena)
	default:
		return false
	}
}

// unifyLists implements §4.3's open-tail unification rules.
func unifyLists(a, b *term.Term, env *term.Env, arena *term.Arena) bool {
	la, lb := len(a.Items), len(b.Items)
	n := la
	if lb < n {
		n = lb
	}
	for i := 0; i < n; i++ {
		if !Unify(a.Items[i], b.Items[i], env, arena) {
			return false
		}
	}

	switch {
	case la == lb:
		switch {
		case a.Tail != nil && b.Tail != nil:
			return Unify(a.Tail, b.Tail, env, arena)
		case a.Tail != nil:
			return Unify(a.Tail, arena.NewList(nil, nil), env, arena)
		case b.Tail != nil:
			return Unify(b.Tail, arena.NewList(nil, nil), env, arena)
		default:
			return true
		}

	case la < lb:
		if a.Tail == nil {
			return false
		}
		remainder := arena.NewList(b.Items[la:], b.Tail)
		return Unify(a.Tail, remainder, env, arena)

	default: // la > lb
		if b.Tail == nil {
			return false
		}
		remainder := arena.NewList(a.Items[lb:], a.Tail)
		return Unify(b.Tail, remainder, env, arena)
	}
}
