// Package unify implements substitution, unification, and clause variable
// renaming over the Bog term model.
package unify

import "github.com/rfielding/bog/internal/term"

// Subst walks t, replacing Vars by their bound value (dereferencing chains)
// and rebuilding compound/list/expr terms in arena. Atoms and numbers pass
// through by reference. Subst is idempotent: Subst(Subst(t, env), env) is
// structurally identical to Subst(t, env).
func Subst(t *term.Term, env *term.Env, arena *term.Arena) *term.Term {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case term.Num, term.Atom:
		return t

	case term.Var:
		val, ok := env.Lookup(t.Text)
		if !ok {
			return t
		}
		return Subst(val, env, arena)

	case term.Compound:
		args := make([]*term.Term, len(t.Args))
		changed := false
		for i, a := range t.Args {
			args[i] = Subst(a, env, arena)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return arena.NewCompound(t.Text, args)

	case term.List:
		items := make([]*term.Term, 0, len(t.Items))
		changed := false
		for _, it := range t.Items {
			s := Subst(it, env, arena)
			if s != it {
				changed = true
			}
			items = append(items, s)
		}
		var tail *term.Term
		if t.Tail != nil {
			tail = Subst(t.Tail, env, arena)
			if tail != t.Tail {
				changed = true
			}
			if tail != nil && tail.Kind == term.List {
				items = append(items, tail.Items...)
				tail = tail.Tail
				changed = true
			}
		}
		if !changed {
			return t
		}
		return arena.NewList(items, tail)

	case term.Expr:
		left := Subst(t.Left, env, arena)
		right := Subst(t.Right, env, arena)
		if left == t.Left && right == t.Right {
			return t
		}
		return arena.NewExpr(t.ExprOp, left, right)

	default:
		return t
	}
}
