package builtins

import (
	"github.com/rfielding/bog/internal/term"
	"github.com/rfielding/bog/internal/unify"
)

// sub is a short alias used throughout this package: every builtin
// receives raw argument terms that may still hold unresolved Vars and
// must substitute them against env before inspecting their shape.
func sub(t *term.Term, env *term.Env, arena *term.Arena) *term.Term {
	return unify.Subst(t, env, arena)
}

// one wraps a successful env as the single-element successor slice most
// builtins return.
func one(env *term.Env) []*term.Env {
	return []*term.Env{env}
}

// none is the empty successor slice for a failed builtin call.
func none() []*term.Env {
	return nil
}

// numArg substitutes and evaluates args[i] as a number.
func numArg(args []*term.Term, i int, env *term.Env, arena *term.Arena) (float64, bool) {
	return evalNum(sub(args[i], env, arena))
}

// atomText returns the literal text of args[i] if it substitutes to an
// Atom, otherwise "", false.
func atomText(args []*term.Term, i int, env *term.Env, arena *term.Arena) (string, bool) {
	t := sub(args[i], env, arena)
	if t == nil || t.Kind != term.Atom {
		return "", false
	}
	return t.Text, true
}

// listItems flattens a fully-substituted proper list term into its
// element slice. A non-list or an open-tailed list (Tail != nil and not
// itself an empty list) is not a proper list and returns ok=false.
func listItems(t *term.Term) ([]*term.Term, bool) {
	if t == nil || t.Kind != term.List {
		return nil, false
	}
	if t.Tail != nil {
		if t.Tail.Kind != term.List || len(t.Tail.Items) > 0 || t.Tail.Tail != nil {
			return nil, false
		}
	}
	return t.Items, true
}
