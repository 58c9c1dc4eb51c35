// Package resolver implements SLD resolution over a parsed Program,
// with negation-as-failure and no cut, assert/retract, or attributed
// variables (§4.5).
package resolver

import (
	"github.com/rfielding/bog/internal/builtins"
	"github.com/rfielding/bog/internal/term"
	"github.com/rfielding/bog/internal/unify"
)

// Resolver binds a Program and a builtin Registry to a single Renamer,
// so that every clause instance tried during a resolution episode gets
// a monotonically distinct set of fresh variables (§4.4).
type Resolver struct {
	Program  *term.Program
	Registry *builtins.Registry
	renamer  *unify.Renamer
}

// New returns a Resolver ready to solve goals against prog using reg for
// builtin dispatch.
func New(prog *term.Program, reg *builtins.Registry) *Resolver {
	return &Resolver{Program: prog, Registry: reg, renamer: unify.NewRenamer()}
}

// Solve enumerates every environment that satisfies goals starting from
// env, trying clauses in program order and builtins before user clauses
// at each callable goal.
func (r *Resolver) Solve(goals []*term.Goal, env *term.Env, ctx *builtins.Context, arena *term.Arena) []*term.Env {
	if len(goals) == 0 {
		return []*term.Env{env}
	}

	head, rest := goals[0], goals[1:]

	if head.Kind == term.GoalNegation {
		return r.solveNegation(head, rest, env, ctx, arena)
	}

	resolved := unify.Subst(head.Term, env, arena)
	functor, arity, ok := resolved.Callable()
	if !ok {
		return nil
	}

	switch {
	case functor == "true" && arity == 0:
		return r.Solve(rest, env, ctx, arena)
	case functor == "fail" && arity == 0, functor == "false" && arity == 0:
		return nil
	}

	var solutions []*term.Env

	if fn, ok := r.Registry.Lookup(functor, arity); ok {
		for _, next := range fn(resolved.Args, env, ctx, arena) {
			solutions = append(solutions, r.Solve(rest, next, ctx, arena)...)
		}
		return solutions
	}

	for _, clause := range r.Program.Clauses {
		cHead, cArity, ok := clause.Head.Callable()
		if !ok || cHead != functor || cArity != arity {
			continue
		}

		renamed := r.renamer.RenameClause(clause, arena)
		working := env.Clone()
		if !unify.Unify(resolved, renamed.Head, working, arena) {
			continue
		}

		combined := make([]*term.Goal, 0, len(renamed.Body)+len(rest))
		combined = append(combined, renamed.Body...)
		combined = append(combined, rest...)
		solutions = append(solutions, r.Solve(combined, working, ctx, arena)...)
	}

	return solutions
}

// solveNegation implements \+: it succeeds (continuing with rest
// against the original, unmodified env) iff none of the negated goal's
// alternatives produce a solution against a cloned env. Negation never
// binds anything into the outer env — a failed inner derivation may
// have partially bound its clone, and that clone is discarded either
// way.
func (r *Resolver) solveNegation(g *term.Goal, rest []*term.Goal, env *term.Env, ctx *builtins.Context, arena *term.Arena) []*term.Env {
	for _, alt := range g.Alternatives {
		if len(r.Solve(alt, env.Clone(), ctx, arena)) > 0 {
			return nil
		}
	}
	return r.Solve(rest, env, ctx, arena)
}
