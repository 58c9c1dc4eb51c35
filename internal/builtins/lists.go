package builtins

import (
	"github.com/rfielding/bog/internal/term"
	"github.com/rfielding/bog/internal/unify"
)

// biDistinct implements distinct/1: succeeds iff the argument is a
// proper list with no two structurally-equal elements.
func biDistinct(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	items, ok := listItems(sub(args[0], env, arena))
	if !ok {
		return none()
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		text := it.String()
		if seen[text] {
			return none()
		}
		seen[text] = true
	}
	return one(env)
}

// biChoose implements choose/2 ("yield each"): X unifies with every
// element of List in turn, one successor env per element, so a caller
// can backtrack across the whole list the way member/2 would in a
// full Prolog.
func biChoose(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	items, ok := listItems(sub(args[0], env, arena))
	if !ok {
		return none()
	}
	var out []*term.Env
	for _, it := range items {
		if envs := bindResult(args[1], it, env, arena); len(envs) > 0 {
			out = append(out, envs...)
		}
	}
	return out
}

// biPick implements pick/2 ("random single"): X unifies with a single
// uniformly random element of List, independently on every call.
func biPick(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	items, ok := listItems(sub(args[0], env, arena))
	if !ok || len(items) == 0 {
		return none()
	}
	idx := ctx.Rand.Intn(len(items))
	return bindResult(args[1], items[idx], env, arena)
}

// biCycle implements cycle/2: X unifies with successive elements of
// List in round-robin order across calls, keyed by the rendered list
// text via the state manager.
func biCycle(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	listTerm := sub(args[0], env, arena)
	items, ok := listItems(listTerm)
	if !ok || len(items) == 0 {
		return none()
	}
	idx := ctx.State.IncrementCycle("cycle:"+listTerm.String(), len(items))
	return bindResult(args[1], items[idx], env, arena)
}

// biRotate implements rotate/3: Result unifies with List rotated left
// by abs(Shift) mod length positions.
func biRotate(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	listTerm := sub(args[0], env, arena)
	items, ok := listItems(listTerm)
	if !ok || len(items) == 0 {
		return none()
	}
	shift, ok := numArg(args, 1, env, arena)
	if !ok {
		return none()
	}
	n := int(shift)
	if n < 0 {
		n = -n
	}
	n = n % len(items)

	rotated := make([]*term.Term, len(items))
	copy(rotated, items[n:])
	copy(rotated[len(items)-n:], items[:n])

	return bindResult(args[2], arena.NewList(rotated, nil), env, arena)
}

func bindResult(target, value *term.Term, env *term.Env, arena *term.Arena) []*term.Env {
	working := env.Clone()
	if !unify.Unify(target, value, working, arena) {
		return none()
	}
	return one(working)
}
