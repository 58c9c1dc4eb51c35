package resolver

import (
	"math/rand"
	"testing"

	"github.com/rfielding/bog/internal/builtins"
	"github.com/rfielding/bog/internal/parser"
	"github.com/rfielding/bog/internal/state"
	"github.com/rfielding/bog/internal/term"
	"github.com/rfielding/bog/internal/unify"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) (*term.Program, *term.Arena) {
	t.Helper()
	prog, arena, err := parser.Parse(src)
	require.NoError(t, err)
	return prog, arena
}

func newCtx() *builtins.Context {
	return &builtins.Context{BPM: 120, State: state.NewManager(), Rand: rand.New(rand.NewSource(1))}
}

func queryOne(prog *term.Program, arena *term.Arena, goalSrc string) []*term.Env {
	goalProg, goalArena, err := parser.Parse(goalSrc + " :- true.")
	if err != nil {
		panic(err)
	}
	_ = goalArena
	goal := goalProg.Clauses[0].Head
	r := New(prog, builtins.NewRegistry())
	return r.Solve([]*term.Goal{{Kind: term.GoalPositive, Term: goal}}, term.NewEnv(), newCtx(), arena)
}

func TestResolveFactsByArity(t *testing.T) {
	prog, arena := compile(t, `
likes(alice, music).
likes(bob, coffee).
`)
	envs := queryOne(prog, arena, "likes(alice, music)")
	require.Len(t, envs, 1)

	none := queryOne(prog, arena, "likes(alice, coffee)")
	require.Len(t, none, 0)
}

func TestResolveRuleWithConjunction(t *testing.T) {
	prog, arena := compile(t, `
parent(alice, bob).
parent(bob, carol).
grandparent(X, Z) :- parent(X, Y), parent(Y, Z).
`)
	reg := builtins.NewRegistry()
	r := New(prog, reg)

	x := arena.NewVar("X")
	z := arena.NewVar("Z")
	goalTerm := arena.NewCompound("grandparent", []*term.Term{x, z})
	envs := r.Solve([]*term.Goal{{Kind: term.GoalPositive, Term: goalTerm}}, term.NewEnv(), newCtx(), arena)

	require.Len(t, envs, 1)
	xv := unify.Subst(x, envs[0], arena)
	zv := unify.Subst(z, envs[0], arena)
	require.Equal(t, "alice", xv.Text)
	require.Equal(t, "carol", zv.Text)
}

func TestResolveNegationAsFailure(t *testing.T) {
	prog, arena := compile(t, `
bird(tweety).
bird(polly).
flies(penguin).
canfly(X) :- bird(X), \+ grounded(X).
grounded(polly).
`)
	reg := builtins.NewRegistry()
	r := New(prog, reg)

	x := arena.NewVar("X")
	goalTerm := arena.NewCompound("canfly", []*term.Term{x})
	envs := r.Solve([]*term.Goal{{Kind: term.GoalPositive, Term: goalTerm}}, term.NewEnv(), newCtx(), arena)

	require.Len(t, envs, 1)
	xv := unify.Subst(x, envs[0], arena)
	require.Equal(t, "tweety", xv.Text)
}

func TestResolveBuiltinDispatch(t *testing.T) {
	prog, arena := compile(t, `trigger(N, Out) :- Out is N * 2.`)
	reg := builtins.NewRegistry()
	r := New(prog, reg)

	out := arena.NewVar("Out")
	goalTerm := arena.NewCompound("trigger", []*term.Term{arena.NewNum(21), out})
	envs := r.Solve([]*term.Goal{{Kind: term.GoalPositive, Term: goalTerm}}, term.NewEnv(), newCtx(), arena)

	require.Len(t, envs, 1)
	outv := unify.Subst(out, envs[0], arena)
	require.Equal(t, 42.0, outv.NumVal)
}

func TestResolveDisjunctionYieldsMultipleClauses(t *testing.T) {
	prog, arena := compile(t, `
color(red).
pick(X) :- color(X) ; X = blue.
`)
	reg := builtins.NewRegistry()
	r := New(prog, reg)

	x := arena.NewVar("X")
	goalTerm := arena.NewCompound("pick", []*term.Term{x})
	envs := r.Solve([]*term.Goal{{Kind: term.GoalPositive, Term: goalTerm}}, term.NewEnv(), newCtx(), arena)

	require.Len(t, envs, 2)
}

func TestResolveNoMatchingClauseFails(t *testing.T) {
	prog, arena := compile(t, `likes(alice, music).`)
	reg := builtins.NewRegistry()
	r := New(prog, reg)

	goalTerm := arena.NewCompound("unknown", []*term.Term{arena.NewAtom("x")})
	envs := r.Solve([]*term.Goal{{Kind: term.GoalPositive, Term: goalTerm}}, term.NewEnv(), newCtx(), arena)
	require.Len(t, envs, 0)
}
