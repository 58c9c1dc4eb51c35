package unify

import (
	"testing"

	"github.com/rfielding/bog/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyIdentity(t *testing.T) {
	a := term.NewArena()
	tt := a.NewCompound("chord", []*term.Term{a.NewNum(60), a.NewAtom("maj")})
	env := term.NewEnv()
	assert.True(t, Unify(tt, tt, env, a))
}

func TestUnifyVarBindsAndSubstitutes(t *testing.T) {
	a := term.NewArena()
	x := a.NewVar("X")
	val := a.NewNum(42)
	env := term.NewEnv()
	require.True(t, Unify(x, val, env, a))

	substA := Subst(x, env, a)
	substB := Subst(val, env, a)
	assert.Equal(t, substA.String(), substB.String())
}

func TestUnifyNumericTolerance(t *testing.T) {
	a := term.NewArena()
	env := term.NewEnv()
	assert.True(t, Unify(a.NewNum(1.0), a.NewNum(1.0+5e-10), env, a))
	assert.False(t, Unify(a.NewNum(1.0), a.NewNum(1.1), env, a))
}

func TestUnifyCompoundArityMismatchFails(t *testing.T) {
	a := term.NewArena()
	env := term.NewEnv()
	left := a.NewCompound("p", []*term.Term{a.NewNum(1)})
	right := a.NewCompound("p", []*term.Term{a.NewNum(1), a.NewNum(2)})
	assert.False(t, Unify(left, right, env, a))
}

func TestUnifyOpenListAgainstProperList(t *testing.T) {
	a := term.NewArena()
	env := term.NewEnv()

	tailVar := a.NewVar("T")
	open := a.NewList([]*term.Term{a.NewNum(1)}, tailVar)
	proper := a.NewList([]*term.Term{a.NewNum(1), a.NewNum(2), a.NewNum(3)}, nil)

	require.True(t, Unify(open, proper, env, a))
	bound := Subst(tailVar, env, a)
	assert.Equal(t, "[2, 3]", bound.String())
}

func TestUnifyEqualLengthOpenTails(t *testing.T) {
	a := term.NewArena()
	env := term.NewEnv()

	v1, v2 := a.NewVar("A"), a.NewVar("B")
	left := a.NewList([]*term.Term{a.NewNum(1)}, v1)
	right := a.NewList([]*term.Term{a.NewNum(1)}, v2)

	require.True(t, Unify(left, right, env, a))
	assert.True(t, Unify(v1, a.NewList(nil, nil), env, a))
}

func TestUnifyListWithoutTailBecomesEmptyTailed(t *testing.T) {
	a := term.NewArena()
	env := term.NewEnv()

	withTail := a.NewList([]*term.Term{a.NewNum(1)}, a.NewVar("T"))
	without := a.NewList([]*term.Term{a.NewNum(1)}, nil)

	require.True(t, Unify(withTail, without, env, a))
}

func TestUnifyFailsAcrossKinds(t *testing.T) {
	a := term.NewArena()
	env := term.NewEnv()
	assert.False(t, Unify(a.NewAtom("x"), a.NewNum(1), env, a))
}

func TestSubstIsIdempotent(t *testing.T) {
	a := term.NewArena()
	env := term.NewEnv()
	x := a.NewVar("X")
	env.Bind("X", a.NewNum(7))

	term1 := a.NewCompound("f", []*term.Term{x, a.NewAtom("g")})
	once := Subst(term1, env, a)
	twice := Subst(once, env, a)
	assert.Equal(t, once.String(), twice.String())
}

func TestRenameClauseSharesFreshVarsAndIsFreshEachTime(t *testing.T) {
	a := term.NewArena()
	head := a.NewCompound("p", []*term.Term{a.NewVar("X")})
	body := []*term.Goal{{Kind: term.GoalPositive, Term: a.NewCompound("q", []*term.Term{a.NewVar("X")})}}
	clause := &term.Clause{Head: head, Body: body}

	r := NewRenamer()
	renamed1 := r.RenameClause(clause, a)
	renamed2 := r.RenameClause(clause, a)

	assert.Equal(t, renamed1.Head.Args[0].Text, renamed1.Body[0].Term.Args[0].Text)
	assert.NotEqual(t, renamed1.Head.Args[0].Text, renamed2.Head.Args[0].Text)
}
