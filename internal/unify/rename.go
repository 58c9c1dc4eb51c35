package unify

import (
	"fmt"

	"github.com/rfielding/bog/internal/term"
)

// Renamer assigns fresh $N-suffixed variable names to clauses before they
// are tried against a goal (§4.4). N is a monotone counter maintained for
// the whole resolution episode the Renamer is scoped to.
type Renamer struct {
	counter int
}

// NewRenamer returns a Renamer with its counter at zero.
func NewRenamer() *Renamer {
	return &Renamer{}
}

// RenameClause returns a deep copy of c with every variable replaced by a
// fresh Var; repeated occurrences of the same source variable name share
// one fresh Var, built via a per-call name-to-Var map.
func (r *Renamer) RenameClause(c *term.Clause, arena *term.Arena) *term.Clause {
	r.counter++
	mapping := make(map[string]*term.Term)
	head := r.renameTerm(c.Head, mapping, arena)
	body := make([]*term.Goal, len(c.Body))
	for i, g := range c.Body {
		body[i] = r.renameGoal(g, mapping, arena)
	}
	return &term.Clause{Head: head, Body: body}
}

func (r *Renamer) renameGoal(g *term.Goal, mapping map[string]*term.Term, arena *term.Arena) *term.Goal {
	switch g.Kind {
	case term.GoalNegation:
		alts := make([][]*term.Goal, len(g.Alternatives))
		for i, alt := range g.Alternatives {
			renamed := make([]*term.Goal, len(alt))
			for j, gg := range alt {
				renamed[j] = r.renameGoal(gg, mapping, arena)
			}
			alts[i] = renamed
		}
		return &term.Goal{Kind: term.GoalNegation, Alternatives: alts}
	default:
		return &term.Goal{Kind: term.GoalPositive, Term: r.renameTerm(g.Term, mapping, arena)}
	}
}

func (r *Renamer) renameTerm(t *term.Term, mapping map[string]*term.Term, arena *term.Arena) *term.Term {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case term.Num, term.Atom:
		return t

	case term.Var:
		if fresh, ok := mapping[t.Text]; ok {
			return fresh
		}
		fresh := arena.NewVar(fmt.Sprintf("%s$%d", t.Text, r.counter))
		mapping[t.Text] = fresh
		return fresh

	case term.Compound:
		args := make([]*term.Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = r.renameTerm(a, mapping, arena)
		}
		return arena.NewCompound(t.Text, args)

	case term.List:
		items := make([]*term.Term, len(t.Items))
		for i, it := range t.Items {
			items[i] = r.renameTerm(it, mapping, arena)
		}
		var tail *term.Term
		if t.Tail != nil {
			tail = r.renameTerm(t.Tail, mapping, arena)
		}
		return arena.NewList(items, tail)

	case term.Expr:
		return arena.NewExpr(t.ExprOp, r.renameTerm(t.Left, mapping, arena), r.renameTerm(t.Right, mapping, arena))

	default:
		return t
	}
}
