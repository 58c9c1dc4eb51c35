package term

// GoalKind distinguishes an ordinary term goal from a negation.
type GoalKind int

const (
	GoalPositive GoalKind = iota
	GoalNegation
)

// Goal is one step of a clause body. A positive Goal carries a term to
// solve; a negation carries a set of alternative goal lists — the
// disjunction `A ; B` inside a `\+` is pre-expanded into Alternatives so
// the resolver only ever needs to enumerate pure conjunctions.
type Goal struct {
	Kind         GoalKind
	Term         *Term
	Alternatives [][]*Goal
}

// Clause is `head :- body` (a fact when Body is empty).
type Clause struct {
	Head *Term
	Body []*Goal
}

// Program is an ordered vector of Clauses. Clause order matters: the
// resolver tries clauses in program order.
type Program struct {
	Clauses []*Clause
}
