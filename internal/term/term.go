// Package term implements the Bog term model: the tagged-variant values
// that flow through parsing, unification, and resolution.
package term

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the payload a Term carries.
type Kind int

const (
	Num Kind = iota
	Atom
	Var
	Compound
	List
	Expr
)

func (k Kind) String() string {
	switch k {
	case Num:
		return "Num"
	case Atom:
		return "Atom"
	case Var:
		return "Var"
	case Compound:
		return "Compound"
	case List:
		return "List"
	case Expr:
		return "Expr"
	default:
		return "Unknown"
	}
}

// Op is an infix arithmetic operator carried by an Expr term.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
)

func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// Term is a tagged variant. A Term is immutable once constructed;
// substitution always produces a fresh Term. Only the fields relevant to
// Kind are meaningful.
type Term struct {
	Kind Kind

	NumVal float64 // Num
	Text   string  // Atom value, Var name, or Compound functor

	Args []*Term // Compound arguments, in order

	Items []*Term // List items, in order
	Tail  *Term   // List open tail; nil means a proper list

	ExprOp          Op    // Expr operator
	Left, Right     *Term // Expr operands
}

// Arity reports the argument count of a Compound term (0 otherwise).
func (t *Term) Arity() int {
	if t == nil || t.Kind != Compound {
		return 0
	}
	return len(t.Args)
}

// Callable reports the functor/arity pair a term presents for resolution
// purposes: an Atom is a 0-arity functor, a Compound carries len(Args).
// Other kinds are not callable.
func (t *Term) Callable() (functor string, arity int, ok bool) {
	if t == nil {
		return "", 0, false
	}
	switch t.Kind {
	case Atom:
		return t.Text, 0, true
	case Compound:
		return t.Text, len(t.Args), true
	default:
		return "", 0, false
	}
}

// IsNil reports whether t is the empty proper list `[]`.
func (t *Term) IsNil() bool {
	return t != nil && t.Kind == List && len(t.Items) == 0 && t.Tail == nil
}

// String renders a Term in Bog's surface syntax. It is used for error
// messages, the cycle/2 state-manager key, and round-trip tests.
func (t *Term) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Num:
		return formatNum(t.NumVal)
	case Atom:
		return t.Text
	case Var:
		return t.Text
	case Compound:
		if len(t.Args) == 0 {
			return t.Text
		}
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return t.Text + "(" + strings.Join(parts, ", ") + ")"
	case List:
		var b strings.Builder
		b.WriteByte('[')
		for i, it := range t.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(it.String())
		}
		if t.Tail != nil {
			b.WriteString("|")
			b.WriteString(t.Tail.String())
		}
		b.WriteByte(']')
		return b.String()
	case Expr:
		return fmt.Sprintf("(%s %s %s)", t.Left.String(), t.ExprOp.String(), t.Right.String())
	default:
		return "<invalid>"
	}
}

func formatNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s
}
