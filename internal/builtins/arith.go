package builtins

import "github.com/rfielding/bog/internal/term"

// evalNum evaluates a fully-substituted Num/Expr term to its numeric
// value. Division by zero returns 0 rather than an error or panic,
// consistent across every Expr path (§ Open Questions).
func evalNum(t *term.Term) (float64, bool) {
	if t == nil {
		return 0, false
	}
	switch t.Kind {
	case term.Num:
		return t.NumVal, true
	case term.Expr:
		left, ok := evalNum(t.Left)
		if !ok {
			return 0, false
		}
		right, ok := evalNum(t.Right)
		if !ok {
			return 0, false
		}
		switch t.ExprOp {
		case term.Add:
			return left + right, true
		case term.Sub:
			return left - right, true
		case term.Mul:
			return left * right, true
		case term.Div:
			if right == 0 {
				return 0, true
			}
			return left / right, true
		}
	}
	return 0, false
}
