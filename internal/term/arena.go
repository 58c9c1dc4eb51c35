package term

import "errors"

// blockCapacity is the number of Term slots per linked block. At roughly
// 100 bytes per Term this keeps each block in the same ballpark as the
// spec's "default block >= 4 KiB" guidance without pretending Go gives us
// raw byte-aligned storage to carve up.
const blockCapacity = 64

// ErrArenaExhausted is the sticky error an Arena carries once it has
// grown past its configured MaxBlocks ceiling (§4.1/§7's "resource
// exhaustion ... treated as fatal"). A Go arena backed by growable
// slices can't hit genuine host out-of-memory in any way a test can
// exercise deterministically, so MaxBlocks is the explicit, test-
// reachable stand-in for that condition.
var ErrArenaExhausted = errors.New("term: arena block capacity exhausted")

type block struct {
	terms [blockCapacity]Term
	used  int
}

// Arena is a bump allocator for Terms. Terms built in an Arena are freed
// wholesale when the Arena is dropped; there is no per-Term destructor.
// A single Arena is not safe for concurrent allocation — each tick,
// each solution substitution, and the compiled program each get their own.
type Arena struct {
	blocks []*block
	// oversizeThreshold is set to blockCapacity by the constructors but
	// alloc does not consult it: every Term, whatever its argument count,
	// takes one slot in the current block, and there are no dedicated
	// oversize blocks.
	oversizeThreshold int

	// MaxBlocks caps the number of blocks this arena may allocate; 0
	// (the default from NewArena) means unlimited. Once the cap would be
	// exceeded, Err starts returning ErrArenaExhausted and further
	// allocations are served from a single reused overflow slot instead
	// of growing without bound — callers that don't check Err still get
	// a non-nil Term back rather than a nil-pointer crash, but must
	// treat the arena's remaining output as garbage once Err is non-nil.
	MaxBlocks int
	err       error
	overflow  *block
}

// NewArena creates an empty, unbounded Arena.
func NewArena() *Arena {
	return &Arena{oversizeThreshold: blockCapacity}
}

// NewArenaWithLimit creates an Arena that refuses to grow past maxBlocks
// blocks, surfacing ErrArenaExhausted through Err once it would.
// maxBlocks <= 0 means unlimited, matching NewArena.
func NewArenaWithLimit(maxBlocks int) *Arena {
	return &Arena{oversizeThreshold: blockCapacity, MaxBlocks: maxBlocks}
}

// Err returns the arena's sticky exhaustion error, or nil if the arena
// has not exceeded its MaxBlocks ceiling.
func (a *Arena) Err() error {
	return a.err
}

func (a *Arena) alloc() *Term {
	if a.err != nil {
		if a.overflow == nil {
			a.overflow = &block{}
		}
		a.overflow.used = 0
		return &a.overflow.terms[0]
	}
	if n := len(a.blocks); n == 0 || a.blocks[n-1].used == blockCapacity {
		if a.MaxBlocks > 0 && n >= a.MaxBlocks {
			a.err = ErrArenaExhausted
			return a.alloc()
		}
		a.blocks = append(a.blocks, &block{})
	}
	b := a.blocks[len(a.blocks)-1]
	t := &b.terms[b.used]
	b.used++
	return t
}

// NewNum allocates a Num term in a.
func (a *Arena) NewNum(v float64) *Term {
	t := a.alloc()
	t.Kind = Num
	t.NumVal = v
	return t
}

// NewAtom allocates an Atom term in a. The string is duplicated into the
// arena's ownership the way the reference design duplicates C strings;
// in Go that simply means taking a private copy so callers can't mutate
// shared backing arrays out from under the term.
func (a *Arena) NewAtom(name string) *Term {
	t := a.alloc()
	t.Kind = Atom
	t.Text = dupString(name)
	return t
}

// NewVar allocates a Var term in a.
func (a *Arena) NewVar(name string) *Term {
	t := a.alloc()
	t.Kind = Var
	t.Text = dupString(name)
	return t
}

// NewCompound allocates a Compound term with the given functor and
// arguments. Arity is implicitly len(args).
func (a *Arena) NewCompound(functor string, args []*Term) *Term {
	t := a.alloc()
	t.Kind = Compound
	t.Text = dupString(functor)
	t.Args = args
	return t
}

// NewList allocates a List term. tail may be nil for a proper list.
func (a *Arena) NewList(items []*Term, tail *Term) *Term {
	t := a.alloc()
	t.Kind = List
	t.Items = items
	t.Tail = tail
	return t
}

// NewExpr allocates an arithmetic Expr term.
func (a *Arena) NewExpr(op Op, left, right *Term) *Term {
	t := a.alloc()
	t.Kind = Expr
	t.ExprOp = op
	t.Left = left
	t.Right = right
	return t
}

func dupString(s string) string {
	b := make([]byte, len(s))
	copy(b, s)
	return string(b)
}
