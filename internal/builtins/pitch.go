package builtins

import "github.com/rfielding/bog/internal/term"

var scaleIntervals = map[string][]int{
	"ionian":      {0, 2, 4, 5, 7, 9, 11},
	"dorian":      {0, 2, 3, 5, 7, 9, 10},
	"phrygian":    {0, 1, 3, 5, 7, 8, 10},
	"lydian":      {0, 2, 4, 6, 7, 9, 11},
	"mixolydian":  {0, 2, 4, 5, 7, 9, 10},
	"aeolian":     {0, 2, 3, 5, 7, 8, 10},
	"locrian":     {0, 1, 3, 5, 6, 8, 10},
	"major_pent":  {0, 2, 4, 7, 9},
	"minor_pent":  {0, 3, 5, 7, 10},
	"blues":       {0, 3, 5, 6, 7, 10},
}

var chordIntervals = map[string][]int{
	"maj":  {0, 4, 7},
	"min":  {0, 3, 7},
	"sus2": {0, 2, 7},
	"sus4": {0, 5, 7},
	"dim":  {0, 3, 6},
	"aug":  {0, 4, 8},
	"maj7": {0, 4, 7, 11},
	"dom7": {0, 4, 7, 10},
	"min7": {0, 3, 7, 10},
}

// biScale implements scale/5: scale(Root, Mode, Degree, OctaveShift, N).
// Degree is 1-based; degrees beyond the mode's length wrap and climb an
// additional octave per full pass, before OctaveShift is applied.
func biScale(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	root, ok1 := numArg(args, 0, env, arena)
	mode, ok2 := atomText(args, 1, env, arena)
	degree, ok3 := numArg(args, 2, env, arena)
	octShift, ok4 := numArg(args, 3, env, arena)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return none()
	}
	intervals, ok := scaleIntervals[mode]
	if !ok || len(intervals) == 0 {
		return none()
	}
	d := int(degree) - 1
	n := len(intervals)
	idx := ((d % n) + n) % n
	octave := floorDivInt(d, n) + int(octShift)
	result := root + float64(intervals[idx]) + 12*float64(octave)
	return bindResult(args[4], arena.NewNum(result), env, arena)
}

// biChord implements chord/4: chord(Root, Quality, OctaveShift, N).
// Nondeterministically binds N to each tone of the named chord quality,
// one solution per tone, in ascending interval order.
func biChord(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	root, ok1 := numArg(args, 0, env, arena)
	quality, ok2 := atomText(args, 1, env, arena)
	octShift, ok3 := numArg(args, 2, env, arena)
	if !ok1 || !ok2 || !ok3 {
		return none()
	}
	intervals, ok := chordIntervals[quality]
	if !ok {
		return none()
	}
	var out []*term.Env
	for _, iv := range intervals {
		n := root + float64(iv) + 12*octShift
		if envs := bindResult(args[3], arena.NewNum(n), env, arena); len(envs) > 0 {
			out = append(out, envs...)
		}
	}
	return out
}

// biTranspose implements transpose/3: N = Root + Semitones.
func biTranspose(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	root, ok1 := numArg(args, 0, env, arena)
	semis, ok2 := numArg(args, 1, env, arena)
	if !ok1 || !ok2 {
		return none()
	}
	return bindResult(args[2], arena.NewNum(root+semis), env, arena)
}

// biAdd implements add/3: add(List, Delta, Result) broadcasts Delta
// across every numeric element of List, producing Result.
func biAdd(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	items, ok := listItems(sub(args[0], env, arena))
	if !ok {
		return none()
	}
	delta, ok := numArg(args, 1, env, arena)
	if !ok {
		return none()
	}
	shifted := make([]*term.Term, len(items))
	for i, it := range items {
		val, ok := evalNum(it)
		if !ok {
			return none()
		}
		shifted[i] = arena.NewNum(val + delta)
	}
	return bindResult(args[2], arena.NewList(shifted, nil), env, arena)
}

// biRange implements range/4: range(N, Lo, Hi, Result) folds N into
// [Lo, Hi) by octave (12-semitone) steps.
func biRange(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	n, ok1 := numArg(args, 0, env, arena)
	lo, ok2 := numArg(args, 1, env, arena)
	hi, ok3 := numArg(args, 2, env, arena)
	if !ok1 || !ok2 || !ok3 || hi <= lo {
		return none()
	}
	for n < lo {
		n += 12
	}
	for n >= hi {
		n -= 12
	}
	return bindResult(args[3], arena.NewNum(n), env, arena)
}

func floorDivInt(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
