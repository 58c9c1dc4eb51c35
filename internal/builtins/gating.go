package builtins

import "github.com/rfielding/bog/internal/term"

// biCooldown implements cooldown/3: cooldown(Now, Key, Gap) succeeds at
// most once per Gap time units for a given Key, recording Now as the new
// last-trigger time on success.
func biCooldown(args []*term.Term, env *term.Env, ctx *Context, arena *term.Arena) []*term.Env {
	now, ok2 := numArg(args, 0, env, arena)
	key, ok1 := atomText(args, 1, env, arena)
	gap, ok3 := numArg(args, 2, env, arena)
	if !ok1 || !ok2 || !ok3 {
		return none()
	}
	if !ctx.State.CanTrigger(key, now, gap) {
		return none()
	}
	ctx.State.SetLastTrigger(key, now)
	return one(env)
}
