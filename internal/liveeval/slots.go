package liveeval

import "strings"

// Def stores or replaces the named slot's body text. A slot is a named
// fragment of source (one or more clauses) that Assemble can include or
// exclude independently, backing the `:def NAME RULE` REPL command.
func (e *Evaluator) Def(name, body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.slots {
		if s.name == name {
			e.slots[i].body = body
			return
		}
	}
	e.slots = append(e.slots, slot{name: name, body: body})
}

// Undef removes the named slot entirely.
func (e *Evaluator) Undef(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.slots {
		if s.name == name {
			e.slots = append(e.slots[:i], e.slots[i+1:]...)
			return
		}
	}
}

// Mute sets the named slot's mute bit.
func (e *Evaluator) Mute(name string) {
	e.setFlag(name, func(s *slot) { s.muted = true })
}

// Unmute clears the named slot's mute bit.
func (e *Evaluator) Unmute(name string) {
	e.setFlag(name, func(s *slot) { s.muted = false })
}

// Solo marks the named slot as soloed; when any slot is soloed, Assemble
// includes only soloed slots regardless of mute bits.
func (e *Evaluator) Solo(name string) {
	e.setFlag(name, func(s *slot) { s.solo = true })
}

// Unsolo clears every slot's solo bit.
func (e *Evaluator) Unsolo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.slots {
		e.slots[i].solo = false
	}
}

func (e *Evaluator) setFlag(name string, apply func(s *slot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.slots {
		if e.slots[i].name == name {
			apply(&e.slots[i])
			return
		}
	}
}

// SlotNames returns the currently defined slot names in definition
// order, for the `:slots` REPL command.
func (e *Evaluator) SlotNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, len(e.slots))
	for i, s := range e.slots {
		names[i] = s.name
	}
	return names
}

// ClearSlots removes every defined slot, backing `:clear`.
func (e *Evaluator) ClearSlots() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slots = nil
}

// Assemble concatenates every non-muted slot body (or, if any slot is
// soloed, every soloed slot body) separated by newlines, and evaluates
// the result — the generalized `:mute`/`:solo` re-evaluation step §6
// describes as a required core primitive.
func (e *Evaluator) Assemble() error {
	e.mu.Lock()
	anySolo := false
	for _, s := range e.slots {
		if s.solo {
			anySolo = true
			break
		}
	}
	var bodies []string
	for _, s := range e.slots {
		if anySolo {
			if s.solo {
				bodies = append(bodies, s.body)
			}
			continue
		}
		if !s.muted {
			bodies = append(bodies, s.body)
		}
	}
	e.mu.Unlock()

	return e.Evaluate(strings.Join(bodies, "\n"))
}
