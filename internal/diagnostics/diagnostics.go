// Package diagnostics wires the optional Sentry reporting hook §7 calls
// for: arena allocation failure ("resource exhaustion ... treated as
// fatal") and any panic recovered at a tick boundary. Grounded on
// magda-api's main.go (sentry.Init/sentry.CaptureException) and
// magda-agents-go's metrics/sentry.go (span-per-event).
package diagnostics

import (
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter wraps the optional Sentry client. A zero-value Reporter
// (obtained when no DSN is configured) is a safe no-op so callers never
// need to check whether Sentry is enabled.
type Reporter struct {
	enabled bool
}

// Init configures the global Sentry client when dsn is non-empty. It
// never returns an error: an init failure is logged and diagnostics are
// silently disabled, matching §7's "never panic" propagation rule —
// observability must not become a new failure mode.
func Init(dsn, environment, release string) *Reporter {
	if dsn == "" {
		log.Println("diagnostics: no Sentry DSN configured, reporting disabled")
		return &Reporter{}
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	}); err != nil {
		log.Printf("diagnostics: failed to initialize Sentry: %v", err)
		return &Reporter{}
	}

	log.Printf("diagnostics: Sentry initialized (environment: %s, release: %s)", environment, release)
	return &Reporter{enabled: true}
}

// ArenaExhausted reports a fatal out-of-memory condition from an arena
// allocation (§4.1/§7). The enclosing operation is still expected to
// return an error to its caller; this only adds an observability trail.
func (r *Reporter) ArenaExhausted(context string, err error) {
	if r == nil || !r.enabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("bog.failure", "arena_exhausted")
		scope.SetExtra("context", context)
		sentry.CaptureException(fmt.Errorf("arena exhaustion in %s: %w", context, err))
	})
}

// TickPanic reports a panic recovered at a tick or transition boundary.
// The tick thread is expected to recover and continue on the next tick
// (§5: stop() does not cancel an in-flight tick, but a well-behaved tick
// loop must not let one bad tick kill the process).
func (r *Reporter) TickPanic(recovered any) {
	if r == nil || !r.enabled {
		log.Printf("scheduler: recovered panic in tick: %v", recovered)
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("bog.failure", "tick_panic")
		sentry.CaptureMessage(fmt.Sprintf("recovered panic in tick: %v", recovered))
	})
}

// Flush blocks until pending events are sent or timeout elapses,
// mirroring magda-api's deferred sentry.Flush(sentryFlushTimeout) at
// shutdown.
func (r *Reporter) Flush(timeoutSeconds float64) {
	if r == nil || !r.enabled {
		return
	}
	sentry.Flush(time.Duration(timeoutSeconds * float64(time.Second)))
}
