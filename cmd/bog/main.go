// Command bog is the process entrypoint: load bog.toml, start a
// scheduler driven by an independent tick goroutine (§5's "async tick
// task"), expose the debug HTTP surface, and read programs from stdin
// one evaluation at a time. The terminal line editor, history, syntax
// highlighting and REPL command parsing described in §1 as external
// collaborators are not implemented here; this is the minimal driver
// that exercises the core end to end. Grounded on
// cmd/turducken/main.go's flag-based entrypoint and reqsrv/main.go's
// env(key, default) + http.Server shape.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/rfielding/bog/internal/builtins"
	"github.com/rfielding/bog/internal/config"
	"github.com/rfielding/bog/internal/diagnostics"
	"github.com/rfielding/bog/internal/liveeval"
	"github.com/rfielding/bog/internal/scheduler"
	"github.com/rfielding/bog/internal/server"
	"github.com/rfielding/bog/internal/state"
	"github.com/rfielding/bog/internal/term"
)

// releaseVersion is set via ldflags during build.
var releaseVersion = "dev"

func main() {
	configPath := flag.String("config", "bog.toml", "path to a bog.toml config file")
	addr := flag.String("addr", "", "debug HTTP server address (overrides bog.toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("bog: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	dsn := config.Env("BOG_SENTRY_DSN", cfg.Diagnostics.SentryDSN)
	env := config.Env("BOG_ENV", cfg.Diagnostics.Environment)
	reporter := diagnostics.Init(dsn, env, "bog@"+releaseVersion)
	defer reporter.Flush(2)

	reg := builtins.NewRegistry()
	st := state.NewManager()

	cb := scheduler.Callbacks{
		Init: func(any) { log.Println("scheduler: start") },
		Time: wallClock(),
		Kick: loggingDrum("kick"), Snare: loggingDrum("snare"), Hat: loggingDrum("hat"),
		Clap: loggingDrum("clap"), Noise: loggingDrum("noise"),
		Sine: loggingMelodic("sine"), Square: loggingMelodic("square"), Triangle: loggingMelodic("triangle"),
	}

	sched := scheduler.New(cb, reg, st, nil)
	sched.Configure(cfg.Scheduler.BPM, cfg.Scheduler.Swing, cfg.Scheduler.LookaheadMs, cfg.Scheduler.GridBeats)
	if cfg.Scheduler.Seed != 0 {
		sched.SetSeed(cfg.Scheduler.Seed)
	}
	if cfg.Scheduler.ArenaBlockLimit > 0 {
		sched.SetMaxArenaBlocks(cfg.Scheduler.ArenaBlockLimit)
	}

	trans := scheduler.NewTransition(sched)
	trans.SetQuantisation(cfg.Scheduler.Quantisation)

	eval := liveeval.New(sched, trans)
	eval.AddCallback(func(success bool, _ *term.Program, text string, err error) {
		if success {
			log.Printf("bog: installed program (%d bytes)", len(text))
			return
		}
		log.Printf("bog: evaluate failed: %v", err)
	})

	sched.Start()

	go tickLoop(sched, trans, reporter)

	srv := server.New(eval, sched)
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("bog: debug server listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("bog: debug server error: %v", err)
		}
	}()

	readPrograms(eval)
}

// readPrograms is the minimal stand-in for the out-of-scope REPL: stdin
// lines accumulate until a blank line (or end of input), and each such
// block is evaluated as a whole program, exercising the live-evaluator
// contract end to end.
func readPrograms(eval *liveeval.Evaluator) {
	scanner := bufio.NewScanner(os.Stdin)
	var buf string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if buf != "" {
				if err := eval.Evaluate(buf); err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
				}
				buf = ""
			}
			continue
		}
		buf += line + "\n"
	}
	if buf != "" {
		if err := eval.Evaluate(buf); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

// tickLoop is the independent "async tick" task §5 requires: it wakes
// roughly every 10ms, calls Tick followed by Process, and recovers any
// panic so a single bad resolution can't take the process down.
func tickLoop(sched *scheduler.Scheduler, trans *scheduler.Transition, reporter *diagnostics.Reporter) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		runTick(sched, trans, reporter)
	}
}

func runTick(sched *scheduler.Scheduler, trans *scheduler.Transition, reporter *diagnostics.Reporter) {
	defer func() {
		if r := recover(); r != nil {
			reporter.TickPanic(r)
		}
	}()
	if err := sched.Tick(); err != nil {
		reporter.ArenaExhausted("scheduler tick", err)
	}
	trans.Process(sched.Now())
}

func wallClock() func(any) float64 {
	start := time.Now()
	return func(any) float64 {
		return time.Since(start).Seconds()
	}
}

func loggingDrum(name string) func(any, float64, float64) {
	return func(_ any, t, vel float64) {
		log.Printf("voice %-8s t=%.3f vel=%.2f", name, t, vel)
	}
}

func loggingMelodic(name string) func(any, float64, float64, float64) {
	return func(_ any, t, midi, vel float64) {
		log.Printf("voice %-8s t=%.3f midi=%.1f vel=%.2f", name, t, midi, vel)
	}
}
