// Package server implements the debug/status HTTP surface operationalizing
// §6's "REPL-observable surface" contract (parse and install, slot
// listing, tick history; mute/solo bits are not exposed) without the REPL's line editing or history, which
// stay out of scope per §1. Grounded directly on the teacher's
// pkg/server.Server: a sync.RWMutex-guarded counters map plus a bounded
// time-series ring, a bare http.ServeMux, and encoding/json handlers —
// re-pointed at Bog's own state instead of the teacher's Prolog engine.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rfielding/bog/internal/liveeval"
	"github.com/rfielding/bog/internal/scheduler"
)

// maxTimeSeries bounds the in-memory counter history, matching the
// teacher's 1000-point ring.
const maxTimeSeries = 1000

// TimePoint is one counter sample, mirroring the teacher's TimePoint.
type TimePoint struct {
	Time    time.Time `json:"time"`
	Counter string    `json:"counter"`
	Value   int64     `json:"value"`
}

// Server exposes the current program's source, the defined slot names,
// and tick history over HTTP for external tooling (dashboards, the
// REPL's own status pane). It never implements REPL command parsing
// itself.
type Server struct {
	eval  *liveeval.Evaluator
	sched *scheduler.Scheduler
	mux   *http.ServeMux

	mu         sync.RWMutex
	counters   map[string]int64
	timeSeries []TimePoint
}

// New builds a Server bound to eval and sched; handlers read their state
// but never mutate scheduler or evaluator internals beyond what Evaluate
// itself does.
func New(eval *liveeval.Evaluator, sched *scheduler.Scheduler) *Server {
	s := &Server{
		eval:     eval,
		sched:    sched,
		counters: make(map[string]int64),
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/api/program", s.handleProgram)
	s.mux.HandleFunc("/api/slots", s.handleSlots)
	s.mux.HandleFunc("/api/ticks", s.handleTicks)
	s.mux.HandleFunc("/api/metrics", s.handleMetrics)
	return s
}

// Handler returns the server's http.Handler for embedding in a caller's
// own listener, or for http.ListenAndServe directly.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) incCounter(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
	s.timeSeries = append(s.timeSeries, TimePoint{
		Time:    time.Now(),
		Counter: name,
		Value:   s.counters[name],
	})
	if len(s.timeSeries) > maxTimeSeries {
		s.timeSeries = s.timeSeries[len(s.timeSeries)-maxTimeSeries:]
	}
}

// handleProgram returns the most recently evaluated source text, and on
// POST evaluates and installs the supplied source text. It does not run
// the slot Assemble step.
func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]string{
			"source": s.eval.LastCode(),
		})

	case http.MethodPost:
		var req struct {
			Source string `json:"source"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.eval.Evaluate(req.Source); err != nil {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		s.incCounter("program_loads")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSlots returns the currently defined slot names, backing the
// `:slots` REPL command's status view.
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"slots": s.eval.SlotNames(),
	})
	s.incCounter("slots_queries")
}

// handleTicks returns the bounded recent tick log from the scheduler.
func (s *Server) handleTicks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ticks": s.sched.TickLog(),
	})
}

// handleMetrics returns the request counters and time series, exactly
// the shape the teacher's handleMetrics returns.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	counters := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		counters[k] = v
	}
	series := make([]TimePoint, len(s.timeSeries))
	copy(series, s.timeSeries)
	s.mu.RUnlock()

	_ = json.NewEncoder(w).Encode(map[string]any{
		"counters":   counters,
		"timeSeries": series,
	})
}
