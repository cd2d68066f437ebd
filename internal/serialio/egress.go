package serialio

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spectra-rf/corefw/internal/telemetry"
)

// DefaultEgressTimeout bounds how long a writer waits to acquire the
// egress lock before the line is dropped (spec.md §4.1).
const DefaultEgressTimeout = 100 * time.Millisecond

// Egress serializes writers onto a single Transport so that a full
// line is either fully emitted or dropped, never interleaved with
// another line's bytes. The mutex is a buffered channel of capacity 1
// used as a timed semaphore, the idiomatic Go substitute for a mutex
// with a bounded TryLock.
type Egress struct {
	w       io.Writer
	sem     chan struct{}
	timeout time.Duration
	log     *slog.Logger
	dropped atomic.Uint64
}

// NewEgress wraps w with the fair-ordering, timed-acquisition discipline.
func NewEgress(w io.Writer, timeout time.Duration, log *slog.Logger) *Egress {
	if timeout <= 0 {
		timeout = DefaultEgressTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Egress{w: w, sem: make(chan struct{}, 1), timeout: timeout, log: log}
}

func (e *Egress) acquire() bool {
	select {
	case e.sem <- struct{}{}:
		return true
	case <-time.After(e.timeout):
		return false
	}
}

func (e *Egress) release() {
	<-e.sem
}

// SendRaw writes a line-atomic payload followed by `\n`. On timeout the
// line is dropped and the dropped counter incremented (never panics on
// a hardware I/O error — counter only, per spec.md §4.1).
func (e *Egress) SendRaw(payload []byte) {
	if !e.acquire() {
		e.dropped.Add(1)
		telemetry.EgressDropped.WithLabelValues("mutex_timeout").Inc()
		e.log.Warn("egress mutex timeout, dropping line")
		return
	}
	defer e.release()

	if _, err := e.w.Write(payload); err != nil {
		telemetry.EgressDropped.WithLabelValues("hardware_error").Inc()
		e.log.Warn("egress write failed", "err", err)
		return
	}
	if _, err := e.w.Write([]byte{'\n'}); err != nil {
		telemetry.EgressDropped.WithLabelValues("hardware_error").Inc()
		e.log.Warn("egress newline write failed", "err", err)
	}
}

// SendJSON marshals v and emits it as one line. Marshal failure counts
// as a drop rather than panicking.
func (e *Egress) SendJSON(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		telemetry.EgressDropped.WithLabelValues("marshal_error").Inc()
		e.log.Error("egress marshal failed", "err", err)
		return
	}
	e.SendRaw(b)
}

// Dropped returns the number of lines dropped since startup.
func (e *Egress) Dropped() uint64 { return e.dropped.Load() }
