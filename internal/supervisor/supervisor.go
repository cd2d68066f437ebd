// Package supervisor arbitrates radio state: WiFi and BLE share the
// 2.4GHz front end and are mutually exclusive; sub-GHz is independent.
// It also owns the WiFi channel hopper worker.
package supervisor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = telemetry.Tracer("supervisor")

// QuiescenceDelay is the settle time enforced when a transition forces
// the other 2.4GHz radio to stop (spec.md §4.3).
const QuiescenceDelay = 50 * time.Millisecond

// Supervisor owns the process-wide RadioState cell.
type Supervisor struct {
	mu    sync.Mutex
	state domain.RadioState

	// stopWifi/stopBle are invoked (outside the lock) to force the other
	// 2.4GHz radio down before a cross-radio transition completes.
	stopWifi func()
	stopBle  func()

	log *slog.Logger
}

// New constructs a Supervisor in the idle state.
func New(log *slog.Logger) *Supervisor {
	if log == nil {
		log = slog.Default()
	}
	return &Supervisor{state: domain.StateIdle, log: log}
}

// SetStopHooks registers the callbacks used to force-stop the opposite
// 2.4GHz radio during a cross-radio transition. The wiring code calls
// this once after constructing both engines, which breaks the WiFi/BLE
// import cycle (spec.md §9: the supervisor never imports an engine
// package directly).
func (s *Supervisor) SetStopHooks(stopWifi, stopBle func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWifi = stopWifi
	s.stopBle = stopBle
}

// State returns the current radio state.
func (s *Supervisor) State() domain.RadioState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TryTransition moves the radio into `to` iff the current state allows
// it: starting a state on a radio that's already active on the SAME
// radio fails with Busy; starting on the OTHER 2.4GHz radio first force
// -stops it and waits QuiescenceDelay; sub-GHz never conflicts with
// WiFi/BLE.
func (s *Supervisor) TryTransition(to domain.RadioState) error {
	_, span := tracer.Start(context.Background(), "supervisor.TryTransition",
		trace.WithAttributes(attribute.String("radio_state.to", to.String())))
	defer span.End()

	s.mu.Lock()

	if s.state == to {
		s.mu.Unlock()
		span.SetStatus(codes.Error, "already in requested state")
		return domain.NewError(domain.KindBusy, "already in requested state")
	}

	curOwner := s.state.Owner()
	newOwner := to.Owner()

	if curOwner != domain.RadioNone && curOwner == newOwner {
		// Same radio already active in a different state: caller must STOP first.
		s.mu.Unlock()
		span.SetStatus(codes.Error, "radio busy with another operation")
		return domain.NewError(domain.KindBusy, "radio busy with another operation")
	}

	needsQuiescence := false
	var stopFn func()
	if is24GHz(curOwner) && is24GHz(newOwner) && curOwner != newOwner {
		needsQuiescence = true
		if curOwner == domain.RadioWifi {
			stopFn = s.stopWifi
		} else {
			stopFn = s.stopBle
		}
	}
	s.state = to
	s.mu.Unlock()

	if needsQuiescence {
		if stopFn != nil {
			stopFn()
		}
		time.Sleep(QuiescenceDelay)
	}
	return nil
}

// ForceIdle returns the supervisor to idle unconditionally (used by STOP).
func (s *Supervisor) ForceIdle() {
	s.mu.Lock()
	s.state = domain.StateIdle
	s.mu.Unlock()
}

func is24GHz(r domain.Radio) bool {
	return r == domain.RadioWifi || r == domain.RadioBle
}
