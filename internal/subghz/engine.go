// Package subghz implements the sub-GHz engine: frequency control,
// record/replay, code-space brute force, and an RSSI analyzer, all
// driven through the ports.SubGHzTransceiver capability.
package subghz

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/core/ports"
	"github.com/spectra-rf/corefw/internal/supervisor"
)

// crystalMHz is the reference crystal frequency used by the
// register-math formula (spec.md §4.6).
const crystalMHz = 26.0

// FreqMin/FreqMax bound SET_FREQ: valid in (300.0, 928.0] (spec.md
// §4.6; see DESIGN.md for the reconciliation with §4.2's looser
// 950.0 figure).
const (
	FreqMin = 300.0
	FreqMax = 928.0
)

// Worker state aliases, for readability at each start-site.
const (
	stateRecord   = domain.StateSubghzRecord
	stateReplay   = domain.StateSubghzTX
	stateBrute    = domain.StateSubghzBrute
	stateAnalyzer = domain.StateSubghzAnalyze
)

// FrequencyRegister computes the device register value for mhz:
// round(mhz * 2^16 / 26.0).
func FrequencyRegister(mhz float64) uint32 {
	return uint32(math.Round(mhz * 65536.0 / crystalMHz))
}

// ValidFrequency reports whether mhz is in the open-closed range
// (300.0, 928.0].
func ValidFrequency(mhz float64) bool {
	return mhz > FreqMin && mhz <= FreqMax
}

// Emitter is the sub-GHz engine's outbound message sink.
type Emitter interface {
	EmitStatus(data string)
	EmitAnalyzerData(rssi int)
	EmitBruteProgress(current, total int)
}

// Engine owns the singleton record/replay/brute/analyzer workers; each
// engine entrypoint refuses to start a second worker while one is
// active (spec.md §4.6: "starting while active returns a busy status").
type Engine struct {
	radio ports.SubGHzTransceiver
	sup   *supervisor.Supervisor
	emit  Emitter
	log   *slog.Logger

	mu       sync.Mutex
	buf      *domain.CaptureBuffer
	worker   context.CancelFunc
	workerWG sync.WaitGroup
}

// New constructs the sub-GHz engine.
func New(radio ports.SubGHzTransceiver, sup *supervisor.Supervisor, emit Emitter, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{radio: radio, sup: sup, emit: emit, log: log, buf: domain.NewCaptureBuffer(0)}
}

// SetFrequency retunes the radio and strobes calibration.
func (e *Engine) SetFrequency(mhz float64) error {
	if !ValidFrequency(mhz) {
		return domain.NewError(domain.KindInvalidArgument, "Invalid frequency")
	}
	reg := FrequencyRegister(mhz)
	if err := e.radio.SetFrequencyRegister(reg); err != nil {
		return domain.WrapError(domain.KindHardwareError, "set frequency register", err)
	}
	if err := e.radio.Calibrate(); err != nil {
		return domain.WrapError(domain.KindHardwareError, "calibrate", err)
	}
	return nil
}

// startWorker enters the given RadioState and spawns run under a
// cancellable context, refusing to start if one is already active.
func (e *Engine) startWorker(state domain.RadioState, run func(ctx context.Context)) error {
	e.mu.Lock()
	if e.worker != nil {
		e.mu.Unlock()
		return domain.NewError(domain.KindBusy, "sub-ghz worker already active")
	}
	e.mu.Unlock()

	if err := e.sup.TryTransition(state); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.worker = cancel
	e.mu.Unlock()

	e.workerWG.Add(1)
	go func() {
		defer e.workerWG.Done()
		defer e.sup.ForceIdle()
		defer func() {
			e.mu.Lock()
			e.worker = nil
			e.mu.Unlock()
		}()
		run(ctx)
	}()
	return nil
}

// Stop cancels the active worker (if any) and waits for it to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.worker
	e.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	e.workerWG.Wait()
}

// Active reports whether a worker is currently running.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.worker != nil
}
