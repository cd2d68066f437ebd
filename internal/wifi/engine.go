package wifi

import (
	"log/slog"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/core/ports"
	"github.com/spectra-rf/corefw/internal/supervisor"
)

// Collector is the hardware-specific active-scan probe step, injected
// so Engine stays testable without a radio (see Scan).
type Collector func(channel int, dwell time.Duration) []domain.ScanResult

// Engine ties the scan/sniffer/deauth components to the supervisor's
// state machine; it is the only thing the command router talks to.
type Engine struct {
	wifi  ports.Wifi80211
	sup   *supervisor.Supervisor
	cache *HandshakeCache
	snif  *Sniffer
	deaut *DeauthEngine
	collect Collector
	log   *slog.Logger
}

// NewEngine constructs the 802.11 engine. emit receives sniffer
// events; collect drives the active-scan probe step.
func NewEngine(wifi ports.Wifi80211, sup *supervisor.Supervisor, emit Emitter, collect Collector, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	cache := NewHandshakeCache()
	snif := NewSniffer(wifi, cache, emit, 250*time.Millisecond, log)
	return &Engine{
		wifi:    wifi,
		sup:     sup,
		cache:   cache,
		snif:    snif,
		deaut:   NewDeauthEngine(wifi, snif.hopper),
		collect: collect,
		log:     log,
	}
}

// ScanStart runs a synchronous active scan and returns its results.
func (e *Engine) ScanStart() ([]domain.ScanResult, bool, error) {
	if err := e.sup.TryTransition(domain.StateWifiScan); err != nil {
		return nil, false, err
	}
	defer e.sup.ForceIdle()

	results, truncated := Scan(e.wifi, ScanDwellMin, e.collect, e.log)
	return results, truncated, nil
}

// SnifferStart begins promiscuous capture on channel (0 = hop).
func (e *Engine) SnifferStart(channel int) error {
	if err := e.sup.TryTransition(domain.StateWifiSniff); err != nil {
		return err
	}
	if err := e.snif.Start(channel); err != nil {
		e.sup.ForceIdle()
		return err
	}
	return nil
}

// SnifferStop halts capture and returns the radio to idle.
func (e *Engine) SnifferStop() {
	if !e.snif.hopper.Running() && e.sup.State() != domain.StateWifiSniff {
		return
	}
	e.Suspend()
	e.sup.ForceIdle()
}

// Suspend halts promiscuous capture without touching supervisor
// state — used as the supervisor's force-stop hook when a BLE
// transition claims the shared 2.4GHz front end: the supervisor has
// already moved the RadioState cell to the new BLE state, so the WiFi
// side must not overwrite it back to idle.
func (e *Engine) Suspend() {
	e.snif.Stop()
}

// SetRecon toggles recon-mode beacon emission.
func (e *Engine) SetRecon(on bool) { e.snif.SetRecon(on) }

// Deauth runs a burst against ap/target (target may be the zero value
// for broadcast) on channel with count frames.
func (e *Engine) Deauth(target, ap [6]byte, channel int, count int) (DeauthResult, error) {
	if err := e.sup.TryTransition(domain.StateWifiDeauthBurst); err != nil {
		return DeauthResult{}, err
	}
	defer e.sup.ForceIdle()

	return e.deaut.Run(target, ap, channel, count)
}
