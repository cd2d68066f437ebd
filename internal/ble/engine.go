// Package ble implements the BLE engine: controller lifecycle,
// general-discovery scanning, and advertisement-spam bursts.
package ble

import (
	"log/slog"
	"sync"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/core/ports"
	"github.com/spectra-rf/corefw/internal/supervisor"
)

// scanCancelDrain is the wait enforced when a running scan is
// cancelled to start a new one (spec.md §4.5).
const scanCancelDrain = 50 * time.Millisecond

// Emitter is the BLE engine's outbound message sink.
type Emitter interface {
	EmitBleScanResult(devices []domain.BleDevice)
	EmitStatus(data string)
}

// Engine owns BLE readiness (two-flag: initialized/synced) and drives
// scan/spam through the supervisor's mutual-exclusion policy.
type Engine struct {
	ble ports.BleController
	sup *supervisor.Supervisor
	emit Emitter
	log *slog.Logger

	mu          sync.Mutex
	initialized bool
	synced      bool
	scanning    bool
	scanCancel  chan struct{}
	scanDone    chan struct{}
	devices     map[[6]byte]domain.BleDevice
}

// New constructs the BLE engine over the given controller.
func New(ble ports.BleController, sup *supervisor.Supervisor, emit Emitter, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{ble: ble, sup: sup, emit: emit, log: log}
	e.ble.SetSyncCallback(func() {
		e.mu.Lock()
		e.synced = true
		e.mu.Unlock()
	})
	e.ble.SetResetCallback(func() {
		e.mu.Lock()
		e.initialized, e.synced = false, false
		e.mu.Unlock()
	})
	return e
}

// Init brings up the controller/host stack and picks an address
// (random, falling back to public on failure).
func (e *Engine) Init() error {
	if err := e.ble.Init(); err != nil {
		return domain.WrapError(domain.KindHardwareError, "ble controller init", err)
	}
	if ok := e.ble.SetAddress(true); !ok {
		e.ble.SetAddress(false)
	}
	e.mu.Lock()
	e.initialized = true
	e.mu.Unlock()
	return nil
}

// Deinit disables activity and tears the stack down, with a bounded
// 1s wait for the host worker.
func (e *Engine) Deinit() {
	e.StopScan()
	done := make(chan struct{})
	go func() {
		e.ble.Deinit()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		e.log.Warn("ble: deinit forced after 1s wait")
	}
	e.mu.Lock()
	e.initialized, e.synced = false, false
	e.mu.Unlock()
}

func (e *Engine) ready() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized || !e.synced {
		return domain.NewError(domain.KindNotReady, "ble controller not ready")
	}
	return nil
}

// ScanStart issues a general-discovery scan with duplicate reporting
// enabled; durationMS == 0 means indefinite. If a scan is already
// running, it is cancelled first and the call waits scanCancelDrain.
func (e *Engine) ScanStart(durationMS int) error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.isScanning() {
		e.StopScan()
		time.Sleep(scanCancelDrain)
	}
	if err := e.sup.TryTransition(domain.StateBleScan); err != nil {
		return err
	}

	e.mu.Lock()
	e.scanning = true
	e.scanCancel = make(chan struct{})
	e.scanDone = make(chan struct{})
	e.devices = make(map[[6]byte]domain.BleDevice)
	cancel, done := e.scanCancel, e.scanDone
	e.mu.Unlock()

	e.ble.SetAdvertiseCallback(func(addr [6]byte, random bool, rssi int, name string, manufID uint16, hasManufID bool) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if len(e.devices) >= domain.MaxBleScanResults {
			if _, exists := e.devices[addr]; !exists {
				return
			}
		}
		at := domain.BleAddrPublic
		if random {
			at = domain.BleAddrRandom
		}
		e.devices[addr] = domain.BleDevice{
			Address: addr, AddrType: at, RSSI: rssi, Name: name,
			HasManufID: hasManufID, ManufacturerID: manufID,
		}
	})

	if err := e.ble.StartScan(true, true); err != nil {
		e.mu.Lock()
		e.scanning = false
		e.mu.Unlock()
		e.sup.ForceIdle()
		return domain.WrapError(domain.KindHardwareError, "start ble scan", err)
	}

	go func() {
		defer close(done)
		expired := false
		if durationMS == 0 {
			<-cancel
		} else {
			select {
			case <-cancel:
			case <-time.After(time.Duration(durationMS) * time.Millisecond):
				expired = true
			}
		}
		e.finishScan()
		if expired {
			e.sup.ForceIdle()
		}
	}()
	return nil
}

func (e *Engine) isScanning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scanning
}

// StopScan cancels a running scan (if any), started by the user via
// STOP or a new SCAN_BLE, and waits for it to finish emitting before
// returning the radio to idle.
func (e *Engine) StopScan() {
	if !e.isScanning() {
		return
	}
	e.Suspend()
	e.sup.ForceIdle()
}

// Suspend cancels a running scan and waits for it to finish emitting,
// without touching supervisor state — used as the supervisor's
// force-stop hook when a WiFi transition claims the shared 2.4GHz
// front end: the supervisor has already moved the RadioState cell to
// the new WiFi state, so the BLE side must not overwrite it back to
// idle.
func (e *Engine) Suspend() {
	e.mu.Lock()
	if !e.scanning {
		e.mu.Unlock()
		return
	}
	cancel, done := e.scanCancel, e.scanDone
	e.mu.Unlock()

	close(cancel)
	<-done
}

func (e *Engine) finishScan() {
	_ = e.ble.StopScan()
	e.mu.Lock()
	devices := make([]domain.BleDevice, 0, len(e.devices))
	for _, d := range e.devices {
		devices = append(devices, d)
	}
	e.scanning = false
	e.mu.Unlock()

	e.emit.EmitBleScanResult(devices)
}
