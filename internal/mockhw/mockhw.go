// Package mockhw provides capability stand-ins for the ports
// interfaces the engines and router use (Wifi80211, BleController,
// SubGHzTransceiver, InputEvents, Rebooter; there is none for Sink),
// used in --mock mode and by the engine tests. Real
// hardware drivers (SPI/I2C register access) are an external
// collaborator per the core's capability boundary; this package never
// pretends to emulate radio physics, only the interface contract.
package mockhw

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Wifi is a software stand-in for ports.Wifi80211: it records state
// transitions and echoes injected frames to an optional sink, with no
// real RF behavior.
type Wifi struct {
	mu          sync.Mutex
	channel     int
	promiscuous bool
	ownMAC      [6]byte
	cb          func(frame []byte, rssi int, channel int)

	// Injected, if set, receives every frame passed to Inject (for tests).
	Injected func(frame []byte)
}

func NewWifi() *Wifi { return &Wifi{ownMAC: [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}} }

func (w *Wifi) SetChannel(channel int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.channel = channel
	return nil
}
func (w *Wifi) Channel() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.channel
}
func (w *Wifi) SetPromiscuous(enabled bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.promiscuous = enabled
	return nil
}
func (w *Wifi) SetOwnMAC(mac [6]byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ownMAC = mac
	return nil
}
func (w *Wifi) OwnMAC() [6]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ownMAC
}
func (w *Wifi) SetPowerSave(enabled bool) error     { return nil }
func (w *Wifi) StartAPMode(channel int) error       { return w.SetChannel(channel) }
func (w *Wifi) StopRadio() error                    { return nil }
func (w *Wifi) Inject(frame []byte) error {
	if w.Injected != nil {
		w.Injected(frame)
	}
	return nil
}
func (w *Wifi) SetRXCallback(cb func(frame []byte, rssi int, channel int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cb = cb
}
func (w *Wifi) Present() bool { return true }

// Deliver feeds a synthetic frame into the registered RX callback, for tests.
func (w *Wifi) Deliver(frame []byte, rssi, channel int) {
	w.mu.Lock()
	cb := w.cb
	w.mu.Unlock()
	if cb != nil {
		cb(frame, rssi, channel)
	}
}

// BLE is a software stand-in for ports.BleController.
type BLE struct {
	mu        sync.Mutex
	syncCb    func()
	resetCb   func()
	advertCb  func(addr [6]byte, random bool, rssi int, name string, manufID uint16, hasManufID bool)
	scanning  bool
	advertising bool
}

func NewBLE() *BLE { return &BLE{} }

func (b *BLE) Init() error {
	b.mu.Lock()
	cb := b.syncCb
	b.mu.Unlock()
	if cb != nil {
		cb() // mock controller syncs immediately
	}
	return nil
}
func (b *BLE) Deinit() error {
	b.mu.Lock()
	cb := b.resetCb
	b.mu.Unlock()
	if cb != nil {
		cb()
	}
	return nil
}
func (b *BLE) SetAddress(random bool) bool { return random }
func (b *BLE) StartScan(generalDiscovery bool, duplicates bool) error {
	b.mu.Lock()
	b.scanning = true
	b.mu.Unlock()
	return nil
}
func (b *BLE) StopScan() error {
	b.mu.Lock()
	b.scanning = false
	b.mu.Unlock()
	return nil
}
func (b *BLE) SetAdvertiseCallback(cb func(addr [6]byte, random bool, rssi int, name string, manufID uint16, hasManufID bool)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advertCb = cb
}
func (b *BLE) SetSyncCallback(cb func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.syncCb = cb
}
func (b *BLE) SetResetCallback(cb func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetCb = cb
}
func (b *BLE) StartAdvertising(payload []byte, duration time.Duration) error {
	b.mu.Lock()
	b.advertising = true
	b.mu.Unlock()
	return nil
}
func (b *BLE) StopAdvertising() error {
	b.mu.Lock()
	b.advertising = false
	b.mu.Unlock()
	return nil
}
func (b *BLE) Present() bool { return true }

// Advertise feeds a synthetic advertisement into the registered
// advertise callback, for tests.
func (b *BLE) Advertise(addr [6]byte, random bool, rssi int, name string, manufID uint16, hasManufID bool) {
	b.mu.Lock()
	cb := b.advertCb
	b.mu.Unlock()
	if cb != nil {
		cb(addr, random, rssi, name, manufID, hasManufID)
	}
}

// SubGHz is a software stand-in for ports.SubGHzTransceiver.
type SubGHz struct {
	mu  sync.Mutex
	reg uint32
	rx  []byte
}

func NewSubGHz() *SubGHz { return &SubGHz{} }

func (s *SubGHz) SetFrequencyRegister(reg uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg = reg
	return nil
}
func (s *SubGHz) Calibrate() error { return nil }
func (s *SubGHz) RXAvailable() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rx)
}
func (s *SubGHz) ReadRX(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := copy(p, s.rx)
	s.rx = s.rx[n:]
	return n, nil
}
func (s *SubGHz) WriteTX(p []byte) error { return nil }
func (s *SubGHz) MARCStateIdle(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
		return true, nil
	}
}
func (s *SubGHz) ReadRSSI() (int, error) { return -70, nil }
func (s *SubGHz) Present() bool          { return true }

// Feed appends synthetic RX bytes for a record worker to drain, for tests.
func (s *SubGHz) Feed(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rx = append(s.rx, p...)
}

// Input is a logging stand-in for ports.InputEvents.
type Input struct{ Log *slog.Logger }

func (i *Input) Up()     { i.log("up") }
func (i *Input) Down()   { i.log("down") }
func (i *Input) Select() { i.log("select") }
func (i *Input) Back()   { i.log("back") }
func (i *Input) log(evt string) {
	if i.Log != nil {
		i.Log.Info("input event", "event", evt)
	}
}

// Rebooter is a no-op stand-in for ports.Rebooter.
type Rebooter struct{ Log *slog.Logger }

func (r *Rebooter) Reboot(ctx context.Context) error {
	if r.Log != nil {
		r.Log.Info("sys_reset: reboot requested (mock, no-op)")
	}
	return nil
}
