// Package ports declares the capability interfaces each engine consumes.
// Concrete radio/peripheral drivers (SPI/I2C transaction layers, pin
// mapping, register defaults) are external collaborators per spec.md §1;
// the core only ever sees these typed handles.
package ports

import (
	"context"
	"time"

	"periph.io/x/conn/v3"
)

// Wifi80211 is the capability surface of the 802.11 radio. A real
// implementation wraps a monitor-mode NIC or an SoC's WiFi MAC/PHY; the
// core never touches registers directly.
type Wifi80211 interface {
	// SetChannel retunes the radio to the given 802.11 channel.
	SetChannel(channel int) error
	// SetPromiscuous toggles delivery of all captured frames to RX.
	SetPromiscuous(enabled bool) error
	// SetOwnMAC overrides the radio's transmit source address (used by deauth source-spoofing).
	SetOwnMAC(mac [6]byte) error
	// OwnMAC returns the radio's current transmit source address.
	OwnMAC() [6]byte
	// SetPowerSave toggles the radio's power-save mode.
	SetPowerSave(enabled bool) error
	// StartAPMode brings the radio up as a (minimal) AP on the given channel, for deauth source-spoofing.
	StartAPMode(channel int) error
	// StopRadio halts active TX/RX mode.
	StopRadio() error
	// Inject transmits a raw 802.11 frame.
	Inject(frame []byte) error
	// SetRXCallback registers the promiscuous-mode frame sink; nil disables it.
	SetRXCallback(cb func(frame []byte, rssi int, channel int))
	// Channel returns the radio's current channel.
	Channel() int
	// Present reports whether this capability is backed by real hardware.
	Present() bool
}

// BleController is the capability surface of the BLE radio/host stack.
type BleController interface {
	Init() error
	Deinit() error
	// SetAddress configures the device's own BLE address; ok reports whether a random address was used.
	SetAddress(random bool) (ok bool)
	StartScan(generalDiscovery bool, duplicates bool) error
	StopScan() error
	SetAdvertiseCallback(cb func(addr [6]byte, random bool, rssi int, name string, manufID uint16, hasManufID bool))
	SetSyncCallback(cb func())
	SetResetCallback(cb func())
	StartAdvertising(payload []byte, duration time.Duration) error
	StopAdvertising() error
	Present() bool
}

// SubGHzCapability holds the hardware handle of the sub-GHz transceiver,
// a periph.io SPI/I2C conn.Conn. No engine code reads it; the sub-GHz
// engine drives the transceiver only through SubGHzTransceiver below.
type SubGHzCapability struct {
	// Bus is the typed hardware handle (e.g. an SPI conn.Conn to a CC1101-class chip).
	Bus conn.Conn
}

// SubGHzTransceiver is the operation surface the sub-GHz engine drives.
type SubGHzTransceiver interface {
	SetFrequencyRegister(reg uint32) error
	Calibrate() error
	// RXAvailable returns the number of bytes currently buffered in the RX FIFO.
	RXAvailable() int
	// ReadRX copies up to len(p) bytes out of the RX FIFO.
	ReadRX(p []byte) (int, error)
	// WriteTX writes a chunk (≤60 bytes) to the TX FIFO and starts transmission.
	WriteTX(p []byte) error
	// MARCStateIdle polls the radio's state machine; returns true once idle.
	MARCStateIdle(ctx context.Context) (bool, error)
	// ReadRSSI samples the current RSSI.
	ReadRSSI() (int, error)
	Present() bool
}

// Sink is the external log/status collaborator (spec.md §1): the
// physical display driver and on-device menu GUI consume it, but never
// the reverse.
type Sink interface {
	Log(message string, level string)
}

// InputEvents is the contract for forwarding INPUT_* verbs to the GUI collaborator.
type InputEvents interface {
	Up()
	Down()
	Select()
	Back()
}

// Rebooter is the external collaborator SYS_RESET delegates to after its grace period.
type Rebooter interface {
	Reboot(ctx context.Context) error
}
