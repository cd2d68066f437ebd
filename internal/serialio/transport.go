// Package serialio implements the line-delimited JSON serial command
// plane: ingress line framing, egress JSON encoding with fair mutex
// ordering, and the per-message-type frame codecs.
package serialio

import (
	"io"

	"github.com/tarm/serial"
)

// Transport is the byte-stream contract for the companion link. Both
// the UART and USB-CDC/JTAG physical layers satisfy it identically
// (spec.md §6: "semantics are identical").
type Transport = io.ReadWriteCloser

// TransportConfig selects and parameterizes the physical transport.
type TransportConfig struct {
	Device string
	Baud   int
	USBCDC bool
}

// OpenTransport opens the configured transport. UART mode is backed by
// a real serial port (github.com/tarm/serial, 8N1, no handshake,
// grounded on seedhammer's driver/mjolnir/device.go). USB-CDC/JTAG
// presents the same io.ReadWriteCloser contract; since the low-level
// USB stack is an external collaborator (spec.md §1), its constructor
// is a seam the board layer fills in — OpenTransport itself chooses
// between them based on configuration, standing in for the spec's
// "hardware capability detection at init".
func OpenTransport(cfg TransportConfig) (Transport, error) {
	if cfg.USBCDC {
		return openUSBCDC(cfg)
	}
	return openUART(cfg)
}

func openUART(cfg TransportConfig) (Transport, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = 115200
	}
	sc := &serial.Config{Name: cfg.Device, Baud: baud}
	return serial.OpenPort(sc)
}

// openUSBCDC is a seam for the board layer's USB-CDC/JTAG driver. The
// core never implements the USB stack itself (out of scope, spec.md
// §1); on this build it opens the device through the same serial-port
// path as UART. Mock-hardware mode opens the transport this way too;
// only the tests substitute an in-memory buffer.
func openUSBCDC(cfg TransportConfig) (Transport, error) {
	return openUART(cfg)
}
