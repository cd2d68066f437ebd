package domain

// AuthMode enumerates the 802.11 authentication/encryption modes a scan
// result can advertise.
type AuthMode int

const (
	AuthOpen AuthMode = iota
	AuthWEP
	AuthWPA
	AuthWPA2PSK
	AuthWPA2Enterprise
	AuthWPA3
)

func (a AuthMode) String() string {
	switch a {
	case AuthOpen:
		return "open"
	case AuthWEP:
		return "wep"
	case AuthWPA:
		return "wpa"
	case AuthWPA2PSK:
		return "wpa2-psk"
	case AuthWPA2Enterprise:
		return "wpa2-ent"
	case AuthWPA3:
		return "wpa3"
	default:
		return "unknown"
	}
}

// MaxScanResults bounds a single wifi_scan_result batch (spec.md §4.4).
const MaxScanResults = 64

// ScanResult is a single network observed during an active scan. It is
// created fresh for each batch and never mutated afterward.
type ScanResult struct {
	SSID     string // empty for hidden networks
	BSSID    [6]byte
	Channel  int
	RSSI     int
	AuthMode AuthMode
}

// BleAddrType distinguishes public from resolvable-random BLE addresses.
type BleAddrType int

const (
	BleAddrPublic BleAddrType = iota
	BleAddrRandom
)

// MaxBleScanResults bounds a single ble_scan_result batch (spec.md §4.5).
const MaxBleScanResults = 64

// BleDevice is a single advertiser observed during a BLE scan, deduped
// by address within one scan batch.
type BleDevice struct {
	Address        [6]byte
	AddrType       BleAddrType
	RSSI           int
	Name           string // optional, ≤31 bytes
	HasManufID     bool
	ManufacturerID uint16
}
