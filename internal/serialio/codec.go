package serialio

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// MACString formats a 6-byte address as colon-separated uppercase hex
// (spec.md §6: "MAC fields use colon-separated uppercase hex").
func MACString(mac [6]byte) string {
	return strings.ToUpper(fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5]))
}

// HexString formats bytes as uppercase hex with no separators
// (spec.md §6: "all hex fields are uppercase, no separators").
func HexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// StatusMsg is the `status` egress schema.
type StatusMsg struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

func Status(data string) StatusMsg { return StatusMsg{Type: "status", Data: data} }

// ErrorMsg is the `error` egress schema.
type ErrorMsg struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

func ErrorLine(data string) ErrorMsg { return ErrorMsg{Type: "error", Data: data} }

// SysInfoMsg is the `sys_info` egress schema.
type SysInfoMsg struct {
	Type      string `json:"type"`
	Chip      string `json:"chip"`
	Version   string `json:"version"`
	FreeHeap  uint32 `json:"free_heap"`
	TotalHeap uint32 `json:"total_heap"`
	PSRAM     uint32 `json:"psram"`
	NFC       bool   `json:"nfc"`
	CC1101    bool   `json:"cc1101"`
}

// SysStatusMsg is the `sys_status` egress schema, emitted every 5s.
type SysStatusMsg struct {
	Type     string `json:"type"`
	Heap     uint32 `json:"heap"`
	MinHeap  uint32 `json:"min_heap"`
	RSSI     int    `json:"rssi"`
	UptimeMS int64  `json:"uptime_ms"`
}

// WifiNetwork is one entry of a wifi_scan_result batch.
type WifiNetwork struct {
	SSID       string `json:"ssid"`
	BSSID      string `json:"bssid"`
	RSSI       int    `json:"rssi"`
	Channel    int    `json:"channel"`
	Encryption string `json:"encryption"`
}

// WifiScanResultMsg is the `wifi_scan_result` egress schema.
type WifiScanResultMsg struct {
	Type     string        `json:"type"`
	Count    int           `json:"count"`
	Networks []WifiNetwork `json:"networks"`
}

// BleDeviceMsg is one entry of a ble_scan_result batch.
type BleDeviceMsg struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	RSSI    int    `json:"rssi"`
}

// BleScanResultMsg is the `ble_scan_result` egress schema.
type BleScanResultMsg struct {
	Type    string         `json:"type"`
	Count   int            `json:"count"`
	Devices []BleDeviceMsg `json:"devices"`
}

// ReconMsg is the `recon` egress schema (passive beacon record).
type ReconMsg struct {
	Type    string `json:"type"`
	SSID    string `json:"ssid"`
	BSSID   string `json:"bssid"`
	RSSI    int    `json:"rssi"`
	Channel int    `json:"channel"`
}

// ClientProbeMsg is the `client_probe` egress schema.
type ClientProbeMsg struct {
	Type string `json:"type"`
	MAC  string `json:"mac"`
	SSID string `json:"ssid"`
	RSSI int    `json:"rssi"`
}

// PulseMsg is the `pulse` egress schema.
type PulseMsg struct {
	Type string `json:"type"`
	Val  int    `json:"val"`
	Ch   int    `json:"ch"`
}

// SniffStatsMsg is the `sniff_stats` egress schema.
type SniffStatsMsg struct {
	Type     string `json:"type"`
	Count    uint64 `json:"count"`
	M1       uint64 `json:"m1"`
	M2       uint64 `json:"m2"`
	Complete uint64 `json:"complete"`
	UptimeMS int64  `json:"uptime_ms"`
}

// WifiHandshakeMsg is the `wifi_handshake` egress schema.
type WifiHandshakeMsg struct {
	Type               string `json:"type"`
	BSSID              string `json:"bssid"`
	STAMac             string `json:"sta_mac"`
	Channel            int    `json:"ch"`
	RSSI               int    `json:"rssi"`
	ANonce             string `json:"anonce"`
	SNonce             string `json:"snonce"`
	MIC                string `json:"mic"`
	ReplayCounter      string `json:"replay_counter"`
	KeyDescType        uint8  `json:"key_desc_type"`
	KeyDescVersion     uint8  `json:"key_desc_version"`
	EAPOLFrame         string `json:"eapol_frame"`
	EAPOLLen           int    `json:"eapol_len"`
	Timestamp          int64  `json:"timestamp"`
}

// DeauthResultMsg is the `deauth_result` egress schema.
type DeauthResultMsg struct {
	Type    string `json:"type"`
	RunID   string `json:"run_id"`
	Success bool   `json:"success"`
	Channel int    `json:"channel"`
}

// AnalyzerDataMsg is the `analyzer_data` egress schema.
type AnalyzerDataMsg struct {
	Type string `json:"type"`
	RSSI int    `json:"rssi"`
}

// BruteProgressMsg is the `brute_progress` egress schema.
type BruteProgressMsg struct {
	Type    string `json:"type"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}
