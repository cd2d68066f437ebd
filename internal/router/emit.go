// Package router parses ingress command lines and dispatches them to
// the engines, translating results back into the egress JSON schema.
package router

import (
	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/serialio"
)

// Emitter adapts serialio.Egress to the per-engine Emitter interfaces
// (wifi.Emitter, ble.Emitter, subghz.Emitter, heartbeat.Emitter) so
// each engine package stays transport-agnostic. Constructed once in
// main and shared by every engine and the router.
type Emitter struct {
	eg *serialio.Egress
}

// NewEmitter wraps eg for use by every engine and the router.
func NewEmitter(eg *serialio.Egress) *Emitter { return &Emitter{eg: eg} }

func (e *Emitter) EmitStatus(data string) { e.eg.SendJSON(serialio.Status(data)) }
func (e *Emitter) EmitError(data string)  { e.eg.SendJSON(serialio.ErrorLine(data)) }

func (e *Emitter) EmitPulse(val, channel int) {
	e.eg.SendJSON(serialio.PulseMsg{Type: "pulse", Val: val, Ch: channel})
}

func (e *Emitter) EmitSniffStats(count, m1, m2, complete uint64, uptimeMS int64) {
	e.eg.SendJSON(serialio.SniffStatsMsg{Type: "sniff_stats", Count: count, M1: m1, M2: m2, Complete: complete, UptimeMS: uptimeMS})
}

func (e *Emitter) EmitClientProbe(mac [6]byte, ssid string, rssi int) {
	e.eg.SendJSON(serialio.ClientProbeMsg{Type: "client_probe", MAC: serialio.MACString(mac), SSID: ssid, RSSI: rssi})
}

func (e *Emitter) EmitRecon(ssid string, bssid [6]byte, rssi, channel int) {
	e.eg.SendJSON(serialio.ReconMsg{Type: "recon", SSID: ssid, BSSID: serialio.MACString(bssid), RSSI: rssi, Channel: channel})
}

func (e *Emitter) EmitHandshake(hs *domain.Handshake) {
	e.eg.SendJSON(serialio.WifiHandshakeMsg{
		Type:           "wifi_handshake",
		BSSID:          serialio.MACString(hs.BSSID),
		STAMac:         serialio.MACString(hs.STA),
		Channel:        hs.Channel,
		RSSI:           hs.RSSI,
		ANonce:         serialio.HexString(hs.ANonce[:]),
		SNonce:         serialio.HexString(hs.SNonce[:]),
		MIC:            serialio.HexString(hs.MIC[:]),
		ReplayCounter:  serialio.HexString(replayCounterBytes(hs.ReplayCounter)),
		KeyDescType:    hs.KeyDescriptorType,
		KeyDescVersion: hs.KeyDescriptorVersion,
		EAPOLFrame:     serialio.HexString(hs.EAPOLFrame),
		EAPOLLen:       len(hs.EAPOLFrame),
		Timestamp:      hs.Timestamp.Unix(),
	})
}

func replayCounterBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

func (e *Emitter) EmitWifiScanResult(results []domain.ScanResult) {
	networks := make([]serialio.WifiNetwork, 0, len(results))
	for _, r := range results {
		networks = append(networks, serialio.WifiNetwork{
			SSID: r.SSID, BSSID: serialio.MACString(r.BSSID), RSSI: r.RSSI,
			Channel: r.Channel, Encryption: r.AuthMode.String(),
		})
	}
	e.eg.SendJSON(serialio.WifiScanResultMsg{Type: "wifi_scan_result", Count: len(networks), Networks: networks})
}

func (e *Emitter) EmitBleScanResult(devices []domain.BleDevice) {
	out := make([]serialio.BleDeviceMsg, 0, len(devices))
	for _, d := range devices {
		out = append(out, serialio.BleDeviceMsg{Name: d.Name, Address: serialio.MACString(d.Address), RSSI: d.RSSI})
	}
	e.eg.SendJSON(serialio.BleScanResultMsg{Type: "ble_scan_result", Count: len(out), Devices: out})
}

func (e *Emitter) EmitDeauthResult(runID string, success bool, channel int) {
	e.eg.SendJSON(serialio.DeauthResultMsg{Type: "deauth_result", RunID: runID, Success: success, Channel: channel})
}

func (e *Emitter) EmitAnalyzerData(rssi int) {
	e.eg.SendJSON(serialio.AnalyzerDataMsg{Type: "analyzer_data", RSSI: rssi})
}

func (e *Emitter) EmitBruteProgress(current, total int) {
	e.eg.SendJSON(serialio.BruteProgressMsg{Type: "brute_progress", Current: current, Total: total})
}

func (e *Emitter) EmitSysStatus(heap, minHeap uint32, rssi int, uptimeMS int64) {
	e.eg.SendJSON(serialio.SysStatusMsg{Type: "sys_status", Heap: heap, MinHeap: minHeap, RSSI: rssi, UptimeMS: uptimeMS})
}

func (e *Emitter) EmitSysInfo(chip, version string, freeHeap, totalHeap, psram uint32, nfc, cc1101 bool) {
	e.eg.SendJSON(serialio.SysInfoMsg{Type: "sys_info", Chip: chip, Version: version, FreeHeap: freeHeap, TotalHeap: totalHeap, PSRAM: psram, NFC: nfc, CC1101: cc1101})
}
