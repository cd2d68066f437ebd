package domain

// RadioState is the process-wide radio state cell owned by the
// supervisor. At most one "active" state exists per radio; WiFi and
// BLE states are mutually exclusive with each other.
type RadioState int

const (
	StateIdle RadioState = iota
	StateWifiScan
	StateWifiSniff
	StateWifiDeauthBurst
	StateBleScan
	StateBleSpam
	StateSubghzRX
	StateSubghzTX
	StateSubghzRecord
	StateSubghzBrute
	StateSubghzAnalyze
)

func (s RadioState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWifiScan:
		return "wifi_scan"
	case StateWifiSniff:
		return "wifi_sniff"
	case StateWifiDeauthBurst:
		return "wifi_deauth_burst"
	case StateBleScan:
		return "ble_scan"
	case StateBleSpam:
		return "ble_spam"
	case StateSubghzRX:
		return "subghz_rx"
	case StateSubghzTX:
		return "subghz_tx"
	case StateSubghzRecord:
		return "subghz_record"
	case StateSubghzBrute:
		return "subghz_brute"
	case StateSubghzAnalyze:
		return "subghz_analyze"
	default:
		return "unknown"
	}
}

// Radio identifies which shared front end a state belongs to.
type Radio int

const (
	RadioNone Radio = iota
	RadioWifi
	RadioBle
	RadioSubGHz
)

// Owner returns which radio front end a state belongs to, for the
// supervisor's mutual-exclusion policy (WiFi ↔ BLE share 2.4GHz;
// sub-GHz is independent).
func (s RadioState) Owner() Radio {
	switch s {
	case StateWifiScan, StateWifiSniff, StateWifiDeauthBurst:
		return RadioWifi
	case StateBleScan, StateBleSpam:
		return RadioBle
	case StateSubghzRX, StateSubghzTX, StateSubghzRecord, StateSubghzBrute, StateSubghzAnalyze:
		return RadioSubGHz
	default:
		return RadioNone
	}
}
