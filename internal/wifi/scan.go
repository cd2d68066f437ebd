package wifi

import (
	"log/slog"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/core/ports"
)

// ScanDwellMin/ScanDwellMax bound the per-channel active-scan dwell
// (spec.md §4.4).
const (
	ScanDwellMin = 120 * time.Millisecond
	ScanDwellMax = 350 * time.Millisecond
)

// scanChannels is the set of channels an active scan visits, in order.
var scanChannels = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}

// Scan drives a synchronous active scan across all channels, dwelling
// dwell on each, and returns up to domain.MaxScanResults records. If
// more than MaxScanResults are found, the batch is truncated and
// truncated reports true (the caller logs a diagnostic, per spec.md's
// testable property for a 65+ AP scan).
//
// collect is the hardware-specific probe-and-parse step: it issues a
// probe on the given channel for the dwell duration and returns the
// networks observed. It is injected so tests can drive Scan
// without a radio.
func Scan(wifi ports.Wifi80211, dwell time.Duration, collect func(channel int, dwell time.Duration) []domain.ScanResult, log *slog.Logger) (results []domain.ScanResult, truncated bool) {
	if log == nil {
		log = slog.Default()
	}
	if dwell < ScanDwellMin {
		dwell = ScanDwellMin
	}
	if dwell > ScanDwellMax {
		dwell = ScanDwellMax
	}

	for _, ch := range scanChannels {
		if err := wifi.SetChannel(ch); err != nil {
			log.Warn("scan: set channel failed", "channel", ch, "err", err)
			continue
		}
		found := collect(ch, dwell)
		for _, r := range found {
			if len(results) >= domain.MaxScanResults {
				truncated = true
				break
			}
			results = append(results, r)
		}
		if truncated {
			break
		}
	}

	if truncated {
		log.Warn("scan: result batch truncated", "cap", domain.MaxScanResults)
	}
	return results, truncated
}
