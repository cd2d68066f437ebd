package wifi

import (
	"testing"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/mockhw"
	"github.com/stretchr/testify/assert"
)

func TestScanVisitsAllChannelsAndAggregates(t *testing.T) {
	wifiCap := mockhw.NewWifi()
	var visited []int
	collect := func(ch int, dwell time.Duration) []domain.ScanResult {
		visited = append(visited, ch)
		return []domain.ScanResult{{SSID: "net", Channel: ch}}
	}

	results, truncated := Scan(wifiCap, ScanDwellMin, collect, nil)
	assert.False(t, truncated)
	assert.Len(t, results, len(scanChannels))
	assert.Equal(t, scanChannels, visited)
}

func TestScanTruncatesAtMaxResults(t *testing.T) {
	wifiCap := mockhw.NewWifi()
	collect := func(ch int, dwell time.Duration) []domain.ScanResult {
		out := make([]domain.ScanResult, 10)
		for i := range out {
			out[i] = domain.ScanResult{Channel: ch}
		}
		return out
	}

	results, truncated := Scan(wifiCap, ScanDwellMin, collect, nil)
	assert.True(t, truncated)
	assert.Len(t, results, domain.MaxScanResults)
}

func TestScanClampsDwell(t *testing.T) {
	wifiCap := mockhw.NewWifi()
	var gotDwells []time.Duration
	collect := func(ch int, dwell time.Duration) []domain.ScanResult {
		gotDwells = append(gotDwells, dwell)
		return nil
	}
	Scan(wifiCap, time.Millisecond, collect, nil)
	for _, d := range gotDwells {
		assert.Equal(t, ScanDwellMin, d)
	}

	gotDwells = nil
	Scan(wifiCap, time.Hour, collect, nil)
	for _, d := range gotDwells {
		assert.Equal(t, ScanDwellMax, d)
	}
}
