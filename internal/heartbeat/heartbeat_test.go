package heartbeat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureEmitter struct {
	statusCalls int
	lastHeap, lastMinHeap uint32
	lastRSSI int
	infoCalls int
	lastCaps Capabilities
	lastFree, lastTotal uint32
}

func (c *captureEmitter) EmitSysStatus(heap, minHeap uint32, rssi int, uptimeMS int64) {
	c.statusCalls++
	c.lastHeap, c.lastMinHeap, c.lastRSSI = heap, minHeap, rssi
}

func (c *captureEmitter) EmitSysInfo(chip, version string, freeHeap, totalHeap, psram uint32, nfc, cc1101 bool) {
	c.infoCalls++
	c.lastCaps = Capabilities{Chip: chip, Version: version, PSRAM: psram, NFC: nfc, CC1101: cc1101}
	c.lastFree, c.lastTotal = freeHeap, totalHeap
}

func TestGetInfoReportsCapabilities(t *testing.T) {
	emit := &captureEmitter{}
	caps := Capabilities{Chip: "corefw", Version: "dev", PSRAM: 0, NFC: true, CC1101: false}
	h := New(emit, caps)

	h.GetInfo()
	require.Equal(t, 1, emit.infoCalls)
	assert.Equal(t, caps, emit.lastCaps)
}

func TestTickTracksMinHeapAcrossCalls(t *testing.T) {
	emit := &captureEmitter{}
	h := New(emit, Capabilities{})

	calls := 0
	h.RSSISource = func() int { calls++; return -42 }

	h.tick()
	first := emit.lastMinHeap
	h.tick()
	second := emit.lastMinHeap

	assert.Equal(t, 2, emit.statusCalls)
	assert.Equal(t, 2, calls)
	assert.LessOrEqual(t, second, first, "min heap must never increase across ticks")
	assert.Equal(t, -42, emit.lastRSSI)
}

func TestTickReportsZeroRSSIWithoutSource(t *testing.T) {
	emit := &captureEmitter{}
	h := New(emit, Capabilities{})
	h.tick()
	assert.Equal(t, 0, emit.lastRSSI)
}
