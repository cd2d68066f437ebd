// Package heartbeat emits the periodic sys_status line and assembles
// sys_info on demand from capability presence flags.
package heartbeat

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Interval is the sys_status emission period (spec.md §4).
const Interval = 5 * time.Second

// Emitter is the heartbeat's outbound message sink.
type Emitter interface {
	EmitSysStatus(heap, minHeap uint32, rssi int, uptimeMS int64)
	EmitSysInfo(chip, version string, freeHeap, totalHeap, psram uint32, nfc, cc1101 bool)
}

// Capabilities records which optional peripherals were detected
// present at startup (spec.md §7: absent hardware is marked absent in
// sys_info, other features proceed).
type Capabilities struct {
	Chip    string
	Version string
	PSRAM   uint32
	NFC     bool
	CC1101  bool
}

// Heartbeat drives the 5s sys_status ticker and answers GET_INFO.
type Heartbeat struct {
	emit Emitter
	caps Capabilities
	// RSSISource reports the current link RSSI for sys_status; nil reports 0.
	RSSISource func() int

	mu        sync.Mutex
	minHeap   uint32
	startedAt time.Time
}

// New constructs a Heartbeat. startedAt is captured at construction
// for uptime_ms.
func New(emit Emitter, caps Capabilities) *Heartbeat {
	return &Heartbeat{emit: emit, caps: caps, startedAt: time.Now(), minHeap: ^uint32(0)}
}

// Run blocks emitting sys_status every Interval until ctx is done.
func (h *Heartbeat) Run(ctx context.Context) {
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick()
		}
	}
}

func (h *Heartbeat) tick() {
	heap, _ := h.heapStats()
	rssi := 0
	if h.RSSISource != nil {
		rssi = h.RSSISource()
	}

	h.mu.Lock()
	if heap < h.minHeap {
		h.minHeap = heap
	}
	minHeap := h.minHeap
	h.mu.Unlock()

	h.emit.EmitSysStatus(heap, minHeap, rssi, time.Since(h.startedAt).Milliseconds())
}

// GetInfo emits a sys_info record from the current heap stats and the
// capability presence flags captured at startup.
func (h *Heartbeat) GetInfo() {
	free, total := h.heapStats()
	h.emit.EmitSysInfo(h.caps.Chip, h.caps.Version, free, total, h.caps.PSRAM, h.caps.NFC, h.caps.CC1101)
}

// heapStats reports (free, total) heap in bytes via runtime.MemStats
// as the stand-in for the target's heap allocator statistics (no real
// embedded allocator is available on the development/test host).
func (h *Heartbeat) heapStats() (free, total uint32) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return uint32(m.HeapIdle), uint32(m.HeapSys)
}
