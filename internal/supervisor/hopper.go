package supervisor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/spectra-rf/corefw/internal/core/ports"
)

// BiasedSchedule is the default 20-step channel sequence weighted
// toward 1/6/11, satisfying spec.md §8: "channels 1, 6, 11 are visited
// together ≥9 times [per 20-step window]; all channels 1..13 visited
// at least once." It visits each of the other channels once and
// interleaves 1/6/11 between them (1 four times, 6 and 11 three times
// each: 10 of the 20 steps).
var BiasedSchedule = []int{
	1, 2, 6, 3, 11, 4, 1, 5, 6, 7,
	11, 8, 1, 9, 6, 10, 11, 12, 1, 13,
}

// ChannelHopper cycles the WiFi capability through BiasedSchedule at a
// fixed dwell interval while enabled, grounded on
// hopping/hopper.go's ticker+resetChan loop, adapted from a Linux
// ChannelSwitcher to the ports.Wifi80211 capability directly.
type ChannelHopper struct {
	wifi  ports.Wifi80211
	delay time.Duration
	log   *slog.Logger

	mu       sync.Mutex
	idx      int
	stopCh   chan struct{}
	done     chan struct{}
	running  bool
}

// NewChannelHopper constructs a hopper over the given capability.
func NewChannelHopper(wifi ports.Wifi80211, delay time.Duration, log *slog.Logger) *ChannelHopper {
	if delay <= 0 {
		delay = 250 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	return &ChannelHopper{wifi: wifi, delay: delay, log: log}
}

// Start begins hopping; it is a no-op if already running.
func (h *ChannelHopper) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.stopCh = make(chan struct{})
	h.done = make(chan struct{})
	h.mu.Unlock()

	go h.run()
}

func (h *ChannelHopper) run() {
	defer close(h.done)
	ticker := time.NewTicker(h.delay)
	defer ticker.Stop()

	h.hop()
	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			h.hop()
		}
	}
}

func (h *ChannelHopper) hop() {
	h.mu.Lock()
	ch := BiasedSchedule[h.idx%len(BiasedSchedule)]
	h.idx++
	h.mu.Unlock()

	if err := h.wifi.SetChannel(ch); err != nil {
		h.log.Warn("channel hopper: set channel failed", "channel", ch, "err", err)
	}
}

// Stop signals the hopper to exit and waits up to 500ms (spec.md §4.3:
// "exits cleanly ... forced termination after 500ms"). Returns true if
// it exited cleanly within the bound.
func (h *ChannelHopper) Stop() bool {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return true
	}
	stopCh, done := h.stopCh, h.done
	h.mu.Unlock()

	close(stopCh)
	select {
	case <-done:
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		return true
	case <-time.After(500 * time.Millisecond):
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		h.log.Warn("channel hopper: forced termination after 500ms wait")
		return false
	}
}

// Running reports whether the hopper is currently active.
func (h *ChannelHopper) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}
