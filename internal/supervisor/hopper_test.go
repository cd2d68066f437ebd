package supervisor

import (
	"testing"
	"time"

	"github.com/spectra-rf/corefw/internal/mockhw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiasedScheduleVisitFrequencyLaw(t *testing.T) {
	counts := make(map[int]int)
	for _, ch := range BiasedSchedule {
		counts[ch]++
	}
	for ch := 1; ch <= 13; ch++ {
		assert.GreaterOrEqual(t, counts[ch], 1, "channel %d must be visited at least once", ch)
	}
	assert.GreaterOrEqual(t, counts[1]+counts[6]+counts[11], 9, "channels 1/6/11 combined must dominate the 20-step window")
}

func TestChannelHopperStartStop(t *testing.T) {
	wifi := mockhw.NewWifi()
	h := NewChannelHopper(wifi, 2*time.Millisecond, nil)

	h.Start()
	require.True(t, h.Running())
	time.Sleep(20 * time.Millisecond)
	assert.True(t, h.Stop())
	assert.False(t, h.Running())
	assert.Contains(t, []int{1, 2, 6, 3, 11, 4, 5, 7, 8, 9, 10, 12, 13}, wifi.Channel())
}

func TestChannelHopperStopWhenNotRunning(t *testing.T) {
	h := NewChannelHopper(mockhw.NewWifi(), time.Millisecond, nil)
	assert.True(t, h.Stop())
}

func TestChannelHopperStartIsIdempotent(t *testing.T) {
	wifi := mockhw.NewWifi()
	h := NewChannelHopper(wifi, time.Millisecond, nil)
	h.Start()
	h.Start() // must not spawn a second worker
	time.Sleep(10 * time.Millisecond)
	assert.True(t, h.Stop())
}
