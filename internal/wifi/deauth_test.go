package wifi

import (
	"testing"

	"github.com/spectra-rf/corefw/internal/mockhw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHopper struct {
	running  bool
	started  int
	stopped  int
}

func (h *stubHopper) Running() bool { return h.running }
func (h *stubHopper) Start()        { h.running = true; h.started++ }
func (h *stubHopper) Stop() bool    { h.running = false; h.stopped++; return true }

func TestBuildFrameLayout(t *testing.T) {
	addr1 := [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	ap := [6]byte{1, 2, 3, 4, 5, 6}
	f := buildFrame(addr1, ap, 7, 1)

	require.Len(t, f, deauthFrameLen)
	assert.Equal(t, []byte{0xC0, 0x00}, f[0:2], "frame control: management/deauth")
	assert.Equal(t, []byte{0x00, 0x00}, f[2:4], "duration must be zero")
	assert.Equal(t, addr1[:], f[4:10])
	assert.Equal(t, ap[:], f[10:16])
	assert.Equal(t, ap[:], f[16:22])
	assert.Equal(t, uint16(7), uint16(f[24])|uint16(f[25])<<8)
}

func TestNextSeqWraps(t *testing.T) {
	d := &DeauthEngine{}
	d.seq.Store(0x0FFE)
	assert.Equal(t, uint16(0x0FFF), d.nextSeq())
	assert.Equal(t, uint16(0x0000), d.nextSeq())
}

func TestDeauthEngineRunInjectsAndRestores(t *testing.T) {
	wifi := mockhw.NewWifi()
	hopper := &stubHopper{running: true}
	d := NewDeauthEngine(wifi, hopper)

	var frames [][]byte
	wifi.Injected = func(frame []byte) {
		frames = append(frames, append([]byte(nil), frame...))
	}
	_ = wifi.SetOwnMAC([6]byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA})
	prevMAC := wifi.OwnMAC()

	ap := [6]byte{1, 2, 3, 4, 5, 6}
	res, err := d.Run([6]byte{}, ap, 6, 5)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 5, res.Injected)
	assert.Equal(t, 6, res.Channel)
	require.Len(t, frames, 5)

	assert.Equal(t, prevMAC, wifi.OwnMAC(), "own MAC must be restored after the burst")
	assert.Equal(t, 1, hopper.stopped)
	assert.Equal(t, 0, hopper.started, "hopping must stay off after a burst, even though it was running before, until SNIFF_START re-arms it")
	assert.NotEmpty(t, res.RunID, "each burst gets its own correlation ID")

	reasons := make([]uint16, len(frames))
	for i, f := range frames {
		reasons[i] = uint16(f[24]) | uint16(f[25])<<8
	}
	assert.Equal(t, []uint16{7, 6, 2, 4, 1}, reasons, "reason codes must rotate through deauthReasonCycle")
}

func TestDeauthEngineUsesBroadcastWhenTargetUnset(t *testing.T) {
	wifi := mockhw.NewWifi()
	hopper := &stubHopper{}
	d := NewDeauthEngine(wifi, hopper)

	var lastFrame []byte
	wifi.Injected = func(frame []byte) { lastFrame = append([]byte(nil), frame...) }

	_, err := d.Run([6]byte{}, [6]byte{9, 9, 9, 9, 9, 9}, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, lastFrame)
	assert.Equal(t, broadcastMAC[:], lastFrame[4:10])
}
