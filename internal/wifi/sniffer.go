package wifi

import (
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/core/ports"
	"github.com/spectra-rf/corefw/internal/supervisor"
	"github.com/spectra-rf/corefw/internal/telemetry"
)

// pulseRSSIFloor/Ceil bound the dBm-to-0..100 mapping for `pulse`
// (spec.md §4.4).
const (
	pulseRSSIFloor = -95
	pulseRSSICeil  = -30

	pulseSampleWindow  = 10
	statsPacketWindow  = 100
)

// Emitter is the sniffer's outbound message sink, implemented by the
// router/serialio glue so this package stays transport-agnostic.
type Emitter interface {
	EmitPulse(val, channel int)
	EmitSniffStats(count, m1, m2, complete uint64, uptimeMS int64)
	EmitClientProbe(mac [6]byte, ssid string, rssi int)
	EmitRecon(ssid string, bssid [6]byte, rssi, channel int)
	EmitHandshake(hs *domain.Handshake)
}

// Sniffer runs the promiscuous-mode RX callback: packet statistics,
// pulse/sniff_stats heartbeats, probe/beacon/EAPOL dispatch (spec.md §4.4).
type Sniffer struct {
	wifi   ports.Wifi80211
	cache  *HandshakeCache
	emit   Emitter
	hopper *supervisor.ChannelHopper
	log    *slog.Logger

	recon atomic.Bool

	packetCount atomic.Uint64
	m1Count     atomic.Uint64
	m2Count     atomic.Uint64
	completeCount atomic.Uint64

	rssiSum     int64
	rssiSamples int
	startedAt   time.Time
}

// NewSniffer constructs a Sniffer bound to wifi/cache/emit; hopDelay is
// passed to the channel hopper used when channel == 0.
func NewSniffer(wifi ports.Wifi80211, cache *HandshakeCache, emit Emitter, hopDelay time.Duration, log *slog.Logger) *Sniffer {
	if log == nil {
		log = slog.Default()
	}
	return &Sniffer{
		wifi:   wifi,
		cache:  cache,
		emit:   emit,
		hopper: supervisor.NewChannelHopper(wifi, hopDelay, log),
		log:    log,
	}
}

// SetRecon toggles recon mode (gates beacon emission only).
func (s *Sniffer) SetRecon(on bool) { s.recon.Store(on) }

// Start configures the radio for promiscuous capture. channel == 0
// starts the channel hopper; any other value pins a single channel.
func (s *Sniffer) Start(channel int) error {
	s.startedAt = time.Now()
	if err := s.wifi.SetPromiscuous(true); err != nil {
		return domain.WrapError(domain.KindHardwareError, "enable promiscuous mode", err)
	}
	s.wifi.SetRXCallback(s.onFrame)

	if channel == 0 {
		s.hopper.Start()
	} else if err := s.wifi.SetChannel(channel); err != nil {
		return domain.WrapError(domain.KindHardwareError, "set sniffer channel", err)
	}
	return nil
}

// Stop halts capture: stops the hopper (if running), clears the RX
// callback, and disables promiscuous mode.
func (s *Sniffer) Stop() {
	s.hopper.Stop()
	s.wifi.SetRXCallback(nil)
	if err := s.wifi.SetPromiscuous(false); err != nil {
		s.log.Warn("sniffer: disable promiscuous mode failed", "err", err)
	}
}

// onFrame is invoked on the radio task for every captured frame.
func (s *Sniffer) onFrame(frame []byte, rssi int, channel int) {
	count := s.packetCount.Add(1)
	telemetry.PacketsCaptured.WithLabelValues(strconv.Itoa(channel)).Inc()
	s.trackRSSI(rssi, channel)
	if count%statsPacketWindow == 0 {
		s.emit.EmitSniffStats(count, s.m1Count.Load(), s.m2Count.Load(), s.completeCount.Load(), time.Since(s.startedAt).Milliseconds())
	}

	fc := ParseFrameControl(frame)
	hdrLen := HeaderLen(fc.FrameType, fc.Subtype, fc.QoS, fc.HTC, fc.ToDS && fc.FromDS)
	if len(frame) < hdrLen {
		telemetry.PacketsDropped.WithLabelValues("short_header").Inc()
		return
	}
	hdr, body := frame[:hdrLen], frame[hdrLen:]

	switch fc.FrameType {
	case typeMgmt:
		s.handleMgmt(fc.Subtype, hdr, body, rssi, channel)
	case typeData:
		s.handleData(hdr, fc, body, rssi, channel)
	}
}

// trackRSSI maintains the rolling 10-sample average and emits a pulse
// record mapping it onto 0..100 over [-95, -30] dBm.
func (s *Sniffer) trackRSSI(rssi, channel int) {
	s.rssiSum += int64(rssi)
	s.rssiSamples++
	if s.rssiSamples < pulseSampleWindow {
		return
	}
	avg := int(s.rssiSum / int64(s.rssiSamples))
	s.rssiSum, s.rssiSamples = 0, 0

	clamped := avg
	if clamped < pulseRSSIFloor {
		clamped = pulseRSSIFloor
	}
	if clamped > pulseRSSICeil {
		clamped = pulseRSSICeil
	}
	val := (clamped - pulseRSSIFloor) * 100 / (pulseRSSICeil - pulseRSSIFloor)
	s.emit.EmitPulse(val, channel)
}

func (s *Sniffer) handleMgmt(subtype int, hdr, body []byte, rssi, channel int) {
	switch subtype {
	case subtypeProbeReq:
		if len(hdr) < 16 {
			return
		}
		var src [6]byte
		copy(src[:], hdr[10:16])
		ssid, _ := findIE(body, ieTagSSID)
		s.emit.EmitClientProbe(src, ssid, rssi)
	case subtypeBeacon:
		if !s.recon.Load() {
			return
		}
		if len(hdr) < 16 || len(body) < 12 {
			return
		}
		var bssid [6]byte
		copy(bssid[:], hdr[10:16])
		ssid, _ := findIE(body[12:], ieTagSSID)
		s.emit.EmitRecon(ssid, bssid, rssi, channel)
	}
}

func (s *Sniffer) handleData(hdr []byte, fc FrameControlFlags, body []byte, rssi, channel int) {
	if !IsEAPOLPayload(body) {
		return
	}
	addrs, ok := ExtractAddresses(hdr, fc)
	if !ok {
		return
	}
	eapol := body[len(llcSNAPEAPOL):]
	hs, err := s.cache.Process(addrs, eapol, channel, rssi, time.Now())
	if err != nil {
		return
	}

	f, ferr := parseEAPOLKey(eapol)
	if ferr == nil {
		switch {
		case f.isM1():
			s.m1Count.Add(1)
			telemetry.HandshakeM1.Inc()
		case f.isM2():
			s.m2Count.Add(1)
			telemetry.HandshakeM2.Inc()
		}
	}
	if hs != nil {
		s.completeCount.Add(1)
		telemetry.HandshakeComplete.Inc()
		s.emit.EmitHandshake(hs)
	}
}

// ieTagSSID is the information-element tag number for the SSID.
const ieTagSSID = 0

// findIE does a linear TLV scan of an 802.11 management frame body
// (tag 1 byte, length 1 byte, value) and returns the value of the
// first element with the given tag. For SSID, a zero-length element
// (hidden network) returns ("", true).
func findIE(body []byte, tag byte) (string, bool) {
	for i := 0; i+2 <= len(body); {
		t, l := body[i], int(body[i+1])
		i += 2
		if i+l > len(body) {
			return "", false
		}
		if t == tag {
			return string(body[i : i+l]), true
		}
		i += l
	}
	return "", false
}
