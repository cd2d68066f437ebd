// Package wifi implements the 802.11 engine: active scan, promiscuous
// sniffing with channel hopping, the EAPOL 4-way handshake assembler,
// and deauthentication burst injection.
package wifi

import "encoding/binary"

// FrameKind is the tagged-variant discriminant spec.md §9 calls for,
// replacing a C-style union of packet layouts: a pure function
// (ClassifyFrame) decodes the frame control field and returns the
// discriminant only; callers slice the payload themselves.
type FrameKind int

const (
	FrameUnknown FrameKind = iota
	FrameMgmtBeacon
	FrameMgmtProbeReq
	FrameMgmtDeauth
	FrameMgmtOther
	FrameDataEAPOL
	FrameDataOther
)

// dot11Type/subtype constants (IEEE 802.11 frame control field).
const (
	typeMgmt = 0
	typeData = 2

	subtypeBeacon   = 8
	subtypeProbeReq = 4
	subtypeDeauth   = 12
	subtypeQoSData  = 8 // within the data type's subtype space (0x08..0x0F are QoS variants)
)

// llcSNAPEAPOL is the 8-byte LLC/SNAP header that precedes an EAPOL
// payload on an 802.11 data frame (spec.md §4.4).
var llcSNAPEAPOL = []byte{0xAA, 0xAA, 0x03, 0x00, 0x00, 0x00, 0x88, 0x8E}

// Addresses holds the BSSID/STA/DA triple extracted per the
// ToDS/FromDS truth table of spec.md §4.4.
type Addresses struct {
	BSSID [6]byte
	STA   [6]byte
	DA    [6]byte
}

// HeaderLen computes the 802.11 MAC header length: base 24 bytes, +2
// for QoS data subtypes, +4 if the HT-Control bit is set, +6 for
// 4-address (WDS) mode (spec.md §4.4).
func HeaderLen(frameType, subtype int, qos, htc, fourAddr bool) int {
	n := 24
	if frameType == typeData && qos {
		n += 2
	}
	if htc {
		n += 4
	}
	if fourAddr {
		n += 6
	}
	return n
}

// ClassifyFrame inspects the first two bytes (frame control) of a raw
// 802.11 frame (header only, no RadioTap) and returns its FrameKind.
func ClassifyFrame(hdr []byte) FrameKind {
	if len(hdr) < 2 {
		return FrameUnknown
	}
	fc := binary.LittleEndian.Uint16(hdr[0:2])
	frameType := int((fc >> 2) & 0x3)
	subtype := int((fc >> 4) & 0xF)

	switch frameType {
	case typeMgmt:
		switch subtype {
		case subtypeBeacon:
			return FrameMgmtBeacon
		case subtypeProbeReq:
			return FrameMgmtProbeReq
		case subtypeDeauth:
			return FrameMgmtDeauth
		default:
			return FrameMgmtOther
		}
	case typeData:
		return FrameDataOther // EAPOL vs other data decided after header strip, by LLC/SNAP sniff
	default:
		return FrameUnknown
	}
}

// FrameControlFlags extracts the ToDS/FromDS and QoS/HTC bits needed
// for header-length and address-table computation.
type FrameControlFlags struct {
	ToDS, FromDS, QoS, HTC bool
	FrameType, Subtype     int
}

func ParseFrameControl(hdr []byte) FrameControlFlags {
	if len(hdr) < 2 {
		return FrameControlFlags{}
	}
	fc := binary.LittleEndian.Uint16(hdr[0:2])
	frameType := int((fc >> 2) & 0x3)
	subtype := int((fc >> 4) & 0xF)
	return FrameControlFlags{
		ToDS:      fc&0x0100 != 0,
		FromDS:    fc&0x0200 != 0,
		QoS:       frameType == typeData && subtype >= 0x8,
		HTC:       fc&0x8000 != 0, // Order bit, reused as HT-Control presence per spec.md
		FrameType: frameType,
		Subtype:   subtype,
	}
}

// ExtractAddresses reads Addr1..Addr4 out of a frame header and applies
// the ToDS/FromDS truth table of spec.md §4.4 to resolve BSSID/STA/DA.
// hdr must be at least 24 bytes (30 if fourAddr).
func ExtractAddresses(hdr []byte, f FrameControlFlags) (Addresses, bool) {
	if len(hdr) < 24 {
		return Addresses{}, false
	}
	var a1, a2, a3, a4 [6]byte
	copy(a1[:], hdr[4:10])
	copy(a2[:], hdr[10:16])
	copy(a3[:], hdr[16:22])
	fourAddr := f.ToDS && f.FromDS
	if fourAddr {
		if len(hdr) < 30 {
			return Addresses{}, false
		}
		copy(a4[:], hdr[24:30])
	}

	var out Addresses
	switch {
	case !f.ToDS && !f.FromDS:
		out = Addresses{BSSID: a3, STA: a2, DA: a1}
	case !f.ToDS && f.FromDS:
		out = Addresses{BSSID: a2, STA: a1, DA: a1}
	case f.ToDS && !f.FromDS:
		out = Addresses{BSSID: a1, STA: a2, DA: a3}
	default: // ToDS && FromDS (WDS)
		out = Addresses{BSSID: a1, STA: a4, DA: a3}
	}
	return out, true
}

// IsEAPOLPayload reports whether payload begins with the LLC/SNAP
// sequence that precedes an EAPOL frame on 802.11 data frames.
func IsEAPOLPayload(payload []byte) bool {
	if len(payload) < len(llcSNAPEAPOL) {
		return false
	}
	for i, b := range llcSNAPEAPOL {
		if payload[i] != b {
			return false
		}
	}
	return true
}
