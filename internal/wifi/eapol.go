package wifi

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
)

// EAPOL-Key Information bit masks (IEEE 802.11i), grounded on
// handshake/eapol_parser.go's KeyInfo* constants.
const (
	keyInfoDescVersionMask = 0x0007
	keyInfoKeyAck          = 1 << 7
	keyInfoKeyMIC          = 1 << 8
	keyInfoSecure          = 1 << 9
)

// minEAPOLKeyBody is the minimum EAPOL-Key payload length validated
// before field extraction (spec.md §4.4): 1+2+2+8+32+16+8+8+16+2 = 95.
const minEAPOLKeyBody = 95

// eapolKeyFrame is the parsed EAPOL-Key payload, grounded on
// handshake/eapol_parser.go's EAPOLKeyFrame but trimmed to the fields
// the 2-message assembler needs.
type eapolKeyFrame struct {
	DescriptorType uint8
	KeyInfo        uint16
	ReplayCounter  uint64
	Nonce          [32]byte
	MIC            [16]byte
	raw            []byte // full EAPOL-Key frame, capped to ≤256 bytes by parseEAPOLKey
}

func (f *eapolKeyFrame) hasAck() bool    { return f.KeyInfo&keyInfoKeyAck != 0 }
func (f *eapolKeyFrame) hasMIC() bool    { return f.KeyInfo&keyInfoKeyMIC != 0 }
func (f *eapolKeyFrame) isSecure() bool  { return f.KeyInfo&keyInfoSecure != 0 }
func (f *eapolKeyFrame) version() uint8  { return uint8(f.KeyInfo & keyInfoDescVersionMask) }

var errNotEAPOLKey = errors.New("not an EAPOL-Key frame")
var errPayloadTooShort = errors.New("EAPOL-Key payload too short")
var errUnsupportedDescriptor = errors.New("unsupported key descriptor type")

// parseEAPOLKey parses a raw EAPOL frame (the bytes starting at the
// 802.1X EAPOL header: Version, Type, Length, followed by the Key
// payload). Only Type 3 (EAPOL-Key) frames with descriptor type 0x02
// (WPA2) or 0xFE (WPA1) are accepted (spec.md §6); all others are
// ignored.
func parseEAPOLKey(eapol []byte) (*eapolKeyFrame, error) {
	if len(eapol) < 4 {
		return nil, errNotEAPOLKey
	}
	eapolType := eapol[1]
	if eapolType != 3 {
		return nil, errNotEAPOLKey
	}
	payload := eapol[4:]
	if len(payload) < minEAPOLKeyBody {
		return nil, errPayloadTooShort
	}

	descType := payload[0]
	if descType != domain.KeyDescriptorWPA2 && descType != domain.KeyDescriptorWPA1 {
		return nil, errUnsupportedDescriptor
	}

	f := &eapolKeyFrame{DescriptorType: descType}
	f.KeyInfo = binary.BigEndian.Uint16(payload[1:3])
	f.ReplayCounter = binary.BigEndian.Uint64(payload[5:13])
	copy(f.Nonce[:], payload[13:45])
	copy(f.MIC[:], payload[77:93])

	full := eapol
	if len(full) > 256 {
		full = full[:256]
	}
	f.raw = append([]byte(nil), full...)
	return f, nil
}

// isM1 / isM2 implement spec.md §4.4's strict 2-message classification:
// M1 = Ack && !MIC, M2 = MIC && !Ack && !Secure. This intentionally
// replaces the teacher's 4-message DetermineMessageNumber heuristic,
// since only complete M1+M2 pairs are assembled here.
func (f *eapolKeyFrame) isM1() bool { return f.hasAck() && !f.hasMIC() }
func (f *eapolKeyFrame) isM2() bool { return f.hasMIC() && !f.hasAck() && !f.isSecure() }

// cacheKey identifies a (BSSID, STA) pair.
type cacheKey struct {
	bssid [6]byte
	sta   [6]byte
}

// HandshakeCache holds M1 entries awaiting their M2 (spec.md §3): at
// most 16 entries, eviction prefers {invalid, expired, oldest}.
type HandshakeCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*domain.HandshakeCacheEntry
}

func NewHandshakeCache() *HandshakeCache {
	return &HandshakeCache{entries: make(map[cacheKey]*domain.HandshakeCacheEntry)}
}

// upsertM1 stores or refreshes the M1 entry for (bssid, sta), evicting
// per spec.md §3 if the cache is full.
func (c *HandshakeCache) upsertM1(bssid, sta [6]byte, f *eapolKeyFrame, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{bssid, sta}
	if _, exists := c.entries[key]; !exists && len(c.entries) >= domain.HandshakeCacheMaxEntries {
		c.evictOneLocked(now)
	}

	e := &domain.HandshakeCacheEntry{
		BSSID:                bssid,
		STA:                  sta,
		ReplayCounter:        f.ReplayCounter,
		KeyDescriptorType:    f.DescriptorType,
		KeyDescriptorVersion: f.version(),
		LastSeen:             now,
		Valid:                true,
	}
	copy(e.ANonce[:], f.Nonce[:])
	c.entries[key] = e
}

// evictOneLocked removes one entry, preferring invalid, then expired,
// then oldest by LastSeen. Caller holds c.mu.
func (c *HandshakeCache) evictOneLocked(now time.Time) {
	var victim cacheKey
	found := false
	var oldestSeen time.Time

	for k, e := range c.entries {
		if !e.Valid {
			victim, found = k, true
			break
		}
	}
	if !found {
		for k, e := range c.entries {
			if e.Expired(now) {
				victim, found = k, true
				break
			}
		}
	}
	if !found {
		for k, e := range c.entries {
			if !found || e.LastSeen.Before(oldestSeen) {
				victim, oldestSeen, found = k, e.LastSeen, true
			}
		}
	}
	if found {
		delete(c.entries, victim)
	}
}

// lookupAndInvalidate finds a non-expired M1 entry for (bssid, sta) and
// atomically marks it invalid (so it can never be matched again) while
// still holding the cache mutex — satisfying spec.md §5's "handshake
// emission happens strictly after cache invalidation" ordering.
func (c *HandshakeCache) lookupAndInvalidate(bssid, sta [6]byte, now time.Time) (*domain.HandshakeCacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{bssid, sta}
	e, ok := c.entries[key]
	if !ok || !e.Valid || e.Expired(now) {
		return nil, false
	}
	e.Valid = false
	delete(c.entries, key)
	cp := *e
	return &cp, true
}

// Len returns the current number of cache entries (for tests).
func (c *HandshakeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Process feeds one EAPOL frame, already stripped of its LLC/SNAP
// header, through the cache: an M1 is stored, an M2 matched against a
// cached M1 emits a complete domain.Handshake, anything else is
// ignored. This is the sole entry point the sniffer uses (spec.md
// §4.4/§5).
func (c *HandshakeCache) Process(addrs Addresses, eapol []byte, channel, rssi int, now time.Time) (*domain.Handshake, error) {
	f, err := parseEAPOLKey(eapol)
	if err != nil {
		return nil, err
	}

	switch {
	case f.isM1():
		c.upsertM1(addrs.BSSID, addrs.STA, f, now)
		return nil, nil
	case f.isM2():
		m1, ok := c.lookupAndInvalidate(addrs.BSSID, addrs.STA, now)
		if !ok {
			return nil, nil
		}
		hs := &domain.Handshake{
			BSSID:                addrs.BSSID,
			STA:                  addrs.STA,
			ANonce:               m1.ANonce,
			ReplayCounter:        m1.ReplayCounter,
			KeyDescriptorType:    m1.KeyDescriptorType,
			KeyDescriptorVersion: m1.KeyDescriptorVersion,
			EAPOLFrame:           f.raw,
			Channel:              channel,
			RSSI:                 rssi,
			Timestamp:            now,
		}
		copy(hs.SNonce[:], f.Nonce[:])
		copy(hs.MIC[:], f.MIC[:])
		return hs, nil
	default:
		return nil, nil
	}
}
