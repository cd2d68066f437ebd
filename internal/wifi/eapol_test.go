package wifi

import (
	"testing"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildEAPOLKey assembles a minimal synthetic EAPOL-Key frame: the
// 4-byte 802.1X header followed by a Key payload long enough to
// satisfy minEAPOLKeyBody, with KeyInfo/Nonce/MIC set at their real
// offsets.
func buildEAPOLKey(keyInfo uint16, nonceByte, micByte byte) []byte {
	body := make([]byte, minEAPOLKeyBody)
	body[0] = domain.KeyDescriptorWPA2
	body[1] = byte(keyInfo >> 8)
	body[2] = byte(keyInfo)
	for i := 13; i < 45; i++ {
		body[i] = nonceByte
	}
	for i := 77; i < 93; i++ {
		body[i] = micByte
	}
	eapol := make([]byte, 4+len(body))
	eapol[1] = 3 // EAPOL-Key type
	copy(eapol[4:], body)
	return eapol
}

func TestParseEAPOLKeyRejectsNonKeyFrames(t *testing.T) {
	_, err := parseEAPOLKey([]byte{1, 1, 0, 0})
	assert.ErrorIs(t, err, errNotEAPOLKey)
}

func TestParseEAPOLKeyRejectsShortPayload(t *testing.T) {
	eapol := make([]byte, 4+minEAPOLKeyBody-1)
	eapol[1] = 3
	_, err := parseEAPOLKey(eapol)
	assert.ErrorIs(t, err, errPayloadTooShort)
}

func TestParseEAPOLKeyRejectsUnsupportedDescriptor(t *testing.T) {
	eapol := buildEAPOLKey(keyInfoKeyAck, 0xAA, 0x00)
	eapol[4] = 0x01 // not WPA1/WPA2
	_, err := parseEAPOLKey(eapol)
	assert.ErrorIs(t, err, errUnsupportedDescriptor)
}

func TestM1M2Classification(t *testing.T) {
	m1, err := parseEAPOLKey(buildEAPOLKey(keyInfoKeyAck, 0xAA, 0))
	require.NoError(t, err)
	assert.True(t, m1.isM1())
	assert.False(t, m1.isM2())

	m2, err := parseEAPOLKey(buildEAPOLKey(keyInfoKeyMIC, 0xBB, 0xCC))
	require.NoError(t, err)
	assert.False(t, m2.isM1())
	assert.True(t, m2.isM2())

	// MIC+Secure is neither: a group-key or M3/M4 frame, not M2.
	m3, err := parseEAPOLKey(buildEAPOLKey(keyInfoKeyMIC|keyInfoSecure, 0xDD, 0xEE))
	require.NoError(t, err)
	assert.False(t, m3.isM1())
	assert.False(t, m3.isM2())
}

func TestHandshakeCacheAssemblesOnM2(t *testing.T) {
	cache := NewHandshakeCache()
	addrs := Addresses{BSSID: [6]byte{1, 2, 3, 4, 5, 6}, STA: [6]byte{6, 5, 4, 3, 2, 1}}
	now := time.Now()

	hs, err := cache.Process(addrs, buildEAPOLKey(keyInfoKeyAck, 0xAA, 0), 6, -50, now)
	require.NoError(t, err)
	assert.Nil(t, hs)
	assert.Equal(t, 1, cache.Len())

	hs, err = cache.Process(addrs, buildEAPOLKey(keyInfoKeyMIC, 0xBB, 0xCC), 6, -48, now.Add(time.Millisecond))
	require.NoError(t, err)
	require.NotNil(t, hs)
	assert.Equal(t, addrs.BSSID, hs.BSSID)
	assert.Equal(t, addrs.STA, hs.STA)
	assert.Equal(t, byte(0xAA), hs.ANonce[0])
	assert.Equal(t, byte(0xBB), hs.SNonce[0])
	assert.Equal(t, byte(0xCC), hs.MIC[0])
	assert.Equal(t, 0, cache.Len(), "M1 entry must be removed once paired")
}

func TestHandshakeCacheM2WithoutM1IsIgnored(t *testing.T) {
	cache := NewHandshakeCache()
	addrs := Addresses{BSSID: [6]byte{1, 2, 3, 4, 5, 6}, STA: [6]byte{6, 5, 4, 3, 2, 1}}

	hs, err := cache.Process(addrs, buildEAPOLKey(keyInfoKeyMIC, 0xBB, 0xCC), 6, -48, time.Now())
	require.NoError(t, err)
	assert.Nil(t, hs)
}

func TestHandshakeCacheM2CannotReplayAfterPairing(t *testing.T) {
	cache := NewHandshakeCache()
	addrs := Addresses{BSSID: [6]byte{1, 2, 3, 4, 5, 6}, STA: [6]byte{6, 5, 4, 3, 2, 1}}
	now := time.Now()

	_, _ = cache.Process(addrs, buildEAPOLKey(keyInfoKeyAck, 0xAA, 0), 6, -50, now)
	hs1, err := cache.Process(addrs, buildEAPOLKey(keyInfoKeyMIC, 0xBB, 0xCC), 6, -48, now)
	require.NoError(t, err)
	require.NotNil(t, hs1)

	// A second M2 with no fresh M1 in between must not re-emit.
	hs2, err := cache.Process(addrs, buildEAPOLKey(keyInfoKeyMIC, 0xBB, 0xCC), 6, -48, now)
	require.NoError(t, err)
	assert.Nil(t, hs2)
}

func TestHandshakeCacheExpiredM1IsNotMatched(t *testing.T) {
	cache := NewHandshakeCache()
	addrs := Addresses{BSSID: [6]byte{1, 2, 3, 4, 5, 6}, STA: [6]byte{6, 5, 4, 3, 2, 1}}
	now := time.Now()

	_, _ = cache.Process(addrs, buildEAPOLKey(keyInfoKeyAck, 0xAA, 0), 6, -50, now)
	later := now.Add(domain.HandshakeCacheTTL + time.Second)
	hs, err := cache.Process(addrs, buildEAPOLKey(keyInfoKeyMIC, 0xBB, 0xCC), 6, -48, later)
	require.NoError(t, err)
	assert.Nil(t, hs)
}

func TestHandshakeCacheEvictsWhenFull(t *testing.T) {
	cache := NewHandshakeCache()
	now := time.Now()
	for i := 0; i < domain.HandshakeCacheMaxEntries; i++ {
		addrs := Addresses{BSSID: [6]byte{1, 2, 3, 4, 5, byte(i)}, STA: [6]byte{6, 5, 4, 3, 2, 1}}
		_, _ = cache.Process(addrs, buildEAPOLKey(keyInfoKeyAck, 0xAA, 0), 6, -50, now)
	}
	require.Equal(t, domain.HandshakeCacheMaxEntries, cache.Len())

	extra := Addresses{BSSID: [6]byte{9, 9, 9, 9, 9, 9}, STA: [6]byte{8, 8, 8, 8, 8, 8}}
	_, _ = cache.Process(extra, buildEAPOLKey(keyInfoKeyAck, 0xAA, 0), 6, -50, now)
	assert.Equal(t, domain.HandshakeCacheMaxEntries, cache.Len(), "cache must stay bounded, evicting to make room")
}
