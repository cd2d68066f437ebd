package subghz

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// bruteCodeSpace is the 12-bit fixed-code space swept by SUBGHZ_BRUTE.
const bruteCodeSpace = 4096

// bruteRate targets ~50 codes/sec.
const bruteRate = time.Second / 50

// bruteProgressEvery emits a brute_progress record every N codes.
const bruteProgressEvery = 256

// ookShortPulse/ookLongPulse encode a 0/1 bit; ookSyncTrailer marks
// the end of a code's bitstream (spec.md §4.6's fixed OOK encoding).
var (
	ookShortPulse = byte(0x01)
	ookLongPulse  = byte(0x03)
	ookSyncTrailer = [2]byte{0xAA, 0x55}
)

// encodeOOK renders a 12-bit code as one byte per bit (MSB first)
// followed by the two-byte sync trailer.
func encodeOOK(code uint16) []byte {
	out := make([]byte, 0, 14)
	for i := 11; i >= 0; i-- {
		if code&(1<<uint(i)) != 0 {
			out = append(out, ookLongPulse)
		} else {
			out = append(out, ookShortPulse)
		}
	}
	out = append(out, ookSyncTrailer[0], ookSyncTrailer[1])
	return out
}

// Brute sweeps the full 12-bit code space at ~50 codes/sec. Each sweep
// gets its own run ID so overlapping STOP/status records in the log
// can be traced back to the sweep that produced them.
func (e *Engine) Brute() error {
	runID := uuid.NewString()
	e.log.Info("subghz: brute sweep starting", "run_id", runID, "codes", bruteCodeSpace)
	return e.startWorker(stateBrute, func(ctx context.Context) { e.runBrute(ctx, runID) })
}

func (e *Engine) runBrute(ctx context.Context, runID string) {
	ticker := time.NewTicker(bruteRate)
	defer ticker.Stop()

	for code := 0; code < bruteCodeSpace; code++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame := encodeOOK(uint16(code))
		if err := e.radio.WriteTX(frame); err != nil {
			e.log.Warn("subghz: brute TX failed", "run_id", runID, "code", code, "err", err)
			continue
		}

		if (code+1)%bruteProgressEvery == 0 {
			e.emit.EmitBruteProgress(code+1, bruteCodeSpace)
		}
	}
	e.emit.EmitBruteProgress(bruteCodeSpace, bruteCodeSpace)
	e.emit.EmitStatus("complete")
}
