package subghz

import (
	"context"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
)

// replayChunkMax bounds a single TX write (spec.md §4.6).
const replayChunkMax = 60

// marcStatePollTimeout bounds the wait for the radio to return to
// idle after each TX chunk.
const marcStatePollTimeout = 500 * time.Millisecond

// Replay transmits buf in ≤60-byte chunks, polling MARCSTATE to idle
// after each one.
func (e *Engine) Replay(buf []byte) error {
	if len(buf) == 0 {
		return domain.NewError(domain.KindInvalidArgument, "nothing recorded to replay")
	}

	return e.startWorker(stateReplay, func(ctx context.Context) {
		e.runReplay(ctx, buf)
	})
}

func (e *Engine) runReplay(ctx context.Context, buf []byte) {
	for off := 0; off < len(buf); off += replayChunkMax {
		if ctx.Err() != nil {
			return
		}
		end := off + replayChunkMax
		if end > len(buf) {
			end = len(buf)
		}
		if err := e.radio.WriteTX(buf[off:end]); err != nil {
			e.log.Warn("subghz: replay TX chunk failed", "err", err)
			return
		}

		pollCtx, cancel := context.WithTimeout(ctx, marcStatePollTimeout)
		idle, err := e.radio.MARCStateIdle(pollCtx)
		cancel()
		if err != nil || !idle {
			e.log.Warn("subghz: replay MARCSTATE poll timed out")
			return
		}
	}
	e.emit.EmitStatus("complete")
}
