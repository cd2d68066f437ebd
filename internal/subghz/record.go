package subghz

import (
	"context"
	"time"
)

// recordPollInterval is how often the RX FIFO is checked.
const recordPollInterval = time.Millisecond

// recordChunkMax bounds a single FIFO read (spec.md §4.6).
const recordChunkMax = 32

// recordDrainGrace is how long the worker keeps draining the FIFO
// after being told to stop, before record_stop returns (spec.md §4.6).
const recordDrainGrace = 50 * time.Millisecond

// RecordStart begins capturing into a fresh buffer bounded at
// maxSize bytes.
func (e *Engine) RecordStart(maxSize int) error {
	e.mu.Lock()
	e.buf.Reset()
	e.mu.Unlock()

	return e.startWorker(stateRecord, func(ctx context.Context) {
		e.runRecord(ctx, maxSize)
	})
}

func (e *Engine) runRecord(ctx context.Context, maxSize int) {
	chunk := make([]byte, recordChunkMax)
	ticker := time.NewTicker(recordPollInterval)
	defer ticker.Stop()

	draining := false
	var deadline <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if !draining {
				draining = true
				deadline = time.After(recordDrainGrace)
			}
		case <-deadline:
			return
		case <-ticker.C:
			if e.radio.RXAvailable() <= 0 {
				continue
			}
			remaining := maxSize - e.buf.Len()
			if remaining <= 0 {
				return
			}
			want := chunk
			if remaining < len(want) {
				want = want[:remaining]
			}
			n, err := e.radio.ReadRX(want)
			if err != nil || n <= 0 {
				continue
			}
			_, full := e.buf.Append(want[:n])
			if full || e.buf.Len() >= maxSize {
				return
			}
		}
	}
}

// RecordStop signals the record worker to stop, waits the drain grace
// period, and returns the captured length. The length is returned
// synchronously from the buffer the worker was writing into, so a
// following TX_REPLAY always sees the length that was actually
// written (resolves the suspected length/race ambiguity in the
// original description of this operation).
func (e *Engine) RecordStop() int {
	e.Stop()
	return e.buf.Len()
}

// RecordedBytes returns a copy of the captured buffer for TX_REPLAY.
func (e *Engine) RecordedBytes() []byte {
	return e.buf.Bytes()
}
