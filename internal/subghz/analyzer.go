package subghz

import (
	"context"
	"time"
)

// analyzerRate is the 20 Hz RSSI sample rate (spec.md §4.6).
const analyzerRate = time.Second / 20

// Analyzer starts the RSSI-sampling worker; it runs until stopped.
func (e *Engine) Analyzer() error {
	return e.startWorker(stateAnalyzer, e.runAnalyzer)
}

func (e *Engine) runAnalyzer(ctx context.Context) {
	ticker := time.NewTicker(analyzerRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rssi, err := e.radio.ReadRSSI()
			if err != nil {
				continue
			}
			e.emit.EmitAnalyzerData(rssi)
		}
	}
}
