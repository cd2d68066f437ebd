package subghz

import (
	"testing"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/mockhw"
	"github.com/spectra-rf/corefw/internal/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureEmitter struct {
	statuses []string
	analyzer []int
	progress [][2]int
}

func (c *captureEmitter) EmitStatus(data string)                 { c.statuses = append(c.statuses, data) }
func (c *captureEmitter) EmitAnalyzerData(rssi int)               { c.analyzer = append(c.analyzer, rssi) }
func (c *captureEmitter) EmitBruteProgress(current, total int)   { c.progress = append(c.progress, [2]int{current, total}) }

func TestFrequencyRegisterFormula(t *testing.T) {
	assert.Equal(t, uint32(0), FrequencyRegister(0))
	// round(433.92 * 65536 / 26.0)
	assert.Equal(t, uint32(1093745), FrequencyRegister(433.92))
}

func TestValidFrequencyBounds(t *testing.T) {
	assert.False(t, ValidFrequency(300.0), "lower bound is exclusive")
	assert.True(t, ValidFrequency(300.01))
	assert.True(t, ValidFrequency(928.0), "upper bound is inclusive")
	assert.False(t, ValidFrequency(928.01))
}

func TestSetFrequencyRejectsOutOfRange(t *testing.T) {
	e := New(mockhw.NewSubGHz(), supervisor.New(nil), &captureEmitter{}, nil)
	err := e.SetFrequency(1000)
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.KindInvalidArgument))
}

func TestStartWorkerRefusesSecondStart(t *testing.T) {
	sup := supervisor.New(nil)
	e := New(mockhw.NewSubGHz(), sup, &captureEmitter{}, nil)
	require.NoError(t, e.Analyzer())
	err := e.Analyzer()
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.KindBusy))
	e.Stop()
}

func TestAnalyzerEmitsSamplesUntilStopped(t *testing.T) {
	sup := supervisor.New(nil)
	emit := &captureEmitter{}
	e := New(mockhw.NewSubGHz(), sup, emit, nil)
	require.NoError(t, e.Analyzer())
	time.Sleep(120 * time.Millisecond)
	e.Stop()

	assert.False(t, e.Active())
	assert.Equal(t, domain.StateIdle, sup.State())
	assert.NotEmpty(t, emit.analyzer)
}
