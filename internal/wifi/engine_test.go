package wifi

import (
	"testing"
	"time"

	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/mockhw"
	"github.com/spectra-rf/corefw/internal/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineScanStartReturnsToIdle(t *testing.T) {
	sup := supervisor.New(nil)
	e := NewEngine(mockhw.NewWifi(), sup, &captureEmitter{}, func(ch int, dwell time.Duration) []domain.ScanResult { return nil }, nil)

	_, truncated, err := e.ScanStart()
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, domain.StateIdle, sup.State())
}

func TestEngineSnifferStartStop(t *testing.T) {
	sup := supervisor.New(nil)
	e := NewEngine(mockhw.NewWifi(), sup, &captureEmitter{}, nil, nil)

	require.NoError(t, e.SnifferStart(6))
	assert.Equal(t, domain.StateWifiSniff, sup.State())

	e.SnifferStop()
	assert.Equal(t, domain.StateIdle, sup.State())
}

func TestEngineSuspendDoesNotTouchSupervisorState(t *testing.T) {
	sup := supervisor.New(nil)
	e := NewEngine(mockhw.NewWifi(), sup, &captureEmitter{}, nil, nil)

	require.NoError(t, e.SnifferStart(0))
	sup.ForceIdle()
	require.NoError(t, sup.TryTransition(domain.StateBleScan))

	e.Suspend()
	assert.Equal(t, domain.StateBleScan, sup.State(), "Suspend must not clobber a state another radio just claimed")
}

func TestEngineDeauthReturnsToIdleAndReportsResult(t *testing.T) {
	sup := supervisor.New(nil)
	e := NewEngine(mockhw.NewWifi(), sup, &captureEmitter{}, nil, nil)

	res, err := e.Deauth([6]byte{}, [6]byte{1, 2, 3, 4, 5, 6}, 6, 3)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domain.StateIdle, sup.State())
}

func TestEngineScanBusyWhileSniffing(t *testing.T) {
	sup := supervisor.New(nil)
	e := NewEngine(mockhw.NewWifi(), sup, &captureEmitter{}, nil, nil)
	require.NoError(t, e.SnifferStart(6))

	_, _, err := e.ScanStart()
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.KindBusy))
	e.SnifferStop()
}
