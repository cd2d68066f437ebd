package ble

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
	lastDevices []domain.BleDevice
	statuses    []string
}

func (c *captureEmitter) EmitBleScanResult(devices []domain.BleDevice) { c.lastDevices = devices }
func (c *captureEmitter) EmitStatus(data string)                       { c.statuses = append(c.statuses, data) }

func TestScanStartRejectsWhenNotReady(t *testing.T) {
	e := New(mockhw.NewBLE(), supervisor.New(nil), &captureEmitter{}, nil)
	err := e.ScanStart(0)
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.KindNotReady))
}

func TestScanStartAndStopEmitsDevices(t *testing.T) {
	ctrl := mockhw.NewBLE()
	emit := &captureEmitter{}
	e := New(ctrl, supervisor.New(nil), emit, nil)
	require.NoError(t, e.Init())

	require.NoError(t, e.ScanStart(0))
	assert.Equal(t, domain.StateBleScan, e.sup.State())

	ctrl.Advertise([6]byte{1, 2, 3, 4, 5, 6}, true, -60, "device-a", 0, false)
	ctrl.Advertise([6]byte{1, 2, 3, 4, 5, 6}, true, -58, "device-a", 0, false) // duplicate address

	e.StopScan()
	require.Len(t, emit.lastDevices, 1, "duplicate addresses must be deduped within a scan batch")
	assert.Equal(t, domain.StateIdle, e.sup.State())
}

func TestScanStartDurationExpiresOnItsOwn(t *testing.T) {
	ctrl := mockhw.NewBLE()
	emit := &captureEmitter{}
	e := New(ctrl, supervisor.New(nil), emit, nil)
	require.NoError(t, e.Init())

	require.NoError(t, e.ScanStart(10))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, e.isScanning())
	assert.Equal(t, domain.StateIdle, e.sup.State())
}

func TestSuspendDoesNotTouchSupervisorState(t *testing.T) {
	ctrl := mockhw.NewBLE()
	sup := supervisor.New(nil)
	e := New(ctrl, sup, &captureEmitter{}, nil)
	require.NoError(t, e.Init())
	require.NoError(t, e.ScanStart(0))

	sup.ForceIdle()
	require.NoError(t, sup.TryTransition(domain.StateWifiSniff))

	e.Suspend()
	assert.False(t, e.isScanning())
	assert.Equal(t, domain.StateWifiSniff, sup.State(), "Suspend must not clobber a state another radio just claimed")
}

func TestResetCallbackClearsReadiness(t *testing.T) {
	ctrl := mockhw.NewBLE()
	e := New(ctrl, supervisor.New(nil), &captureEmitter{}, nil)
	require.NoError(t, e.Init())
	require.NoError(t, e.ready())

	e.Deinit()
	assert.Error(t, e.ready())
}
