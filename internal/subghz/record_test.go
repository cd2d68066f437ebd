package subghz

import (
	"testing"
	"time"

	"github.com/spectra-rf/corefw/internal/mockhw"
	"github.com/spectra-rf/corefw/internal/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCapturesFedBytes(t *testing.T) {
	radio := mockhw.NewSubGHz()
	sup := supervisor.New(nil)
	e := New(radio, sup, &captureEmitter{}, nil)

	require.NoError(t, e.RecordStart(1024))
	radio.Feed([]byte("hello"))
	time.Sleep(20 * time.Millisecond)
	radio.Feed([]byte("world"))
	time.Sleep(20 * time.Millisecond)

	n := e.RecordStop()
	assert.Equal(t, 10, n)
	assert.Equal(t, []byte("helloworld"), e.RecordedBytes())
}

func TestRecordStopsAtMaxSize(t *testing.T) {
	radio := mockhw.NewSubGHz()
	e := New(radio, supervisor.New(nil), &captureEmitter{}, nil)

	require.NoError(t, e.RecordStart(4))
	radio.Feed([]byte("abcdefgh"))
	time.Sleep(20 * time.Millisecond)

	assert.False(t, e.Active(), "worker must exit once maxSize is reached")
	assert.LessOrEqual(t, e.RecordStop(), 8)
}

func TestReplayRejectsEmptyBuffer(t *testing.T) {
	e := New(mockhw.NewSubGHz(), supervisor.New(nil), &captureEmitter{}, nil)
	err := e.Replay(nil)
	assert.Error(t, err)
}

func TestReplayTransmitsInChunksAndCompletes(t *testing.T) {
	radio := mockhw.NewSubGHz()
	emit := &captureEmitter{}
	sup := supervisor.New(nil)
	e := New(radio, sup, emit, nil)

	buf := make([]byte, replayChunkMax*2+1)
	require.NoError(t, e.Replay(buf))
	time.Sleep(50 * time.Millisecond)

	assert.False(t, e.Active())
	assert.Contains(t, emit.statuses, "complete")
}
