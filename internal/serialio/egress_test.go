package serialio

import (
	"bufio"
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingWriter blocks the first Write until release is closed, so
// tests can force the egress mutex to be held across a timeout window.
type blockingWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	release chan struct{}
	once    sync.Once
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	w.once.Do(func() { <-w.release })
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestSendJSONWritesLineAtomically(t *testing.T) {
	var buf bytes.Buffer
	eg := NewEgress(&buf, time.Second, nil)
	eg.SendJSON(Status("started"))
	eg.SendJSON(ErrorLine("boom"))

	sc := bufio.NewScanner(&buf)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"status"`)
	assert.Contains(t, lines[1], `"error"`)
}

func TestSendRawDropsOnMutexTimeout(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	eg := NewEgress(w, 10*time.Millisecond, nil)

	go eg.SendRaw([]byte("first")) // holds the semaphore via the blocked Write
	time.Sleep(20 * time.Millisecond)

	eg.SendRaw([]byte("second")) // must time out and be dropped
	close(w.release)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, uint64(1), eg.Dropped())
}

func TestSendJSONMarshalFailureIsDroppedNotPanicked(t *testing.T) {
	var buf bytes.Buffer
	eg := NewEgress(&buf, time.Second, nil)
	assert.NotPanics(t, func() { eg.SendJSON(make(chan int)) }) // unmarshalable
	assert.Empty(t, buf.Bytes())
}
