package sink

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kvoloboi/staticinfo/internal/domain"
)

type memAppender struct {
	mu      sync.Mutex
	batches [][]domain.Record
	err     error
}

func (m *memAppender) Append(records []domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, append([]domain.Record(nil), records...))
	return nil
}

func (m *memAppender) snapshot() [][]domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Record(nil), m.batches...)
}

func testRecord(t *testing.T, worker string) domain.Record {
	t.Helper()
	rec, err := domain.NewRecord("session", worker, domain.TypeStaticInfo, []byte{1, 2, 3}, time.UnixMilli(1000))
	require.NoError(t, err)
	return rec
}

func TestReportWorkerFlushesOnCount(t *testing.T) {
	in := make(chan RecordItem, 8)
	app := &memAppender{}
	w := NewReportWorker(in, app, BatchConfig{MaxCount: 2, MaxBytes: 1 << 20, FlushInterval: time.Hour}, nil)

	for _, id := range []string{"a", "b", "c"} {
		in <- RecordItem{Record: testRecord(t, id), Size: 3}
	}
	close(in)

	require.NoError(t, w.Run(context.Background()))

	batches := app.snapshot()
	require.Len(t, batches, 2)
	require.Len(t, batches[0], 2)
	require.Len(t, batches[1], 1)
	require.Equal(t, "c", batches[1][0].Worker.String())
}

func TestReportWorkerFlushesOnBytes(t *testing.T) {
	in := make(chan RecordItem, 8)
	app := &memAppender{}
	w := NewReportWorker(in, app, BatchConfig{MaxCount: 100, MaxBytes: 10, FlushInterval: time.Hour}, nil)

	in <- RecordItem{Record: testRecord(t, "a"), Size: 6}
	in <- RecordItem{Record: testRecord(t, "b"), Size: 6}
	close(in)

	require.NoError(t, w.Run(context.Background()))
	require.Len(t, app.snapshot(), 1)
}

func TestReportWorkerFlushesOnTimer(t *testing.T) {
	in := make(chan RecordItem, 1)
	app := &memAppender{}
	w := NewReportWorker(in, app, BatchConfig{MaxCount: 100, MaxBytes: 1 << 20, FlushInterval: 10 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	in <- RecordItem{Record: testRecord(t, "a"), Size: 3}
	require.Eventually(t, func() bool { return len(app.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestReportWorkerReturnsAppendError(t *testing.T) {
	in := make(chan RecordItem, 1)
	boom := errors.New("disk full")
	w := NewReportWorker(in, &memAppender{err: boom}, BatchConfig{MaxCount: 1, MaxBytes: 1 << 20, FlushInterval: time.Hour}, nil)

	in <- RecordItem{Record: testRecord(t, "a"), Size: 3}
	require.ErrorIs(t, w.Run(context.Background()), boom)
}
