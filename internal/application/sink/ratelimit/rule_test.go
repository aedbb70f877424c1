package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kvoloboi/staticinfo/internal/application/sink"
	"github.com/kvoloboi/staticinfo/internal/domain"
)

type recordingIngestor struct {
	items  []sink.RecordItem
	closed bool
}

func (r *recordingIngestor) Ingest(_ context.Context, item sink.RecordItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *recordingIngestor) Close() error {
	r.closed = true
	return nil
}

func item(t *testing.T, session string, size int) sink.RecordItem {
	t.Helper()
	rec, err := domain.NewRecord(session, "w", domain.TypeStaticInfo, make([]byte, size), time.Now())
	require.NoError(t, err)
	return sink.RecordItem{Record: rec, Size: size}
}

func TestRateLimitedIngestorPassesThrough(t *testing.T) {
	next := &recordingIngestor{}
	ingestor := NewRateLimitedIngestor(next, NewIngestRatePolicy(
		NewMsgRateRule(1000, 10),
		NewByteRateRule(1<<20, 1<<16),
	))

	for range 3 {
		require.NoError(t, ingestor.Ingest(context.Background(), item(t, "s", 100)))
	}
	require.Len(t, next.items, 3)

	require.NoError(t, ingestor.Close())
	require.True(t, next.closed)
}

func TestByteRateRuleOversizedItem(t *testing.T) {
	rule := NewByteRateRule(1<<20, 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, rule.Wait(ctx, item(t, "s", 1000)))
}

func TestMsgRateRuleHonoursContext(t *testing.T) {
	rule := NewMsgRateRule(1, 1)
	require.NoError(t, rule.Wait(context.Background(), item(t, "s", 1)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, rule.Wait(ctx, item(t, "s", 1)))
}

func TestSessionRateRuleIsolatesSessions(t *testing.T) {
	rule := NewSessionRateRule(1, 1)

	require.NoError(t, rule.Wait(context.Background(), item(t, "a", 1)))
	require.NoError(t, rule.Wait(context.Background(), item(t, "b", 1)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, rule.Wait(ctx, item(t, "a", 1)))
}
