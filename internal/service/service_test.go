package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/promptlab/internal/metrics"
	"github.com/sakif/promptlab/internal/repository/memory"
)

// services bundles one of each service over a shared memory store.
type services struct {
	prompts     *PromptService
	collections *CollectionService
	tags        *TagService
	store       *memory.Store
	metrics     *metrics.Metrics
}

// newTestServices wires every service to a fresh store. All services share a
// frozen clock so tests can check that updated_at still advances.
func newTestServices(t *testing.T) *services {
	t.Helper()

	store := memory.New()
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()

	frozen := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fixed := func() time.Time { return frozen }

	s := &services{
		prompts:     NewPromptService(store, logger, m),
		collections: NewCollectionService(store, logger, m),
		tags:        NewTagService(store, logger, m),
		store:       store,
		metrics:     m,
	}
	s.prompts.now = fixed
	s.collections.now = fixed
	return s
}

// stepClock returns a clock that moves forward by step on every call.
func stepClock(start time.Time, step time.Duration) clock {
	t := start
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func ptr[T any](v T) *T { return &v }

func TestAdvance(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("clock moved forward", func(t *testing.T) {
		later := base.Add(time.Second)
		got := advance(func() time.Time { return later }, base)
		require.Equal(t, later, got)
	})

	t.Run("clock frozen", func(t *testing.T) {
		got := advance(func() time.Time { return base }, base)
		require.Equal(t, base.Add(time.Nanosecond), got)
	})

	t.Run("clock went backwards", func(t *testing.T) {
		got := advance(func() time.Time { return base.Add(-time.Hour) }, base)
		require.True(t, got.After(base))
	})
}

func TestCheckCollectionRef(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	require.NoError(t, checkCollectionRef(ctx, s.store, nil))

	c, err := s.collections.Create(ctx, collectionInput("Work"))
	require.NoError(t, err)
	require.NoError(t, checkCollectionRef(ctx, s.store, &c.ID))

	err = checkCollectionRef(ctx, s.store, ptr("missing"))
	requireInvalidReference(t, err)
}
