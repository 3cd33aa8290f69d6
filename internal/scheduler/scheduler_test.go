package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestSchedulerRefreshesPeriodically(t *testing.T) {
	target := &countingRefresher{}
	s := New(target, 20*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return target.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSchedulerDisabled(t *testing.T) {
	target := &countingRefresher{}
	s := New(target, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, s.Start())
	s.Stop()
	require.Zero(t, target.calls.Load())
}
