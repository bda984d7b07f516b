package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/nickppf/nickppf-api/internal/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Execute(ctx context.Context) (*usecase.SyncOrdersOutput, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &usecase.SyncOrdersOutput{Synced: 1}, nil
}

func runFor(t *testing.T, w *SyncWorker, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(d + 2*time.Second):
		t.Fatal("worker não parou com o ctx")
	}
}

func TestSyncWorkerRunsImmediatelyAndOnTick(t *testing.T) {
	runner := &countingRunner{}

	runFor(t, NewSyncWorker(runner, 20*time.Millisecond, nil), 110*time.Millisecond)

	assert.GreaterOrEqual(t, runner.calls.Load(), int32(3))
}

func TestSyncWorkerSurvivesErrors(t *testing.T) {
	runner := &countingRunner{err: errors.New("sheets down")}

	runFor(t, NewSyncWorker(runner, 20*time.Millisecond, nil), 70*time.Millisecond)

	assert.GreaterOrEqual(t, runner.calls.Load(), int32(2))
}
