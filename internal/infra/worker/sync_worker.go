package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nickppf/nickppf-api/internal/usecase"
)

type SyncRunner interface {
	Execute(ctx context.Context) (*usecase.SyncOrdersOutput, error)
}

// SyncWorker roda o sync de pedidos em intervalo fixo, além do /api/sync manual.
type SyncWorker struct {
	runner       SyncRunner
	tickInterval time.Duration
	logger       *zap.Logger
}

func NewSyncWorker(runner SyncRunner, interval time.Duration, logger *zap.Logger) *SyncWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncWorker{
		runner:       runner,
		tickInterval: interval,
		logger:       logger,
	}
}

// Start bloqueia até o ctx acabar.
func (w *SyncWorker) Start(ctx context.Context) {
	w.logger.Info("🕒 sync worker iniciado", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sync worker encerrado")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	out, err := w.runner.Execute(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("❌ sync agendado falhou", zap.Error(err))
		}
		return
	}

	if out.Synced > 0 || len(out.Errors) > 0 {
		w.logger.Info("✅ sync agendado",
			zap.Int("synced", out.Synced),
			zap.Int("skipped", out.Skipped),
			zap.Int("errors", len(out.Errors)))
	}
}
