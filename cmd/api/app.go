package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nickppf/nickppf-api/internal/config"
	"github.com/nickppf/nickppf-api/internal/infra/database"
	"github.com/nickppf/nickppf-api/internal/infra/http/handlers"
	"github.com/nickppf/nickppf-api/internal/infra/integration/directus"
	"github.com/nickppf/nickppf-api/internal/infra/mail"
	"github.com/nickppf/nickppf-api/internal/infra/queue"
	"github.com/nickppf/nickppf-api/internal/infra/sheets"
	"github.com/nickppf/nickppf-api/internal/usecase"
)

// app junta as dependências montadas a partir da config.
// Integrações sem config ficam nil e as operações que dependem delas devolvem ConfigError.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	sheets   *sheets.Client
	directus *directus.Client
	db       *sql.DB
	rabbit   *queue.RabbitMQ
	claims   usecase.ClaimStore
}

type appOptions struct {
	queue bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	if missing := cfg.Sheets.Missing(); len(missing) > 0 {
		logger.Warn("⚠️ Google Sheets não configurado", zap.Strings("missing", missing))
	} else {
		a.sheets, err = sheets.NewClient(ctx, cfg.Sheets.ServiceAccountEmail, cfg.Sheets.PrivateKey, cfg.Sheets.SheetID, logger)
		if err != nil {
			return nil, fmt.Errorf("google sheets: %w", err)
		}
	}

	// leitura de conteúdo funciona sem token; escrita (sync) exige URL e token
	a.directus = directus.NewClient(cfg.Directus.URL, cfg.Directus.Token)
	if missing := cfg.Directus.Missing(); len(missing) > 0 {
		logger.Warn("⚠️ Directus sem credenciais, sync desativado", zap.Strings("missing", missing))
	}

	if cfg.DatabaseURL != "" {
		a.db, err = database.NewDBConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			a.close()
			return nil, err
		}
		if err := database.EnsureSchema(ctx, a.db); err != nil {
			a.close()
			return nil, err
		}
		a.claims = database.NewClaimRepository(a.db, cfg.Sync.ClaimTTL)
		logger.Info("🐘 reservas do sync no Postgres")
	} else {
		a.claims = usecase.NewLocalClaimStore(cfg.Sync.ClaimTTL)
		logger.Info("reservas do sync em memória (DATABASE_URL vazio)")
	}

	if opts.queue && cfg.RabbitMQURL != "" {
		a.rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			a.close()
			return nil, err
		}
		logger.Info("🐇 RabbitMQ conectado", zap.String("queue", queue.QueueName))
	}

	return a, nil
}

func (a *app) leadSheet() usecase.LeadSheet {
	if a.sheets == nil {
		return nil
	}
	return a.sheets
}

func (a *app) orderCMS() usecase.OrderCMS {
	if len(a.cfg.Directus.Missing()) > 0 {
		return nil
	}
	return a.directus
}

func (a *app) publisher() usecase.LeadEventPublisher {
	if a.rabbit == nil {
		return nil
	}
	return queue.NewProducer(a.rabbit.Ch)
}

func (a *app) submitLeadUseCase() *usecase.SubmitLeadUseCase {
	return usecase.NewSubmitLeadUseCase(a.leadSheet(), a.publisher(), a.logger)
}

func (a *app) syncOrdersUseCase() *usecase.SyncOrdersUseCase {
	uc := usecase.NewSyncOrdersUseCase(
		a.leadSheet(),
		a.orderCMS(),
		a.claims,
		a.cfg.Sync.ClientRoleName,
		a.cfg.Sync.ClientRoleFallbackID,
		a.logger,
	)
	uc.SheetMissing = a.cfg.Sheets.Missing()
	uc.CMSMissing = a.cfg.Directus.Missing()
	return uc
}

// notificationWorker só sobe com fila e SMTP configurados.
func (a *app) notificationWorker() *queue.Worker {
	if a.rabbit == nil {
		return nil
	}
	m := a.cfg.Mail
	if !m.Enabled() {
		a.logger.Warn("⚠️ SMTP não configurado, notificações ficam na fila")
		return nil
	}
	sender := mail.NewEmailSender(m.Host, m.Port, m.User, m.Password, m.From, m.StaffEmail)
	return queue.NewWorker(a.rabbit.Ch, sender, a.logger)
}

func (a *app) healthChecks() map[string]handlers.Check {
	checks := map[string]handlers.Check{
		"database": nil,
		"rabbitmq": nil,
		"sheets":   nil,
		"directus": a.directus.Ping,
	}
	if a.db != nil {
		checks["database"] = a.db.PingContext
	}
	if a.rabbit != nil {
		checks["rabbitmq"] = func(context.Context) error {
			if !a.rabbit.Healthy() {
				return errors.New("connection closed")
			}
			return nil
		}
	}
	if a.sheets != nil {
		checks["sheets"] = func(context.Context) error { return nil }
	}
	return checks
}

func (a *app) close() {
	if a.rabbit != nil {
		a.rabbit.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	a.logger.Sync()
}
