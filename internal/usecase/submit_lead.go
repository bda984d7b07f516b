package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nickppf/nickppf-api/internal/entity"
	"github.com/nickppf/nickppf-api/internal/infra/queue"
)

type SubmitLeadUseCase struct {
	Sheet     LeadSheet
	Publisher LeadEventPublisher
	Logger    *zap.Logger

	now func() time.Time
}

// NewSubmitLeadUseCase aceita sheet nil: nesse caso toda chamada devolve ConfigError.
// publisher nil desliga as notificações.
func NewSubmitLeadUseCase(sheet LeadSheet, publisher LeadEventPublisher, logger *zap.Logger) *SubmitLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmitLeadUseCase{
		Sheet:     sheet,
		Publisher: publisher,
		Logger:    logger,
		now:       time.Now,
	}
}

func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	if fields := ValidateSubmitLeadInput(input); len(fields) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: "Missing required fields or services",
			Fields:  fields,
		}
	}

	if uc.Sheet == nil {
		uc.Logger.Error("❌ planilha não configurada, contato descartado")
		return nil, &ConfigError{Component: "google sheets"}
	}

	now := uc.now()
	ids := make([]string, 0, len(input.Services))

	// uma linha por serviço; se a N-ésima falhar as anteriores ficam na planilha
	for _, service := range input.Services {
		lead := entity.NewLead(input.Name, input.Email, input.Phone, service, input.Message, now)
		if err := uc.Sheet.AppendLead(ctx, lead); err != nil {
			uc.Logger.Error("❌ falha ao gravar contato na planilha",
				zap.String("service", service),
				zap.Int("written", len(ids)),
				zap.Error(err))
			return nil, &TechnicalError{Code: "SHEETS_ERROR", Message: "failed to append lead", Err: err}
		}
		ids = append(ids, lead.ID)
	}

	uc.Logger.Info("📥 contato recebido",
		zap.String("name", input.Name),
		zap.Strings("services", input.Services),
		zap.Strings("lead_ids", ids))

	uc.notify(ctx, input, ids)

	return &SubmitLeadOutput{LeadIDs: ids}, nil
}

// notify nunca falha a requisição: o contato já está salvo na planilha.
func (uc *SubmitLeadUseCase) notify(ctx context.Context, input SubmitLeadInput, ids []string) {
	if uc.Publisher == nil {
		return
	}

	event := queue.LeadSubmittedEvent{
		LeadIDs:     ids,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Services:    input.Services,
		Message:     input.Message,
		SubmittedAt: uc.now().UTC(),
	}

	if err := uc.Publisher.PublishLeadSubmitted(ctx, event); err != nil {
		uc.Logger.Warn("⚠️ contato salvo, mas falhou ao publicar notificação", zap.Error(err))
	}
}
