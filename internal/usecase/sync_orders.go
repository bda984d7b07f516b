package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nickppf/nickppf-api/internal/entity"
)

var errClaimHeld = errors.New("row is being synced by another run")

// SyncOrdersUseCase promove linhas verificadas da planilha a pedidos no Directus.
// As linhas são processadas uma a uma; erro numa linha não interrompe as demais.
type SyncOrdersUseCase struct {
	Sheet  LeadSheet
	CMS    OrderCMS
	Claims ClaimStore
	Logger *zap.Logger

	ClientRoleName string
	FallbackRoleID string

	// nomes das variáveis ausentes, só para a mensagem de erro
	SheetMissing []string
	CMSMissing   []string
}

func NewSyncOrdersUseCase(
	sheet LeadSheet,
	cms OrderCMS,
	claims ClaimStore,
	clientRoleName string,
	fallbackRoleID string,
	logger *zap.Logger,
) *SyncOrdersUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncOrdersUseCase{
		Sheet:          sheet,
		CMS:            cms,
		Claims:         claims,
		Logger:         logger,
		ClientRoleName: clientRoleName,
		FallbackRoleID: fallbackRoleID,
	}
}

// syncRun guarda o que pode ser reaproveitado entre linhas de uma mesma execução.
type syncRun struct {
	uc      *SyncOrdersUseCase
	roleID  string
	clients map[string]string // email normalizado -> id do usuário
}

func (uc *SyncOrdersUseCase) Execute(ctx context.Context) (*SyncOrdersOutput, error) {
	if uc.Sheet == nil {
		return nil, &ConfigError{Component: "google sheets", Missing: uc.SheetMissing}
	}
	if uc.CMS == nil {
		return nil, &ConfigError{Component: "directus", Missing: uc.CMSMissing}
	}

	leads, err := uc.Sheet.ListLeads(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "SHEETS_ERROR", Message: "failed to load leads", Err: err}
	}

	run := &syncRun{uc: uc, clients: make(map[string]string)}
	out := &SyncOrdersOutput{}
	seen := countIDs(leads)

	for _, lead := range leads {
		if !lead.Pending() {
			continue
		}

		// a reserva é por ID: linha sem ID ou com ID repetido dividiria o pedido de outra
		if err := checkRowID(lead, seen); err != nil {
			uc.Logger.Warn("⚠️ linha ignorada", zap.Int("row", lead.RowNumber), zap.Error(err))
			out.Errors = append(out.Errors, RowError{ID: lead.ID, Error: err.Error()})
			continue
		}

		err := run.syncLead(ctx, lead)
		switch {
		case errors.Is(err, errClaimHeld):
			out.Skipped++
		case err != nil:
			uc.Logger.Error("❌ falha ao sincronizar linha",
				zap.String("lead_id", lead.ID), zap.Int("row", lead.RowNumber), zap.Error(err))
			out.Errors = append(out.Errors, RowError{ID: lead.ID, Error: err.Error()})
		default:
			out.Synced++
		}
	}

	uc.Logger.Info("🔄 sync concluído",
		zap.Int("rows", len(leads)),
		zap.Int("synced", out.Synced),
		zap.Int("skipped", out.Skipped),
		zap.Int("errors", len(out.Errors)))

	return out, nil
}

func (r *syncRun) syncLead(ctx context.Context, lead *entity.Lead) error {
	log := r.uc.Logger.With(zap.String("lead_id", lead.ID), zap.Int("row", lead.RowNumber))
	claims := r.uc.Claims

	var orderID string

	txn := NewTransaction(log)

	txn.AddStep("claim", func(ctx context.Context) error {
		claim, err := claims.Claim(ctx, lead.ID)
		if err != nil {
			return err
		}
		if !claim.Acquired {
			log.Info("linha reservada por outra execução, pulando")
			return errClaimHeld
		}
		orderID = claim.OrderID
		return nil
	}, func(ctx context.Context) error {
		return claims.Release(ctx, lead.ID)
	})

	txn.AddStep("create_order", func(ctx context.Context) error {
		if orderID != "" {
			log.Info("pedido já existia, só falta gravar na planilha", zap.String("order_id", orderID))
			return nil
		}
		clientID := r.resolveClient(ctx, lead, log)
		id, err := r.uc.CMS.CreateOrder(ctx, entity.NewOrderFromLead(lead, clientID))
		if err != nil {
			return err
		}
		orderID = id
		log.Info("✅ pedido criado", zap.String("order_id", id), zap.String("client_id", clientID))
		return nil
	}, nil)

	txn.AddStep("record_claim", func(ctx context.Context) error {
		// sem isso uma falha no write-back gera pedido duplicado na próxima execução
		if err := claims.Complete(ctx, lead.ID, orderID); err != nil {
			log.Warn("⚠️ não foi possível registrar o pedido na reserva", zap.Error(err))
		}
		return nil
	}, nil)

	txn.AddStep("write_back", func(ctx context.Context) error {
		return r.uc.Sheet.SetOrderID(ctx, lead, orderID)
	}, nil)

	txn.AddStep("forget_claim", func(ctx context.Context) error {
		if err := claims.Forget(ctx, lead.ID); err != nil {
			log.Warn("⚠️ não foi possível encerrar a reserva", zap.Error(err))
		}
		return nil
	}, nil)

	return txn.Execute(ctx)
}

func countIDs(leads []*entity.Lead) map[string]int {
	seen := make(map[string]int, len(leads))
	for _, lead := range leads {
		if id := strings.TrimSpace(lead.ID); id != "" {
			seen[id]++
		}
	}
	return seen
}

func checkRowID(lead *entity.Lead, seen map[string]int) error {
	id := strings.TrimSpace(lead.ID)
	if id == "" {
		return fmt.Errorf("row %d has no ID", lead.RowNumber)
	}
	if seen[id] > 1 {
		return fmt.Errorf("row %d repeats ID %s", lead.RowNumber, id)
	}
	return nil
}

// resolveClient nunca falha a linha: sem cliente o pedido é criado sem vínculo.
func (r *syncRun) resolveClient(ctx context.Context, lead *entity.Lead, log *zap.Logger) string {
	email := entity.NormalizeEmail(lead.Email)
	if email == "" {
		return ""
	}
	if id, ok := r.clients[email]; ok {
		return id
	}

	id, err := r.findOrCreateClient(ctx, email, lead, log)
	if err != nil {
		log.Error("erro ao sincronizar cliente, pedido segue sem vínculo",
			zap.String("email", email), zap.Error(err))
		return ""
	}
	if id != "" {
		r.clients[email] = id
	}
	return id
}

func (r *syncRun) findOrCreateClient(ctx context.Context, email string, lead *entity.Lead, log *zap.Logger) (string, error) {
	cms := r.uc.CMS

	existing, err := cms.FindClientByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("find client: %w", err)
	}
	if existing != nil {
		log.Info("cliente existente", zap.String("email", email), zap.String("client_id", existing.ID))
		return existing.ID, nil
	}

	roleID := r.clientRole(ctx, log)
	id, err := cms.CreateClient(ctx, &entity.Client{
		Email:     email,
		FirstName: lead.Name,
		Phone:     lead.Phone,
		RoleID:    roleID,
	})
	if err == nil {
		log.Info("novo cliente criado", zap.String("email", email), zap.String("client_id", id), zap.String("role_id", roleID))
		return id, nil
	}
	if !errors.Is(err, entity.ErrClientAlreadyExists) {
		return "", fmt.Errorf("create client: %w", err)
	}

	// criado por outra execução entre a busca e o insert
	log.Warn("cliente já existe, buscando novamente", zap.String("email", email))
	existing, err = cms.FindClientByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("find client after conflict: %w", err)
	}
	if existing == nil {
		log.Warn("cliente duplicado não visível para este token", zap.String("email", email))
		return "", nil
	}
	return existing.ID, nil
}

func (r *syncRun) clientRole(ctx context.Context, log *zap.Logger) string {
	if r.roleID != "" {
		return r.roleID
	}

	id, err := r.uc.CMS.FindRoleIDByName(ctx, r.uc.ClientRoleName)
	switch {
	case err != nil:
		log.Warn("busca de role falhou, usando fallback", zap.String("role", r.uc.ClientRoleName), zap.Error(err))
		id = r.uc.FallbackRoleID
	case id == "":
		log.Warn("role não encontrada, usando fallback", zap.String("role", r.uc.ClientRoleName))
		id = r.uc.FallbackRoleID
	}

	r.roleID = id
	return id
}
