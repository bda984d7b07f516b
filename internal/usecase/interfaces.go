package usecase

import (
	"context"
	"net/url"

	"github.com/nickppf/nickppf-api/internal/entity"
	"github.com/nickppf/nickppf-api/internal/infra/queue"
)

// LeadSheet é a planilha de contatos, usada como fila de trabalho do sync.
type LeadSheet interface {
	AppendLead(ctx context.Context, lead *entity.Lead) error
	ListLeads(ctx context.Context) ([]*entity.Lead, error)
	SetOrderID(ctx context.Context, lead *entity.Lead, orderID string) error
}

// OrderCMS cobre a parte de escrita do Directus usada pelo sync.
type OrderCMS interface {
	// FindClientByEmail devolve nil, nil quando não existe.
	FindClientByEmail(ctx context.Context, email string) (*entity.Client, error)
	// FindRoleIDByName devolve "" quando não existe.
	FindRoleIDByName(ctx context.Context, name string) (string, error)
	CreateClient(ctx context.Context, client *entity.Client) (string, error)
	CreateOrder(ctx context.Context, order *entity.Order) (string, error)
}

// ContentReader cobre a leitura de coleções do Directus.
type ContentReader interface {
	Items(ctx context.Context, collection string, query url.Values, out any) error
	Item(ctx context.Context, collection, id string, out any) error
	Count(ctx context.Context, collection string) (int, error)
}

type LeadEventPublisher interface {
	PublishLeadSubmitted(ctx context.Context, event queue.LeadSubmittedEvent) error
}

type SubmitLeadInput struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Services []string `json:"services"`
	Message  string   `json:"message"`
}

type SubmitLeadOutput struct {
	LeadIDs []string `json:"lead_ids"`
}

type RowError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type SyncOrdersOutput struct {
	Synced  int        `json:"synced"`
	Skipped int        `json:"-"`
	Errors  []RowError `json:"errors,omitempty"`
}
