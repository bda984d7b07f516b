package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	LeadStatusNotVerified = "not-verified"
	LeadStatusVerified    = "verified"
)

// Lead é uma linha da planilha de contatos. Um pedido com N serviços vira N linhas.
type Lead struct {
	RowNumber int `json:"-"` // 1-based, a linha 1 é o cabeçalho

	ID              string `json:"id"`
	Status          string `json:"status"`
	OrderID         string `json:"directus_id"` // back-reference preenchida pelo sync
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	VIN             string `json:"vin"`
	Service         string `json:"service"`
	Message         string `json:"message"`
	Date            string `json:"date"`
	ServiceDate     string `json:"service_date"`
	WarrantyEndDate string `json:"warranty_end_date"`
}

// NewLead monta uma linha nova, sempre not-verified e sem VIN.
func NewLead(name, email, phone, service, message string, now time.Time) *Lead {
	return &Lead{
		ID:      uuid.New().String(),
		Status:  LeadStatusNotVerified,
		Name:    name,
		Email:   email,
		Phone:   phone,
		Service: service,
		Message: message,
		Date:    now.UTC().Format(time.RFC3339),
	}
}

func (l *Lead) Verified() bool {
	return strings.ToLower(l.Status) == LeadStatusVerified
}

func (l *Lead) Synced() bool {
	return strings.TrimSpace(l.OrderID) != ""
}

// Pending: verificado pela equipe e ainda sem pedido no CMS.
func (l *Lead) Pending() bool {
	return l.Verified() && !l.Synced()
}
