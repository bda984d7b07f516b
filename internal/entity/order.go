package entity

// Order espelha o item da coleção "orders" no Directus.
type Order struct {
	SubmissionID    string  `json:"submission_id"`
	ClientName      string  `json:"client_name"`
	ClientEmail     string  `json:"client_email"`
	ClientPhone     string  `json:"client_phone"`
	VIN             string  `json:"vin"`
	Service         string  `json:"service"`
	Message         string  `json:"message"`
	Status          string  `json:"status"`
	RequestDate     string  `json:"request_date"`
	ServiceDate     *string `json:"service_date"`
	WarrantyEndDate *string `json:"warranty_end_date"`
	ClientID        string  `json:"client,omitempty"`
}

// NewOrderFromLead copia os campos da linha. Datas vazias viram null no CMS.
func NewOrderFromLead(l *Lead, clientID string) *Order {
	return &Order{
		SubmissionID:    l.ID,
		ClientName:      l.Name,
		ClientEmail:     l.Email,
		ClientPhone:     l.Phone,
		VIN:             l.VIN,
		Service:         l.Service,
		Message:         l.Message,
		Status:          LeadStatusVerified,
		RequestDate:     l.Date,
		ServiceDate:     nullIfEmpty(l.ServiceDate),
		WarrantyEndDate: nullIfEmpty(l.WarrantyEndDate),
		ClientID:        clientID,
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
