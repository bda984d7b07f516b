package sheets

import (
	"fmt"
	"strings"

	"github.com/nickppf/nickppf-api/internal/entity"
)

// Cabeçalho fixo da planilha de contatos.
const (
	ColID              = "ID"
	ColStatus          = "Status"
	ColOrderID         = "Directus ID"
	ColName            = "Name"
	ColEmail           = "Email"
	ColPhone           = "Phone"
	ColVIN             = "VIN"
	ColService         = "Service"
	ColMessage         = "Message"
	ColDate            = "Date"
	ColServiceDate     = "Service Date"
	ColWarrantyEndDate = "Warranty End Date"
)

var Columns = []string{
	ColID, ColStatus, ColOrderID, ColName, ColEmail, ColPhone,
	ColVIN, ColService, ColMessage, ColDate, ColServiceDate, ColWarrantyEndDate,
}

var requiredColumns = []string{ColID, ColStatus, ColOrderID}

// header mapeia nome da coluna -> índice (0-based).
type header map[string]int

func parseHeader(row []interface{}) header {
	h := make(header, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(cellString(cell))
		if name == "" {
			continue
		}
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h
}

func (h header) validate() error {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := h[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("sheet header is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (h header) width() int {
	w := 0
	for _, idx := range h {
		if idx+1 > w {
			w = idx + 1
		}
	}
	return w
}

func (h header) get(row []interface{}, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return cellString(row[idx])
}

func (h header) leadFromRow(row []interface{}, rowNumber int) *entity.Lead {
	return &entity.Lead{
		RowNumber:       rowNumber,
		ID:              h.get(row, ColID),
		Status:          h.get(row, ColStatus),
		OrderID:         h.get(row, ColOrderID),
		Name:            h.get(row, ColName),
		Email:           h.get(row, ColEmail),
		Phone:           h.get(row, ColPhone),
		VIN:             h.get(row, ColVIN),
		Service:         h.get(row, ColService),
		Message:         h.get(row, ColMessage),
		Date:            h.get(row, ColDate),
		ServiceDate:     h.get(row, ColServiceDate),
		WarrantyEndDate: h.get(row, ColWarrantyEndDate),
	}
}

// rowFromLead respeita a ordem do cabeçalho real; colunas extras ficam vazias.
func (h header) rowFromLead(l *entity.Lead) []interface{} {
	values := map[string]string{
		ColID:              l.ID,
		ColStatus:          l.Status,
		ColOrderID:         l.OrderID,
		ColName:            l.Name,
		ColEmail:           l.Email,
		ColPhone:           l.Phone,
		ColVIN:             l.VIN,
		ColService:         l.Service,
		ColMessage:         l.Message,
		ColDate:            l.Date,
		ColServiceDate:     l.ServiceDate,
		ColWarrantyEndDate: l.WarrantyEndDate,
	}

	row := make([]interface{}, h.width())
	for i := range row {
		row[i] = ""
	}
	for col, idx := range h {
		if v, ok := values[col]; ok {
			row[idx] = v
		}
	}
	return row
}

func isBlankRow(row []interface{}) bool {
	for _, cell := range row {
		if strings.TrimSpace(cellString(cell)) != "" {
			return false
		}
	}
	return true
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}

// columnLetter converte índice 0-based em letra A1 (0 -> A, 26 -> AA).
func columnLetter(idx int) string {
	letters := ""
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		letters = string(rune('A'+(n-1)%26)) + letters
	}
	return letters
}

func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func cellRange(title string, col, row int) string {
	return fmt.Sprintf("%s!%s%d", quoteSheet(title), columnLetter(col), row)
}
