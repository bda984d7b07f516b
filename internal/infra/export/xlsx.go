package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nickppf/nickppf-api/internal/entity"
	"github.com/nickppf/nickppf-api/internal/infra/sheets"
)

const SheetName = "Leads"

// WriteLeads grava as linhas da planilha num .xlsx, na mesma ordem de colunas.
func WriteLeads(w io.Writer, leads []*entity.Lead) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(sheets.Columns))
	for i, c := range sheets.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0E0E0"}},
	})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(sheets.Columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return err
	}

	for i, l := range leads {
		row := []interface{}{
			l.ID, l.Status, l.OrderID, l.Name, l.Email, l.Phone, l.VIN,
			l.Service, l.Message, l.Date, l.ServiceDate, l.WarrantyEndDate,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("erro ao escrever linha %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("erro ao gerar xlsx: %w", err)
	}
	return nil
}
