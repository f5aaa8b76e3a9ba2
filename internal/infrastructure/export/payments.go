// Package export renders list views as spreadsheet downloads.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

const paymentsSheet = "Pagos"

var paymentHeaders = []any{"ID", "Cliente", "Monto", "Moneda", "Método", "Estado", "Referencia", "Fecha de pago", "Registrado"}

var paymentColumnWidths = []float64{38, 38, 14, 10, 14, 14, 24, 20, 20}

// XLSX implements ports.PaymentExporter with excelize.
type XLSX struct{}

var _ ports.PaymentExporter = XLSX{}

// Payments renders payments as a single sheet workbook with a frozen header row.
func (XLSX) Payments(payments []*domain.Payment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", paymentsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}

	if err := f.SetSheetRow(paymentsSheet, "A1", &paymentHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(paymentHeaders), 1)
	if err := f.SetCellStyle(paymentsSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, w := range paymentColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(paymentsSheet, col, col, w); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}

	for i, p := range payments {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{
			p.ID,
			p.ClientID,
			p.Amount,
			p.Currency,
			p.Method,
			p.Status,
			p.Reference,
			p.PaidAt.Format("2006-01-02 15:04"),
			p.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(paymentsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
	}
	if len(payments) > 0 {
		from, _ := excelize.CoordinatesToCellName(3, 2)
		to, _ := excelize.CoordinatesToCellName(3, len(payments)+1)
		if err := f.SetCellStyle(paymentsSheet, from, to, amountStyle); err != nil {
			return nil, fmt.Errorf("style amounts: %w", err)
		}
	}

	if err := f.SetPanes(paymentsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
