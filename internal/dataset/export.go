package dataset

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"esg-insights-go/internal/aggregator"
	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

const (
	planningSheet = "Planejamento"
	actionsSheet  = "Ações"
	brlFormat     = `"R$" #,##0.00`
)

// cellValue leaves undefined figures blank instead of writing NaN.
func cellValue(n types.Number) interface{} {
	if !n.Defined() {
		return nil
	}
	return n.Float()
}

func newReport(sheet string) (*excelize.File, int, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, 0, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, bold, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func boldRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

// WriteStatusXLSX renders the planning matrix as a one-sheet workbook.
func WriteStatusXLSX(w io.Writer, report aggregator.StatusReport) error {
	f, bold, err := newReport(planningSheet)
	if err != nil {
		return fmt.Errorf("new workbook: %w", err)
	}
	defer f.Close()

	header := []interface{}{"Status"}
	for _, m := range vocab.MonthNames() {
		header = append(header, m)
	}
	header = append(header, vocab.TotalLabel)
	if err := setRow(f, planningSheet, 1, header); err != nil {
		return err
	}
	if err := boldRow(f, planningSheet, 1, len(header), bold); err != nil {
		return err
	}

	for i, r := range report.Rows() {
		values := []interface{}{r.Status}
		for _, q := range r.Quantities {
			values = append(values, cellValue(q))
		}
		values = append(values, cellValue(r.Total))
		if err := setRow(f, planningSheet, i+2, values); err != nil {
			return err
		}
		if r.GrandTotal {
			if err := boldRow(f, planningSheet, i+2, len(values), bold); err != nil {
				return err
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteActionsXLSX renders the action report with spend columns in reais.
func WriteActionsXLSX(w io.Writer, report aggregator.ActionReport) error {
	f, bold, err := newReport(actionsSheet)
	if err != nil {
		return fmt.Errorf("new workbook: %w", err)
	}
	defer f.Close()

	numFmt := brlFormat
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}

	header := []interface{}{
		"Eixo", "Categoria", "Planos de Ação", "Não Iniciado", "Em Andamento",
		"Atrasado", "Concluído", "Gasto Planejado", "Gasto Realizado", "Diferença",
	}
	if err := setRow(f, actionsSheet, 1, header); err != nil {
		return err
	}
	if err := boldRow(f, actionsSheet, 1, len(header), bold); err != nil {
		return err
	}

	row := 2
	write := func(eixo, categoria string, r aggregator.ActionRow, total bool) error {
		values := []interface{}{
			eixo, categoria, r.PlanosDeAcao, r.NaoIniciado, r.EmAndamento,
			r.Atrasado, r.Concluido, r.GastoPlanejado, r.GastoRealizado, r.Diferenca,
		}
		if err := setRow(f, actionsSheet, row, values); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(8, row)
		last, _ := excelize.CoordinatesToCellName(10, row)
		if err := f.SetCellStyle(actionsSheet, first, last, money); err != nil {
			return err
		}
		if total {
			if err := boldRow(f, actionsSheet, row, 7, bold); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	for _, g := range report.Groups {
		for _, c := range g.Categories {
			if err := write(g.Label, c.Categoria, c.ActionRow, false); err != nil {
				return err
			}
		}
		if err := write(g.Label, SubtotalLabel, g.Subtotal, true); err != nil {
			return err
		}
	}
	if err := write("", TotalLabel, report.GrandTotal, true); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
