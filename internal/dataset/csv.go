package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"esg-insights-go/internal/aggregator"
	"esg-insights-go/internal/types"
)

// ReadPlanningCSV decodes status,mes,quantidade rows.
func ReadPlanningCSV(r io.Reader) ([]types.PlanningRecord, error) {
	out := []types.PlanningRecord{}
	if err := gocsv.Unmarshal(r, &out); err != nil {
		return nil, fmt.Errorf("decode planning csv: %w", err)
	}
	return out, nil
}

// ReadActionsCSV decodes the snake_case action plan export.
func ReadActionsCSV(r io.Reader) ([]types.ActionPlanRecord, error) {
	out := []types.ActionPlanRecord{}
	if err := gocsv.Unmarshal(r, &out); err != nil {
		return nil, fmt.Errorf("decode actions csv: %w", err)
	}
	return out, nil
}

type statusLine struct {
	Status    string       `csv:"status"`
	Janeiro   types.Number `csv:"janeiro"`
	Fevereiro types.Number `csv:"fevereiro"`
	Marco     types.Number `csv:"marco"`
	Abril     types.Number `csv:"abril"`
	Maio      types.Number `csv:"maio"`
	Junho     types.Number `csv:"junho"`
	Julho     types.Number `csv:"julho"`
	Agosto    types.Number `csv:"agosto"`
	Setembro  types.Number `csv:"setembro"`
	Outubro   types.Number `csv:"outubro"`
	Novembro  types.Number `csv:"novembro"`
	Dezembro  types.Number `csv:"dezembro"`
	Total     types.Number `csv:"total"`
}

func statusLines(report aggregator.StatusReport) []statusLine {
	rows := report.Rows()
	out := make([]statusLine, 0, len(rows))
	for _, r := range rows {
		q := r.Quantities
		out = append(out, statusLine{
			r.Status,
			q[0], q[1], q[2], q[3], q[4], q[5], q[6], q[7], q[8], q[9], q[10], q[11],
			r.Total,
		})
	}
	return out
}

type actionLine struct {
	Eixo           string `csv:"eixo"`
	Categoria      string `csv:"categoria"`
	PlanosDeAcao   int64  `csv:"planos_de_acao"`
	NaoIniciado    int64  `csv:"nao_iniciado"`
	EmAndamento    int64  `csv:"em_andamento"`
	Atrasado       int64  `csv:"atrasado"`
	Concluido      int64  `csv:"concluido"`
	GastoPlanejado string `csv:"gasto_planejado"`
	GastoRealizado string `csv:"gasto_realizado"`
	Diferenca      string `csv:"diferenca"`
}

func newActionLine(eixo, categoria string, r aggregator.ActionRow) actionLine {
	return actionLine{
		Eixo:           eixo,
		Categoria:      categoria,
		PlanosDeAcao:   r.PlanosDeAcao,
		NaoIniciado:    r.NaoIniciado,
		EmAndamento:    r.EmAndamento,
		Atrasado:       r.Atrasado,
		Concluido:      r.Concluido,
		GastoPlanejado: types.FormatBRL(r.GastoPlanejado),
		GastoRealizado: types.FormatBRL(r.GastoRealizado),
		Diferenca:      types.FormatBRL(r.Diferenca),
	}
}

// Row labels of the action report totals.
const (
	SubtotalLabel = "Subtotal"
	TotalLabel    = "Total"
)

func actionLines(report aggregator.ActionReport) []actionLine {
	var out []actionLine
	for _, g := range report.Groups {
		for _, c := range g.Categories {
			out = append(out, newActionLine(g.Label, c.Categoria, c.ActionRow))
		}
		out = append(out, newActionLine(g.Label, SubtotalLabel, g.Subtotal))
	}
	return append(out, newActionLine("", TotalLabel, report.GrandTotal))
}

func writeCSV(w io.Writer, in interface{}) error {
	// semicolons open cleanly in pt-BR spreadsheet locales
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := gocsv.MarshalCSV(in, cw); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatusCSV writes the planning matrix, one row per status plus the
// total row, in display order.
func WriteStatusCSV(w io.Writer, report aggregator.StatusReport) error {
	return writeCSV(w, statusLines(report))
}

// WriteActionsCSV writes every category, the per-axis subtotals and the
// grand total of an action report.
func WriteActionsCSV(w io.Writer, report aggregator.ActionReport) error {
	return writeCSV(w, actionLines(report))
}
