package aggregator

import (
	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

// ActionRow is the action-plan tally of one category, one axis or the whole
// report.
type ActionRow struct {
	PlanosDeAcao   int64   `json:"planosDeAcao"`
	NaoIniciado    int64   `json:"naoIniciado"`
	EmAndamento    int64   `json:"emAndamento"`
	Atrasado       int64   `json:"atrasado"`
	Concluido      int64   `json:"concluido"`
	GastoPlanejado float64 `json:"gastoPlanejado"`
	GastoRealizado float64 `json:"gastoRealizado"`
	Diferenca      float64 `json:"diferenca"`
}

func actionRow(r types.ActionPlanRecord) ActionRow {
	row := ActionRow{
		PlanosDeAcao:   r.PlanosDeAcao.IntOr(0),
		NaoIniciado:    r.NaoIniciado.IntOr(0),
		EmAndamento:    r.EmAndamento.IntOr(0),
		Atrasado:       r.Atrasado.IntOr(0),
		Concluido:      r.Concluido.IntOr(0),
		GastoPlanejado: r.GastoPlanejado.FloatOr(0),
		GastoRealizado: r.GastoRealizado.FloatOr(0),
	}
	row.Diferenca = row.GastoPlanejado - row.GastoRealizado
	return row
}

func (a *ActionRow) add(b ActionRow) {
	a.PlanosDeAcao += b.PlanosDeAcao
	a.NaoIniciado += b.NaoIniciado
	a.EmAndamento += b.EmAndamento
	a.Atrasado += b.Atrasado
	a.Concluido += b.Concluido
	a.GastoPlanejado += b.GastoPlanejado
	a.GastoRealizado += b.GastoRealizado
	a.Diferenca = a.GastoPlanejado - a.GastoRealizado
}

// CategoryActions is a category line of the report.
type CategoryActions struct {
	Categoria string `json:"categoria"`
	ActionRow
}

// ActionGroup is one axis block: its categories and their subtotal.
type ActionGroup struct {
	Axis       vocab.Axis        `json:"-"`
	Label      string            `json:"eixo"`
	Categories []CategoryActions `json:"categorias"`
	Subtotal   ActionRow         `json:"subtotal"`
}

// ActionReport lays the action plans out along the category vocabulary.
type ActionReport struct {
	Groups     []ActionGroup `json:"grupos"`
	GrandTotal ActionRow     `json:"total"`
}

// RollupActions builds the action report. Each category of order takes the
// first record naming it (aliases resolved); categories without a record
// get a zero row and records outside the vocabulary are ignored.
func RollupActions(records []types.ActionPlanRecord, order vocab.CategoryOrder) ActionReport {
	first := make(map[string]ActionRow, len(records))
	for _, r := range records {
		name := order.Canonical(r.Categoria)
		if _, seen := first[name]; !seen {
			first[name] = actionRow(r)
		}
	}

	var report ActionReport
	for _, axis := range vocab.Axes {
		group := ActionGroup{Axis: axis, Label: axis.Label()}
		for _, cat := range order.For(axis) {
			row := first[cat]
			group.Categories = append(group.Categories, CategoryActions{Categoria: cat, ActionRow: row})
			group.Subtotal.add(row)
		}
		report.GrandTotal.add(group.Subtotal)
		report.Groups = append(report.Groups, group)
	}
	return report
}
