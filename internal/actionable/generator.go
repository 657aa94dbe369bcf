package actionable

import (
	"fmt"
	"math"

	"esg-insights-go/internal/aggregator"
	"esg-insights-go/internal/vocab"
)

// WeakAxisThreshold is the axis mean, in percent, below which the card asks
// for an action plan.
const WeakAxisThreshold = 50.0

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
	Axis    string `json:"axis,omitempty"`
}

// Generate builds the headline card of the ESG analysis: the pooled
// diagnosis plus the weakest axis, when one falls below the threshold.
func Generate(c aggregator.Combined, diagnosis float64) ActionCard {
	worst := vocab.AxisUnknown
	lowest := math.Inf(1)
	for i, a := range vocab.Axes {
		v := c.PerAxis[i]
		if !v.Defined() {
			continue
		}
		if v.Float() < lowest {
			lowest = v.Float()
			worst = a
		}
	}

	if worst == vocab.AxisUnknown || math.IsNaN(diagnosis) {
		return ActionCard{
			Insight: "Diagnóstico Geral indisponível: nenhuma resposta de conformidade",
			Action:  "Preencher o questionário dos três eixos",
			Impact:  "Sem base para priorizar ações",
		}
	}

	insight := fmt.Sprintf("Diagnóstico Geral: %s", aggregator.Percent(diagnosis).Display(2))
	if lowest < WeakAxisThreshold {
		return ActionCard{
			Insight: insight,
			Action: fmt.Sprintf("Priorizar plano de ação em %s (média %s)",
				worst.Label(), aggregator.Percent(lowest).Display(0)),
			Impact: "Eleva a conformidade do eixo mais fraco",
			Axis:   worst.Key(),
		}
	}
	return ActionCard{
		Insight: insight,
		Action:  "Manter monitoramento mensal dos indicadores",
		Impact:  "Baixa necessidade de intervenção imediata",
		Axis:    worst.Key(),
	}
}
