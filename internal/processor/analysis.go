package processor

import (
	"esg-insights-go/internal/actionable"
	"esg-insights-go/internal/aggregator"
	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

// AxisAnalysis is one pillar of the ESG analysis.
type AxisAnalysis struct {
	Key        string                 `json:"eixo"`
	Label      string                 `json:"label"`
	Categories aggregator.AxisGroup   `json:"categorias"`
	Chart      aggregator.ChartSeries `json:"grafico"`
	Average    types.Number           `json:"media"`
}

// Analysis is the ESG analysis dashboard.
type Analysis struct {
	Axes             []AxisAnalysis        `json:"eixos"`
	Combined         aggregator.Combined   `json:"combinada"`
	OverallDisplay   string                `json:"mediaGeral"`
	Diagnosis        types.Number          `json:"diagnostico"`
	DiagnosisDisplay string                `json:"diagnosticoTexto"`
	Card             actionable.ActionCard `json:"card"`
}

// BuildAnalysis groups each axis' metrics, lays them out along order and
// derives the averages and headline card. metrics is indexed like
// vocab.Axes.
func BuildAnalysis(metrics [3][]types.MetricRecord, order vocab.CategoryOrder) Analysis {
	var groups [3]aggregator.AxisGroup
	out := Analysis{Axes: make([]AxisAnalysis, 0, len(vocab.Axes))}
	for i, axis := range vocab.Axes {
		groups[i] = aggregator.GroupByCategory(metrics[i])
		out.Axes = append(out.Axes, AxisAnalysis{
			Key:        axis.Key(),
			Label:      axis.Label(),
			Categories: groups[i],
			Chart:      aggregator.Ordered(groups[i], order.For(axis), nil),
			Average:    types.Number(aggregator.Average(groups[i])),
		})
	}

	out.Combined = aggregator.CombinedAverage(groups[0], groups[1], groups[2])
	out.OverallDisplay = out.Combined.OverallDisplay()
	diagnosis := aggregator.Diagnosis(metrics[0], metrics[1], metrics[2])
	out.Diagnosis = types.Number(diagnosis)
	out.DiagnosisDisplay = "0%"
	if out.Diagnosis.Defined() {
		out.DiagnosisDisplay = aggregator.Percent(diagnosis).Display(2)
	}
	out.Card = actionable.Generate(out.Combined, diagnosis)
	return out
}
