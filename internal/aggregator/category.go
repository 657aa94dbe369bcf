package aggregator

import (
	"encoding/json"
	"sort"

	"esg-insights-go/internal/types"
)

// AxisGroup maps a category name to its porcentagem_sim.
type AxisGroup map[string]float64

// GroupByCategory builds the category mapping of one axis. When a category
// repeats, the last record wins; values are not merged. Non-numeric
// percentages are kept as NaN.
func GroupByCategory(records []types.MetricRecord) AxisGroup {
	g := make(AxisGroup, len(records))
	for _, r := range records {
		v, _ := r.PorcentagemSim.Float()
		g[r.Categoria] = v
	}
	return g
}

// Categories returns the category names in lexical order.
func (g AxisGroup) Categories() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (g AxisGroup) values() []float64 {
	out := make([]float64, 0, len(g))
	for _, k := range g.Categories() {
		out = append(out, g[k])
	}
	return out
}

func (g AxisGroup) MarshalJSON() ([]byte, error) {
	out := make(map[string]types.Number, len(g))
	for k, v := range g {
		out[k] = types.Number(v)
	}
	return json.Marshal(out)
}

// ChartSeries is an axis group laid out along the category order.
type ChartSeries struct {
	Labels       []string       `json:"labels"`
	Values       []types.Number `json:"values"`
	Average      types.Number   `json:"average"`
	AverageLabel string         `json:"averageLabel"`
}

// Ordered lays g out along order, keeping only categories present in g and,
// when visible is non-nil, listed in visible. The average covers the
// displayed values and is 0 when nothing is displayed.
func Ordered(g AxisGroup, order []string, visible []string) ChartSeries {
	var show map[string]struct{}
	if visible != nil {
		show = make(map[string]struct{}, len(visible))
		for _, v := range visible {
			show[v] = struct{}{}
		}
	}

	s := ChartSeries{Labels: []string{}, Values: []types.Number{}}
	var shown []float64
	for _, cat := range order {
		if show != nil {
			if _, ok := show[cat]; !ok {
				continue
			}
		}
		v, ok := g[cat]
		if !ok {
			continue
		}
		s.Labels = append(s.Labels, cat)
		s.Values = append(s.Values, types.Number(v))
		shown = append(shown, v)
	}
	if len(shown) > 0 {
		s.Average = types.Number(mean(shown))
	}
	s.AverageLabel = "Média: " + Percent(s.Average.Float()).Display(2)
	return s
}
