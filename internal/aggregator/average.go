package aggregator

import (
	"math"

	"esg-insights-go/internal/types"
)

// Average is the arithmetic mean of an axis group. An empty group has no
// mean and yields NaN; a NaN category poisons the result.
func Average(g AxisGroup) float64 {
	return mean(g.values())
}

// Combined holds the per-axis means and their equal-weight mean.
type Combined struct {
	Overall types.Number    `json:"overall"`
	PerAxis [3]types.Number `json:"perAxis"`
}

// OverallDisplay is the overall mean rounded to a whole percentage, "0%"
// when some axis has no mean.
func (c Combined) OverallDisplay() string {
	if !c.Overall.Defined() {
		return "0%"
	}
	return Percent(c.Overall.Float()).Display(0)
}

// CombinedAverage averages the three axis means. Each axis weighs the same
// whatever its number of categories.
func CombinedAverage(env, soc, gov AxisGroup) Combined {
	var c Combined
	for i, g := range [3]AxisGroup{env, soc, gov} {
		c.PerAxis[i] = types.Number(Average(g))
	}
	c.Overall = types.Number((c.PerAxis[0].Float() + c.PerAxis[1].Float() + c.PerAxis[2].Float()) / 3)
	return c
}

// Diagnosis is the pooled mean of porcentagem_sim over every record of
// every axis given, so axes with more categories weigh more. NaN when there
// are no records.
func Diagnosis(axes ...[]types.MetricRecord) float64 {
	var values []float64
	for _, records := range axes {
		for _, r := range records {
			v, _ := r.PorcentagemSim.Float()
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return math.NaN()
	}
	return mean(values)
}
