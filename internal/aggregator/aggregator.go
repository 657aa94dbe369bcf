// Package aggregator folds flat ESG records into the grouped summaries,
// percentages and month matrices the dashboards render.
//
// Every function here is pure: it reads its arguments, allocates its result
// and keeps nothing between calls, so it is safe to call from concurrent
// handlers. Malformed records never fail a rollup; they degrade to NaN, zero
// or exclusion as documented on each function.
package aggregator

import (
	"encoding/json"
	"math"
	"strconv"
)

// Percentage is a ratio already scaled to 0..100. An undefined percentage
// (nothing to divide by) displays as "0%".
type Percentage struct {
	Value   float64
	Defined bool
}

// Percent wraps a computed percentage.
func Percent(v float64) Percentage { return Percentage{Value: v, Defined: true} }

// Display renders the value with a fixed number of decimals and a trailing
// percent sign.
func (p Percentage) Display(decimals int) string {
	if !p.Defined {
		return "0%"
	}
	return strconv.FormatFloat(p.Value, 'f', decimals, 64) + "%"
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.Defined || math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// mean divides in a fixed order so repeated calls are bit-identical.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
