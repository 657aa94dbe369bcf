package aggregator

import (
	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

// SeriesPrefix selects the monthly field family of an indicator.
type SeriesPrefix string

const (
	Goals   SeriesPrefix = "meta_"
	Results SeriesPrefix = "resultado_"
)

// Series holds one value per month, Janeiro first. A slot whose field is
// missing stays unset, which is not the same as a reported zero.
type Series [12]types.Value

// BuildSeries reads prefix+<month key> for the twelve months of rec.
func BuildSeries(rec types.IndicatorRecord, prefix SeriesPrefix) Series {
	var s Series
	for _, m := range vocab.Months {
		v, _ := rec.Field(string(prefix) + m.FieldKey())
		s[m.Index()] = v
	}
	return s
}

// SumSeries totals a series, counting missing and non-numeric slots as 0.
func SumSeries(s Series) float64 {
	total := 0.0
	for _, v := range s {
		total += v.FloatOr(0)
	}
	return total
}

// Present counts the slots that carry a value.
func (s Series) Present() int {
	n := 0
	for _, v := range s {
		if v.IsSet() {
			n++
		}
	}
	return n
}

// Comparison puts the goals and results of one indicator side by side.
type Comparison struct {
	Indicador       string              `json:"indicador"`
	Tipo            types.IndicatorType `json:"tipo"`
	Labels          []string            `json:"labels"`
	Meta            Series              `json:"meta"`
	Realizado       Series              `json:"realizado"`
	MetaTotal       types.Value         `json:"metaTotal"`
	RealizadoTotal  types.Value         `json:"realizadoTotal"`
	MetaTotalText   string              `json:"metaTotalTexto"`
	RealizadoText   string              `json:"realizadoTotalTexto"`
	MetaSum         float64             `json:"metaSoma"`
	RealizadoSum    float64             `json:"realizadoSoma"`
	MetaMonths      int                 `json:"metaMeses"`
	RealizadoMonths int                 `json:"realizadoMeses"`
	PercentualAcoes types.Value         `json:"percentualAcoes"`
}

// Compare builds the monthly goals-versus-results view of rec. The upstream
// totals are passed through and rendered per the indicator's tipo; the sums
// are recomputed from the series.
func Compare(rec types.IndicatorRecord) Comparison {
	meta := BuildSeries(rec, Goals)
	realizado := BuildSeries(rec, Results)
	return Comparison{
		Indicador:       rec.Indicador,
		Tipo:            rec.Tipo,
		Labels:          vocab.MonthNames(),
		Meta:            meta,
		Realizado:       realizado,
		MetaTotal:       rec.MetaTotal,
		RealizadoTotal:  rec.RealizadoTotal,
		MetaTotalText:   rec.Tipo.Format(rec.MetaTotal),
		RealizadoText:   rec.Tipo.Format(rec.RealizadoTotal),
		MetaSum:         SumSeries(meta),
		RealizadoSum:    SumSeries(realizado),
		MetaMonths:      meta.Present(),
		RealizadoMonths: realizado.Present(),
		PercentualAcoes: rec.PercentualAcoes,
	}
}

// FindIndicator returns the first record named indicador.
func FindIndicator(records []types.IndicatorRecord, indicador string) (types.IndicatorRecord, bool) {
	for _, r := range records {
		if r.Indicador == indicador {
			return r, true
		}
	}
	return types.IndicatorRecord{}, false
}
