package aggregator

import (
	"encoding/json"

	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

// RollupSummary is one column of the general dashboard.
type RollupSummary struct {
	Quantidade          int64
	PercentualMetas     Percentage
	AcoesPrevistas      int64
	AcoesRealizadas     int64
	PercentualConclusao Percentage

	metasSum float64
	count    int
}

// Percentages are rendered to one decimal here, at the JSON boundary.
func (s RollupSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Quantidade          int64  `json:"quantidade"`
		PercentualMetas     string `json:"percentualMetas"`
		AcoesPrevistas      int64  `json:"acoesPrevistas"`
		AcoesRealizadas     int64  `json:"acoesRealizadas"`
		PercentualConclusao string `json:"percentualConclusao"`
	}{
		s.Quantidade,
		s.PercentualMetas.Display(1),
		s.AcoesPrevistas,
		s.AcoesRealizadas,
		s.PercentualConclusao.Display(1),
	})
}

func (s *RollupSummary) finish() {
	s.PercentualMetas = Percentage{}
	if s.count > 0 {
		s.PercentualMetas = Percent(s.metasSum / float64(s.count))
	}
	s.PercentualConclusao = Percentage{}
	if s.AcoesPrevistas != 0 {
		s.PercentualConclusao = Percent(float64(s.AcoesRealizadas) / float64(s.AcoesPrevistas) * 100)
	}
}

// GeneralSummary is the four-column general dashboard: every analysed
// indicator, then one column per axis.
type GeneralSummary struct {
	Analisados RollupSummary `json:"analisados"`
	Ambientais RollupSummary `json:"ambientais"`
	Sociais    RollupSummary `json:"sociais"`
	Governanca RollupSummary `json:"governanca"`
}

// RollupGeneral folds the general report into the dashboard columns.
//
// Records are routed by eixo with diacritics ignored; records of no known
// axis are dropped. An axis' quantidade is not counted here: each matching
// record overwrites it with axisCounts[eixo as sent], so an axis without
// records reports 0. Actions are summed and percentual_realizado averaged
// over the axis' records. The overall column sums the axes and pools the
// goal percentages over all records.
func RollupGeneral(indicators []types.IndicatorRecord, axisCounts map[string]types.Value) GeneralSummary {
	var axes [3]RollupSummary
	for _, rec := range indicators {
		axis, ok := vocab.ParseAxis(rec.Eixo)
		if !ok {
			continue
		}
		s := &axes[axis.Index()]
		s.Quantidade = axisCounts[rec.Eixo].IntOr(0)
		s.AcoesPrevistas += rec.AcoesPrevistas.IntOr(0)
		s.AcoesRealizadas += rec.AcoesConcluidas.IntOr(0)
		s.metasSum += rec.PercentualRealizado.FloatOr(0)
		s.count++
	}

	var total RollupSummary
	for i := range axes {
		total.Quantidade += axes[i].Quantidade
		total.AcoesPrevistas += axes[i].AcoesPrevistas
		total.AcoesRealizadas += axes[i].AcoesRealizadas
		total.metasSum += axes[i].metasSum
		total.count += axes[i].count
		axes[i].finish()
	}
	total.finish()

	return GeneralSummary{
		Analisados: total,
		Ambientais: axes[vocab.Ambiental.Index()],
		Sociais:    axes[vocab.Social.Index()],
		Governanca: axes[vocab.Governanca.Index()],
	}
}
