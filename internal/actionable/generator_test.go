package actionable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"esg-insights-go/internal/aggregator"
	"esg-insights-go/internal/types"
)

func TestGenerateFlagsWeakestAxis(t *testing.T) {
	c := aggregator.Combined{PerAxis: [3]types.Number{80, 35, 60}}

	card := Generate(c, 58.123)

	assert.Equal(t, "Diagnóstico Geral: 58.12%", card.Insight)
	assert.Equal(t, "Priorizar plano de ação em Social (média 35%)", card.Action)
	assert.Equal(t, "sociais", card.Axis)
}

func TestGenerateAllAxesHealthy(t *testing.T) {
	c := aggregator.Combined{PerAxis: [3]types.Number{80, 70, 90}}

	card := Generate(c, 80)

	assert.Equal(t, "Manter monitoramento mensal dos indicadores", card.Action)
	assert.Equal(t, "sociais", card.Axis)
}

func TestGenerateSkipsUndefinedAxes(t *testing.T) {
	nan := types.Number(math.NaN())
	c := aggregator.Combined{PerAxis: [3]types.Number{nan, 40, nan}}

	card := Generate(c, 40)
	assert.Equal(t, "sociais", card.Axis)

	empty := Generate(aggregator.Combined{PerAxis: [3]types.Number{nan, nan, nan}}, math.NaN())
	assert.Empty(t, empty.Axis)
	assert.Contains(t, empty.Insight, "indisponível")
}
