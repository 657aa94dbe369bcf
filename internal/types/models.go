package types

// Session scopes upstream reads to one caller. It is built per request and
// passed explicitly; nothing is looked up from ambient state.
type Session struct {
	Token     string `json:"-"`
	EmpresaID string `json:"empresa_id,omitempty"`
}

// MetricRecord is one compliance metric of a category.
type MetricRecord struct {
	Categoria      string `json:"categoria"`
	PorcentagemSim Value  `json:"porcentagem_sim"`
}

// AxisCount is the number of indicators registered under an axis.
type AxisCount struct {
	Eixo      string `json:"eixo"`
	TotalEixo Value  `json:"total_eixo"`
}

// AxisCounts indexes counts by their eixo string as sent. Later entries win.
func AxisCounts(list []AxisCount) map[string]Value {
	out := make(map[string]Value, len(list))
	for _, c := range list {
		out[c.Eixo] = c.TotalEixo
	}
	return out
}

// PlanningRecord is one (status, month, quantity) observation.
type PlanningRecord struct {
	Status     string `json:"status" csv:"status"`
	Mes        Value  `json:"mes" csv:"mes"`
	Quantidade Value  `json:"quantidade" csv:"quantidade"`
}

// ActionPlanRecord aggregates the action plans of one category.
type ActionPlanRecord struct {
	Categoria      string `json:"categoria" csv:"categoria"`
	PlanosDeAcao   Value  `json:"planosDeAcao" csv:"planos_de_acao"`
	NaoIniciado    Value  `json:"naoIniciado" csv:"nao_iniciado"`
	EmAndamento    Value  `json:"emAndamento" csv:"em_andamento"`
	Atrasado       Value  `json:"atrasado" csv:"atrasado"`
	Concluido      Value  `json:"concluido" csv:"concluido"`
	GastoPlanejado Value  `json:"gastoPlanejado" csv:"gasto_planejado"`
	GastoRealizado Value  `json:"gastoRealizado" csv:"gasto_realizado"`
}
