package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"esg-insights-go/internal/esgapi"
	"esg-insights-go/internal/logger"
	"esg-insights-go/internal/processor"
	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

type stubSource struct {
	last       types.Session
	metrics    map[vocab.Axis][]types.MetricRecord
	indicators []types.IndicatorRecord
	counts     []types.AxisCount
	planning   []types.PlanningRecord
	actions    []types.ActionPlanRecord
	err        error
}

func (f *stubSource) Metrics(_ context.Context, s types.Session, axis vocab.Axis) ([]types.MetricRecord, error) {
	return f.metrics[axis], f.err
}

func (f *stubSource) GeneralReport(_ context.Context, s types.Session) ([]types.IndicatorRecord, error) {
	f.last = s
	return f.indicators, f.err
}

func (f *stubSource) AxisCounts(_ context.Context, s types.Session) ([]types.AxisCount, error) {
	return f.counts, f.err
}

func (f *stubSource) PlanningReport(_ context.Context, s types.Session) ([]types.PlanningRecord, error) {
	f.last = s
	return f.planning, f.err
}

func (f *stubSource) ActionReport(_ context.Context, s types.Session) ([]types.ActionPlanRecord, error) {
	return f.actions, f.err
}

func newTestServer(src *stubSource) http.Handler {
	log := logger.New(logger.Options{Output: io.Discard})
	return newServer(processor.New(src, processor.Options{Logger: log}), log).routes()
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func planningSource() *stubSource {
	return &stubSource{planning: []types.PlanningRecord{
		{Status: "Atrasado", Mes: types.Text("1"), Quantidade: types.Text("3")},
		{Status: "Atrasado", Mes: types.Text("1"), Quantidade: types.Text("5")},
		{Status: "concluido", Mes: types.Text("2"), Quantidade: types.Text("2")},
	}}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(&stubSource{}), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(logger.RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(logger.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newTestServer(&stubSource{}).ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(logger.RequestIDHeader))
}

func TestSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard/general?empresa_id=42", nil)
	req.Header.Set("Authorization", "Bearer tok")
	assert.Equal(t, types.Session{Token: "tok", EmpresaID: "42"}, session(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "raw")
	assert.Equal(t, types.Session{Token: "raw"}, session(req))
}

func TestGeneralDashboard(t *testing.T) {
	src := &stubSource{
		indicators: []types.IndicatorRecord{{
			Eixo:                "Ambiental",
			AcoesPrevistas:      types.Text("10"),
			AcoesConcluidas:     types.Text("5"),
			PercentualRealizado: types.Text("50"),
		}},
		counts: []types.AxisCount{{Eixo: "Ambiental", TotalEixo: types.Text("4")}},
	}
	req := httptest.NewRequest(http.MethodGet, "/dashboard/general?empresa_id=7", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	newTestServer(src).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.Session{Token: "secret", EmpresaID: "7"}, src.last)

	var out map[string]map[string]interface{}
	decodeJSON(t, rec, &out)
	assert.Equal(t, "50.0%", out["ambientais"]["percentualConclusao"])
	assert.EqualValues(t, 4, out["analisados"]["quantidade"])
}

func TestAnalysisDashboard(t *testing.T) {
	src := &stubSource{metrics: map[vocab.Axis][]types.MetricRecord{
		vocab.Ambiental:  {{Categoria: "Energia", PorcentagemSim: types.Text("80")}},
		vocab.Social:     {{Categoria: "Equipe", PorcentagemSim: types.Text("70")}},
		vocab.Governanca: {{Categoria: "Ética", PorcentagemSim: types.Text("90")}},
	}}
	rec := do(t, newTestServer(src), http.MethodGet, "/dashboard/analysis", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Axes []struct {
			Key string `json:"eixo"`
		} `json:"eixos"`
		OverallDisplay string `json:"mediaGeral"`
	}
	decodeJSON(t, rec, &out)
	require.Len(t, out.Axes, 3)
	assert.Equal(t, "ambientais", out.Axes[0].Key)
	assert.Equal(t, "80%", out.OverallDisplay)
}

func TestMonthlyDashboard(t *testing.T) {
	rec := types.IndicatorRecord{Indicador: "Energia"}
	rec.SetField("meta_janeiro", types.Text("10"))
	h := newTestServer(&stubSource{indicators: []types.IndicatorRecord{rec}})

	ok := do(t, h, http.MethodGet, "/dashboard/monthly?indicador=Energia", "", "")
	require.Equal(t, http.StatusOK, ok.Code)
	var out struct {
		MetaSum float64 `json:"metaSoma"`
	}
	decodeJSON(t, ok, &out)
	assert.Equal(t, 10.0, out.MetaSum)

	missing := do(t, h, http.MethodGet, "/dashboard/monthly?indicador=Agua", "", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), `"error"`)

	bad := do(t, h, http.MethodGet, "/dashboard/monthly", "", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestUpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", &esgapi.StatusError{Endpoint: "/relatoriogeral", Code: 401}, http.StatusUnauthorized},
		{"server error", &esgapi.StatusError{Endpoint: "/relatoriogeral", Code: 503}, http.StatusBadGateway},
		{"not configured", esgapi.ErrNotConfigured, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(&stubSource{err: tt.err}), http.MethodGet, "/dashboard/general", "", "")
			assert.Equal(t, tt.want, rec.Code)
			var out map[string]string
			decodeJSON(t, rec, &out)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestPlanningReportFormats(t *testing.T) {
	h := newTestServer(planningSource())

	js := do(t, h, http.MethodGet, "/reports/planning", "", "")
	require.Equal(t, http.StatusOK, js.Code)
	var out struct {
		Rows []struct {
			Status string `json:"status"`
		} `json:"rows"`
	}
	decodeJSON(t, js, &out)
	require.Len(t, out.Rows, 3)
	assert.Equal(t, "Concluído", out.Rows[0].Status)
	assert.Equal(t, "Atrasado", out.Rows[1].Status)
	assert.Equal(t, vocab.TotalLabel, out.Rows[2].Status)

	csv := do(t, h, http.MethodGet, "/reports/planning?format=csv", "", "")
	require.Equal(t, http.StatusOK, csv.Code)
	assert.Equal(t, contentCSV, csv.Header().Get("Content-Type"))
	assert.Contains(t, csv.Header().Get("Content-Disposition"), "planejamento.csv")
	assert.True(t, strings.HasPrefix(csv.Body.String(), "status;janeiro;"))

	xlsx := do(t, h, http.MethodGet, "/reports/planning?format=xlsx", "", "")
	require.Equal(t, http.StatusOK, xlsx.Code)
	assert.Equal(t, contentXLSX, xlsx.Header().Get("Content-Type"))
	f, err := excelize.OpenReader(bytes.NewReader(xlsx.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Planejamento")

	bad := do(t, h, http.MethodGet, "/reports/planning?format=pdf", "", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestActionsReport(t *testing.T) {
	src := &stubSource{actions: []types.ActionPlanRecord{
		{Categoria: "Energia", PlanosDeAcao: types.Text("3"), GastoPlanejado: types.Text("100")},
	}}
	h := newTestServer(src)

	rec := do(t, h, http.MethodGet, "/reports/actions", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Total struct {
			PlanosDeAcao int64 `json:"planosDeAcao"`
		} `json:"total"`
	}
	decodeJSON(t, rec, &out)
	assert.Equal(t, int64(3), out.Total.PlanosDeAcao)

	csv := do(t, h, http.MethodGet, "/reports/actions?format=csv", "", "")
	require.Equal(t, http.StatusOK, csv.Code)
	assert.Contains(t, csv.Body.String(), "Energia;3;")
}

func TestRollupStatus(t *testing.T) {
	h := newTestServer(&stubSource{})
	body := `[
		{"status": "Atrasado", "mes": "1", "quantidade": "3"},
		{"status": "Atrasado", "mes": 1, "quantidade": 5}
	]`

	type report struct {
		ByStatus map[string]struct {
			Quantities []*float64 `json:"quantidades"`
			Total      *float64   `json:"total"`
		} `json:"byStatus"`
	}

	last := do(t, h, http.MethodPost, "/rollup/status", "application/json", body)
	require.Equal(t, http.StatusOK, last.Code)
	var lw report
	decodeJSON(t, last, &lw)
	assert.Equal(t, 5.0, *lw.ByStatus["Atrasado"].Quantities[0])
	assert.Equal(t, 8.0, *lw.ByStatus["Atrasado"].Total)

	sum := do(t, h, http.MethodPost, "/rollup/status?policy=sum", "application/json", body)
	require.Equal(t, http.StatusOK, sum.Code)
	var sc report
	decodeJSON(t, sum, &sc)
	assert.Equal(t, 8.0, *sc.ByStatus["Atrasado"].Quantities[0])

	bad := do(t, h, http.MethodPost, "/rollup/status?policy=max", "application/json", body)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestRollupStatusCSV(t *testing.T) {
	body := "status,mes,quantidade\nEm andamento,3,4\nEm Andamento,4,1\n"
	rec := do(t, newTestServer(&stubSource{}), http.MethodPost, "/rollup/status", "text/csv; charset=utf-8", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		GrandTotal struct {
			Total float64 `json:"total"`
		} `json:"grandTotal"`
		Rows []struct {
			Status string `json:"status"`
		} `json:"rows"`
	}
	decodeJSON(t, rec, &out)
	assert.Equal(t, 5.0, out.GrandTotal.Total)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "Em Andamento", out.Rows[0].Status)
}

func TestRollupCategory(t *testing.T) {
	body := `{
		"eixo": "Ambiental",
		"registros": [
			{"categoria": "Água", "porcentagem_sim": "40"},
			{"categoria": "Energia", "porcentagem_sim": 60},
			{"categoria": "Água", "porcentagem_sim": "20"}
		]
	}`
	rec := do(t, newTestServer(&stubSource{}), http.MethodPost, "/rollup/category", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Categorias map[string]float64 `json:"categorias"`
		Media      float64            `json:"media"`
		Grafico    *struct {
			Labels []string `json:"labels"`
		} `json:"grafico"`
	}
	decodeJSON(t, rec, &out)
	assert.Equal(t, map[string]float64{"Água": 20, "Energia": 60}, out.Categorias)
	assert.Equal(t, 40.0, out.Media)
	require.NotNil(t, out.Grafico)
	assert.Equal(t, []string{"Energia", "Água"}, out.Grafico.Labels)
}

func TestRollupGeneral(t *testing.T) {
	body := `{
		"indicadores": [{"eixo": "Social", "acoes_previstas": "4", "acoes_concluidas": "1", "percentual_realizado": "20"}],
		"contagens": [{"eixo": "Social", "total_eixo": "2"}]
	}`
	rec := do(t, newTestServer(&stubSource{}), http.MethodPost, "/rollup/general", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]map[string]interface{}
	decodeJSON(t, rec, &out)
	assert.EqualValues(t, 2, out["sociais"]["quantidade"])
	assert.Equal(t, "25.0%", out["sociais"]["percentualConclusao"])
	assert.Equal(t, "0%", out["ambientais"]["percentualConclusao"])
}

func TestRollupSeries(t *testing.T) {
	body := `{"indicador": "Resíduos", "meta_janeiro": "10", "meta_marco": 5, "resultado_janeiro": "abc"}`
	rec := do(t, newTestServer(&stubSource{}), http.MethodPost, "/rollup/series", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Indicador    string   `json:"indicador"`
		Labels       []string `json:"labels"`
		MetaSum      float64  `json:"metaSoma"`
		RealizadoSum float64  `json:"realizadoSoma"`
	}
	decodeJSON(t, rec, &out)
	assert.Equal(t, "Resíduos", out.Indicador)
	assert.Len(t, out.Labels, 12)
	assert.Equal(t, 15.0, out.MetaSum)
	assert.Equal(t, 0.0, out.RealizadoSum)
}

func TestRollupActions(t *testing.T) {
	h := newTestServer(&stubSource{})

	body := "categoria,planos_de_acao,gasto_planejado,gasto_realizado\nEnergia,2,1234.5,234.5\nForaDaLista,9,1,1\n"
	rec := do(t, h, http.MethodPost, "/rollup/actions", "text/csv", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Total struct {
			PlanosDeAcao int64   `json:"planosDeAcao"`
			Diferenca    float64 `json:"diferenca"`
		} `json:"total"`
	}
	decodeJSON(t, rec, &out)
	assert.Equal(t, int64(2), out.Total.PlanosDeAcao)
	assert.Equal(t, 1000.0, out.Total.Diferenca)

	js := `[{"categoria": "Ética", "planosDeAcao": "4", "gastoPlanejado": 10}]`
	csv := do(t, h, http.MethodPost, "/rollup/actions?format=csv", "application/json", js)
	require.Equal(t, http.StatusOK, csv.Code)
	assert.Contains(t, csv.Body.String(), "Governança;Ética;4;0;0;0;0;R$ 10,00;R$ 0,00;R$ 10,00")
}

func TestRollupBadBody(t *testing.T) {
	h := newTestServer(&stubSource{})
	for _, path := range []string{"/rollup/category", "/rollup/general", "/rollup/status", "/rollup/series", "/rollup/actions"} {
		rec := do(t, h, http.MethodPost, path, "application/json", "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(&stubSource{}), http.MethodGet, "/rollup/status", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
