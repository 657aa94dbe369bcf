package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"esg-insights-go/internal/aggregator"
	"esg-insights-go/internal/dataset"
	"esg-insights-go/internal/esgapi"
	"esg-insights-go/internal/logger"
	"esg-insights-go/internal/processor"
	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

const (
	maxBody     = 10 << 20
	contentXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentCSV  = "text/csv; charset=utf-8"
)

type server struct {
	proc *processor.Processor
	log  *logger.Logger
}

func newServer(proc *processor.Processor, log *logger.Logger) *server {
	return &server{proc: proc, log: log.Component("http")}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})

	mux.HandleFunc("GET /dashboard/analysis", s.analysis)
	mux.HandleFunc("GET /dashboard/general", s.general)
	mux.HandleFunc("GET /dashboard/monthly", s.monthly)
	mux.HandleFunc("GET /reports/planning", s.planning)
	mux.HandleFunc("GET /reports/actions", s.actions)

	mux.HandleFunc("POST /rollup/category", s.rollupCategory)
	mux.HandleFunc("POST /rollup/general", s.rollupGeneral)
	mux.HandleFunc("POST /rollup/status", s.rollupStatus)
	mux.HandleFunc("POST /rollup/series", s.rollupSeries)
	mux.HandleFunc("POST /rollup/actions", s.rollupActions)

	return s.withRequestLog(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLog logs every request once it is served and echoes its id.
func (s *server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := logger.RequestID(r)
		r.Header.Set(logger.RequestIDHeader, id)
		w.Header().Set(logger.RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		entry := s.log.WithRequest(r).WithFields(logrus.Fields{
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if rec.status >= 500 {
			entry.Warn("request failed")
			return
		}
		entry.Info("request served")
	})
}

// session scopes upstream reads to the caller: bearer token from the
// Authorization header, company from the empresa_id query parameter.
func session(r *http.Request) types.Session {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return types.Session{Token: token, EmpresaID: r.URL.Query().Get("empresa_id")}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *server) respond(w http.ResponseWriter, r *http.Request, v interface{}) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		s.log.WithRequest(r).WithError(err).Error("failed to write response")
	}
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	entry := s.log.WithRequest(r).WithField("status", status).WithError(err)
	if status >= 500 {
		entry.Error("request error")
	} else {
		entry.Warn("request rejected")
	}
	_ = writeJSON(w, status, map[string]string{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, esgapi.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, processor.ErrIndicatorNotFound), errors.Is(err, dataset.ErrSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, esgapi.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func (s *server) analysis(w http.ResponseWriter, r *http.Request) {
	res, err := s.proc.Analysis(r.Context(), session(r))
	if err != nil {
		s.fail(w, r, errorStatus(err), err)
		return
	}
	s.respond(w, r, res)
}

func (s *server) general(w http.ResponseWriter, r *http.Request) {
	res, err := s.proc.General(r.Context(), session(r))
	if err != nil {
		s.fail(w, r, errorStatus(err), err)
		return
	}
	s.respond(w, r, res)
}

func (s *server) monthly(w http.ResponseWriter, r *http.Request) {
	indicador := r.URL.Query().Get("indicador")
	if indicador == "" {
		s.fail(w, r, http.StatusBadRequest, errors.New("missing indicador"))
		return
	}
	res, err := s.proc.Monthly(r.Context(), session(r), indicador)
	if err != nil {
		s.fail(w, r, errorStatus(err), err)
		return
	}
	s.respond(w, r, res)
}

type exporter[T any] struct {
	name string
	xlsx func(io.Writer, T) error
	csv  func(io.Writer, T) error
}

// export writes v as JSON or, with ?format=xlsx|csv, as a download.
func export[T any](s *server, w http.ResponseWriter, r *http.Request, v T, e exporter[T]) {
	var write func(io.Writer, T) error
	var ext, contentType string
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		s.respond(w, r, v)
		return
	case "xlsx":
		write, ext, contentType = e.xlsx, "xlsx", contentXLSX
	case "csv":
		write, ext, contentType = e.csv, "csv", contentCSV
	default:
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("unknown format %q", format))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, e.name, ext))
	if err := write(w, v); err != nil {
		s.log.WithRequest(r).WithError(err).Error("failed to write export")
	}
}

func (s *server) planning(w http.ResponseWriter, r *http.Request) {
	res, err := s.proc.Planning(r.Context(), session(r))
	if err != nil {
		s.fail(w, r, errorStatus(err), err)
		return
	}
	export(s, w, r, res, exporter[aggregator.StatusReport]{
		name: "planejamento",
		xlsx: dataset.WriteStatusXLSX,
		csv:  dataset.WriteStatusCSV,
	})
}

func (s *server) actions(w http.ResponseWriter, r *http.Request) {
	res, err := s.proc.Actions(r.Context(), session(r))
	if err != nil {
		s.fail(w, r, errorStatus(err), err)
		return
	}
	export(s, w, r, res, exporter[aggregator.ActionReport]{
		name: "acoes",
		xlsx: dataset.WriteActionsXLSX,
		csv:  dataset.WriteActionsCSV,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

type categoryRequest struct {
	Eixo      string               `json:"eixo"`
	Registros []types.MetricRecord `json:"registros"`
	Visiveis  []string             `json:"visiveis"`
}

type categoryResponse struct {
	Categorias aggregator.AxisGroup    `json:"categorias"`
	Media      types.Number            `json:"media"`
	Grafico    *aggregator.ChartSeries `json:"grafico,omitempty"`
}

// rollupCategory groups metric records; with a known eixo the chart series
// is laid out along that axis' category order.
func (s *server) rollupCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	g := aggregator.GroupByCategory(req.Registros)
	res := categoryResponse{Categorias: g, Media: types.Number(aggregator.Average(g))}
	if axis, ok := vocab.ParseAxis(req.Eixo); ok {
		chart := aggregator.Ordered(g, s.proc.Order().For(axis), req.Visiveis)
		res.Grafico = &chart
	}
	s.respond(w, r, res)
}

type generalRequest struct {
	Indicadores []types.IndicatorRecord `json:"indicadores"`
	Contagens   []types.AxisCount       `json:"contagens"`
}

func (s *server) rollupGeneral(w http.ResponseWriter, r *http.Request) {
	var req generalRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	s.respond(w, r, aggregator.RollupGeneral(req.Indicadores, types.AxisCounts(req.Contagens)))
}

// rollupStatus accepts a JSON array of planning records or, with a text/csv
// body, the status,mes,quantidade export. ?policy= overrides the configured
// cell policy.
func (s *server) rollupStatus(w http.ResponseWriter, r *http.Request) {
	policy := s.proc.Policy()
	if p := r.URL.Query().Get("policy"); p != "" {
		parsed, err := aggregator.ParseStatusCellPolicy(p)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, err)
			return
		}
		policy = parsed
	}

	records, err := decodeRecords(w, r, dataset.ReadPlanningCSV)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	s.respond(w, r, aggregator.RollupStatus(records, policy))
}

// decodeRecords reads a JSON array or, for a text/csv body, uses readCSV.
func decodeRecords[T any](w http.ResponseWriter, r *http.Request, readCSV func(io.Reader) ([]T, error)) ([]T, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/csv" {
		return readCSV(http.MaxBytesReader(w, r.Body, maxBody))
	}
	var records []T
	if err := decodeBody(w, r, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// rollupActions lays action plan records out along the configured category
// order. The body is a JSON array or the snake_case CSV export; ?format=
// selects the output like the actions report.
func (s *server) rollupActions(w http.ResponseWriter, r *http.Request) {
	records, err := decodeRecords(w, r, dataset.ReadActionsCSV)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	export(s, w, r, aggregator.RollupActions(records, s.proc.Order()), exporter[aggregator.ActionReport]{
		name: "acoes",
		xlsx: dataset.WriteActionsXLSX,
		csv:  dataset.WriteActionsCSV,
	})
}

func (s *server) rollupSeries(w http.ResponseWriter, r *http.Request) {
	var rec types.IndicatorRecord
	if err := decodeBody(w, r, &rec); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	s.respond(w, r, aggregator.Compare(rec))
}
