// Package dataset serves the dashboard inputs from an offline workbook and
// writes finished reports back out as spreadsheets or CSV.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

// ErrSheetNotFound is returned when the workbook lacks an endpoint's sheet.
var ErrSheetNotFound = errors.New("sheet not found")

// Sheet names, one per upstream endpoint. Matching ignores case, accents,
// blanks, dashes and underscores.
const (
	SheetGeneral  = "relatoriogeral"
	SheetCounts   = "qtdporeixo"
	SheetPlanning = "relatorioplanejamento"
	SheetActions  = "relatorioacoes"
)

// MetricSheet is the sheet holding one axis' compliance percentages.
func MetricSheet(a vocab.Axis) string { return a.Slug() }

// Workbook is an in-memory copy of an ESG workbook. It is read once at open
// and never written, so one Workbook may serve concurrent requests.
type Workbook struct {
	sheets map[string][][]string
	names  []string
}

// Open reads every sheet of the .xlsx file at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return load(f)
}

// OpenReader is Open for a workbook already in memory.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return load(f)
}

func load(f *excelize.File) (*Workbook, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	w := &Workbook{sheets: make(map[string][][]string, len(names)), names: names}
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read rows of %q: %w", name, err)
		}
		w.sheets[squash(name)] = rows
	}
	return w, nil
}

func (w *Workbook) rows(sheet string) ([][]string, error) {
	rows, ok := w.sheets[squash(sheet)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	return rows, nil
}

// squash reduces a header or sheet name to a comparison key.
func squash(s string) string {
	s = strings.ToLower(vocab.Fold(strings.TrimSpace(s)))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// fieldKey is the wire name of a header outside the known field set.
func fieldKey(h string) string {
	h = strings.ToLower(vocab.Fold(strings.TrimSpace(h)))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// columns maps each header cell to the record field it feeds. Headers are
// matched against known, loosely spelled; others keep a normalized name.
func columns(header []string, known []string) []string {
	bySquash := make(map[string]string, len(known))
	for _, k := range known {
		bySquash[squash(k)] = k
	}
	cols := make([]string, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			continue
		}
		if k, ok := bySquash[squash(h)]; ok {
			cols[i] = k
			continue
		}
		cols[i] = fieldKey(h)
	}
	return cols
}

const empresaColumn = "empresa_id"

// decode turns the data rows of a sheet into records of type T. Cells are
// handed to T's JSON decoding as strings so the lenient number parsing of
// types.Value applies; empty cells are left out. When the sheet has an
// empresa_id column and the session names a company, other companies' rows
// are skipped.
func decode[T any](rows [][]string, known []string, s types.Session) ([]T, error) {
	out := []T{}
	if len(rows) == 0 {
		return out, nil
	}
	cols := columns(rows[0], append(known[:len(known):len(known)], empresaColumn))
	for n, r := range rows[1:] {
		fields := make(map[string]string, len(r))
		for i, cell := range r {
			if i >= len(cols) || cols[i] == "" || strings.TrimSpace(cell) == "" {
				continue
			}
			fields[cols[i]] = strings.TrimSpace(cell)
		}
		if len(fields) == 0 {
			continue
		}
		if id, ok := fields[empresaColumn]; ok && s.EmpresaID != "" && id != s.EmpresaID {
			continue
		}
		b, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		var rec T
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func sheetRecords[T any](w *Workbook, sheet string, known []string, s types.Session) ([]T, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return nil, err
	}
	out, err := decode[T](rows, known, s)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	return out, nil
}

var (
	metricFields   = []string{"categoria", "porcentagem_sim"}
	countFields    = []string{"eixo", "total_eixo"}
	planningFields = []string{"status", "mes", "quantidade"}
	actionFields   = []string{
		"categoria", "planosDeAcao", "naoIniciado", "emAndamento", "atrasado",
		"concluido", "gastoPlanejado", "gastoRealizado",
	}
	indicatorFields = func() []string {
		f := []string{
			"indicador", "eixo", "tema", "tipo", "metatotal", "realizadototal",
			"percentual_realizado", "acoes_previstas", "acoes_concluidas", "percentual_acoes",
		}
		for _, m := range vocab.Months {
			f = append(f, "meta_"+m.FieldKey(), "resultado_"+m.FieldKey())
		}
		return f
	}()
)

// Metrics reads the sheet of one axis.
func (w *Workbook) Metrics(_ context.Context, s types.Session, axis vocab.Axis) ([]types.MetricRecord, error) {
	return sheetRecords[types.MetricRecord](w, MetricSheet(axis), metricFields, s)
}

func (w *Workbook) GeneralReport(_ context.Context, s types.Session) ([]types.IndicatorRecord, error) {
	return sheetRecords[types.IndicatorRecord](w, SheetGeneral, indicatorFields, s)
}

func (w *Workbook) AxisCounts(_ context.Context, s types.Session) ([]types.AxisCount, error) {
	return sheetRecords[types.AxisCount](w, SheetCounts, countFields, s)
}

func (w *Workbook) PlanningReport(_ context.Context, s types.Session) ([]types.PlanningRecord, error) {
	return sheetRecords[types.PlanningRecord](w, SheetPlanning, planningFields, s)
}

func (w *Workbook) ActionReport(_ context.Context, s types.Session) ([]types.ActionPlanRecord, error) {
	return sheetRecords[types.ActionPlanRecord](w, SheetActions, actionFields, s)
}
