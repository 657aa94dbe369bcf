package dataset

import (
	"esg-insights-go/internal/logger"
	"esg-insights-go/internal/vocab"
)

// Summary describes what a workbook can serve.
type Summary struct {
	Sheets  map[string]int `json:"sheets"`
	Missing []string       `json:"missing"`
}

// Expected lists the sheets the dashboards read, in endpoint order.
func Expected() []string {
	out := make([]string, 0, len(vocab.Axes)+4)
	for _, a := range vocab.Axes {
		out = append(out, MetricSheet(a))
	}
	return append(out, SheetGeneral, SheetCounts, SheetPlanning, SheetActions)
}

// Summary counts the data rows of every expected sheet and lists the
// missing ones. Dashboards backed by a missing sheet fail with
// ErrSheetNotFound; the others keep working.
func (w *Workbook) Summary() Summary {
	s := Summary{Sheets: map[string]int{}, Missing: []string{}}
	for _, name := range Expected() {
		rows, err := w.rows(name)
		if err != nil {
			s.Missing = append(s.Missing, name)
			continue
		}
		n := 0
		if len(rows) > 1 {
			n = len(rows) - 1
		}
		s.Sheets[name] = n
	}
	return s
}

// Log reports the summary the way startup logs expect it.
func (s Summary) Log(log *logger.Logger) {
	entry := log.Component("dataset").WithField("sheets", len(s.Sheets))
	for name, rows := range s.Sheets {
		entry = entry.WithField("rows_"+name, rows)
	}
	if len(s.Missing) > 0 {
		entry.WithField("missing", s.Missing).Warn("workbook lacks some endpoint sheets")
		return
	}
	entry.Info("workbook loaded")
}
