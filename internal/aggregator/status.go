package aggregator

import (
	"encoding/json"
	"fmt"
	"sort"

	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

// StatusCellPolicy decides what a (status, month) cell holds when several
// records share it. Row and grand totals always accumulate every record.
type StatusCellPolicy int

const (
	// LastWrite keeps the quantity of the last record. With duplicate
	// (status, month) rows the cell then disagrees with the row total; this
	// matches the reports already in circulation.
	LastWrite StatusCellPolicy = iota
	// SumCells accumulates duplicates so cells add up to the totals.
	SumCells
)

// ParseStatusCellPolicy accepts "last-write" (also "") and "sum".
func ParseStatusCellPolicy(s string) (StatusCellPolicy, error) {
	switch s {
	case "", "last-write":
		return LastWrite, nil
	case "sum":
		return SumCells, nil
	}
	return LastWrite, fmt.Errorf("unknown status cell policy %q", s)
}

func (p StatusCellPolicy) String() string {
	if p == SumCells {
		return "sum"
	}
	return "last-write"
}

// MonthRow is one line of the status matrix.
type MonthRow struct {
	Quantities [12]types.Number `json:"quantidades"`
	Total      types.Number     `json:"total"`
}

// StatusRow is a labelled MonthRow ready for display. GrandTotal marks the
// synthetic total row, which an upstream status literally named "Total"
// shares its label with.
type StatusRow struct {
	Status     string `json:"status"`
	GrandTotal bool   `json:"grandTotal,omitempty"`
	MonthRow
}

// StatusReport is the status × month quantity matrix.
type StatusReport struct {
	ByStatus   map[string]MonthRow
	GrandTotal MonthRow
	order      []string
}

// RollupStatus builds the planning matrix. Status spellings are folded to
// their canonical form first; unknown statuses keep their own row.
//
// Quantities are read as integers; an unreadable quantity is NaN and
// poisons its cell and totals. A month outside 1..12 still counts in the
// totals but lands in no cell.
func RollupStatus(records []types.PlanningRecord, policy StatusCellPolicy) StatusReport {
	rows := make(map[string]*MonthRow)
	report := StatusReport{}

	for _, r := range records {
		label := vocab.CanonicalStatus(r.Status)
		row, ok := rows[label]
		if !ok {
			row = &MonthRow{}
			rows[label] = row
			report.order = append(report.order, label)
		}

		qty := types.Number(r.Quantidade.IntOrNaN())
		idx := -1
		if m, ok := r.Mes.Int(); ok {
			idx = int(m) - 1
		}
		if _, valid := vocab.MonthFromIndex(idx); valid {
			if policy == SumCells {
				row.Quantities[idx] += qty
			} else {
				row.Quantities[idx] = qty
			}
			report.GrandTotal.Quantities[idx] += qty
		}
		row.Total += qty
		report.GrandTotal.Total += qty
	}

	report.ByStatus = make(map[string]MonthRow, len(rows))
	for label, row := range rows {
		report.ByStatus[label] = *row
	}
	return report
}

// Rows lists the statuses by display priority, first appearance breaking
// ties, then appends the synthetic total row.
func (r StatusReport) Rows() []StatusRow {
	order := r.order
	if len(order) != len(r.ByStatus) {
		order = make([]string, 0, len(r.ByStatus))
		for label := range r.ByStatus {
			order = append(order, label)
		}
		sort.Strings(order)
	}

	rows := make([]StatusRow, 0, len(order)+1)
	for _, label := range order {
		rows = append(rows, StatusRow{Status: label, MonthRow: r.ByStatus[label]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return vocab.LabelPriority(rows[i].Status) < vocab.LabelPriority(rows[j].Status)
	})
	return append(rows, StatusRow{Status: vocab.TotalLabel, GrandTotal: true, MonthRow: r.GrandTotal})
}

func (r StatusReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ByStatus   map[string]MonthRow `json:"byStatus"`
		GrandTotal MonthRow            `json:"grandTotal"`
		Rows       []StatusRow         `json:"rows"`
	}{r.ByStatus, r.GrandTotal, r.Rows()})
}
