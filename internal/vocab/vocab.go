// Package vocab holds the closed vocabularies shared by every rollup: the
// three ESG axes, action-plan statuses, the twelve reporting months and the
// per-axis category order used for charting.
package vocab

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips diacritics: NFD decomposition, combining marks removed, NFC.
// Case is preserved.
func Fold(s string) string {
	// transform chains keep state, build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// foldKey folds diacritics, case and surrounding blanks.
func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(Fold(s)))
}

// Axis is one of the three ESG pillars.
type Axis int

const (
	AxisUnknown Axis = iota
	Ambiental
	Social
	Governanca
)

// Axes lists the pillars in display order.
var Axes = [3]Axis{Ambiental, Social, Governanca}

var axisByFolded = map[string]Axis{
	"Ambiental":  Ambiental,
	"Social":     Social,
	"Governanca": Governanca,
}

// ParseAxis maps an eixo string to its axis. Only diacritics are ignored;
// case and whitespace are significant, so "ambiental" is unknown.
func ParseAxis(s string) (Axis, bool) {
	a, ok := axisByFolded[Fold(s)]
	return a, ok
}

func (a Axis) String() string {
	switch a {
	case Ambiental:
		return "Ambiental"
	case Social:
		return "Social"
	case Governanca:
		return "Governança"
	}
	return "Desconhecido"
}

// Key is the summary column name used by the general rollup.
func (a Axis) Key() string {
	switch a {
	case Ambiental:
		return "ambientais"
	case Social:
		return "sociais"
	case Governanca:
		return "governanca"
	}
	return ""
}

// Label is the chart/report heading of the axis.
func (a Axis) Label() string {
	switch a {
	case Ambiental:
		return "Meio Ambiente"
	case Social:
		return "Social"
	case Governanca:
		return "Governança"
	}
	return ""
}

// Slug is the path segment of the axis in the analysis endpoints.
func (a Axis) Slug() string {
	switch a {
	case Ambiental:
		return "meio-ambiente"
	case Social:
		return "social"
	case Governanca:
		return "governanca"
	}
	return ""
}

// Index is the position of the axis in Axes, -1 when unknown.
func (a Axis) Index() int {
	switch a {
	case Ambiental:
		return 0
	case Social:
		return 1
	case Governanca:
		return 2
	}
	return -1
}
