package vocab

// Status is the progress state of an action plan.
type Status int

const (
	StatusUnknown Status = iota
	NaoIniciado
	EmAndamento
	Concluido
	Atrasado
)

// Statuses lists the known statuses in display order.
var Statuses = [4]Status{NaoIniciado, EmAndamento, Concluido, Atrasado}

// Display priorities. The synthetic total row sits between the known
// statuses and anything unrecognised.
const (
	PriorityTotal   = 5
	PriorityUnknown = 6
)

// TotalLabel names the synthetic grand-total row.
const TotalLabel = "Total"

var statusByKey = map[string]Status{
	"nao iniciado": NaoIniciado,
	"em andamento": EmAndamento,
	"concluido":    Concluido,
	"atrasado":     Atrasado,
}

// ParseStatus maps any known spelling ("Não Iniciado", "Não iniciado",
// "nao iniciado", ...) to its canonical status. Matching ignores case,
// diacritics and surrounding blanks.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusByKey[foldKey(s)]
	return st, ok
}

// CanonicalStatus returns the canonical spelling of s, or s untouched when
// it is not a known status.
func CanonicalStatus(s string) string {
	if st, ok := ParseStatus(s); ok {
		return st.String()
	}
	return s
}

func (s Status) String() string {
	switch s {
	case NaoIniciado:
		return "Não Iniciado"
	case EmAndamento:
		return "Em Andamento"
	case Concluido:
		return "Concluído"
	case Atrasado:
		return "Atrasado"
	}
	return ""
}

// Priority is the row order of the status in planning reports.
func (s Status) Priority() int {
	switch s {
	case NaoIniciado:
		return 1
	case EmAndamento:
		return 2
	case Concluido:
		return 3
	case Atrasado:
		return 4
	}
	return PriorityUnknown
}

// LabelPriority is Priority for a raw row label, including the total row.
func LabelPriority(label string) int {
	if label == TotalLabel {
		return PriorityTotal
	}
	st, _ := ParseStatus(label)
	return st.Priority()
}
