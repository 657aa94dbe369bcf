package vocab

// Month is a calendar month, 1 (Janeiro) to 12 (Dezembro).
type Month int

const (
	Janeiro Month = iota + 1
	Fevereiro
	Marco
	Abril
	Maio
	Junho
	Julho
	Agosto
	Setembro
	Outubro
	Novembro
	Dezembro
)

// Months lists the months in calendar order.
var Months = [12]Month{
	Janeiro, Fevereiro, Marco, Abril, Maio, Junho,
	Julho, Agosto, Setembro, Outubro, Novembro, Dezembro,
}

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Field keys are a literal record-naming convention: lowercase, no cedilla.
var monthKeys = [12]string{
	"janeiro", "fevereiro", "marco", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthFromIndex converts a 0-based index. ok is false outside 0..11.
func MonthFromIndex(i int) (Month, bool) {
	if i < 0 || i > 11 {
		return 0, false
	}
	return Month(i + 1), true
}

// Valid reports whether m is within Janeiro..Dezembro.
func (m Month) Valid() bool { return m >= Janeiro && m <= Dezembro }

// Index is the 0-based slot of the month in a 12-entry series.
func (m Month) Index() int { return int(m) - 1 }

func (m Month) String() string {
	if !m.Valid() {
		return ""
	}
	return monthNames[m.Index()]
}

// FieldKey is the suffix used in record field names ("meta_marco").
func (m Month) FieldKey() string {
	if !m.Valid() {
		return ""
	}
	return monthKeys[m.Index()]
}

// MonthNames returns the display names in calendar order.
func MonthNames() []string {
	out := make([]string, len(monthNames))
	copy(out, monthNames[:])
	return out
}
