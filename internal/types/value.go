package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Value is a scalar field exactly as the API sent it: a JSON number, a
// numeric string, some other text, or nothing at all. Parsing is deferred to
// the rollup that consumes the field, since each one has its own fallback.
type Value struct {
	raw string
	set bool
}

// Text wraps a raw value.
func Text(s string) Value { return Value{raw: s, set: true} }

// Num wraps a number.
func Num(f float64) Value { return Value{raw: strconv.FormatFloat(f, 'f', -1, 64), set: true} }

// IsSet reports whether the field was present and not null.
func (v Value) IsSet() bool { return v.set }

// String is the raw text, "" when unset.
func (v Value) String() string { return v.raw }

var (
	floatPrefix  = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
	intPrefix    = regexp.MustCompile(`^[+-]?\d+`)
	numberLexeme = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)
)

func trimLeadingSpace(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\ufeff' })
}

// Float parses the longest numeric prefix of the value ("12.5%" is 12.5).
// ok is false, and the result NaN, when no number can be read.
func (v Value) Float() (float64, bool) {
	if !v.set {
		return math.NaN(), false
	}
	m := floatPrefix.FindString(trimLeadingSpace(v.raw))
	if m == "" {
		return math.NaN(), false
	}
	if strings.HasSuffix(m, "Infinity") {
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN(), false
	}
	return f, true
}

// Int parses the leading base-10 integer of the value ("3.9" is 3).
func (v Value) Int() (int64, bool) {
	if !v.set {
		return 0, false
	}
	m := intPrefix.FindString(trimLeadingSpace(v.raw))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FloatOr is Float with def standing in for unparsable and zero values.
func (v Value) FloatOr(def float64) float64 {
	f, ok := v.Float()
	if !ok || math.IsNaN(f) || f == 0 {
		return def
	}
	return f
}

// IntOr is Int with def standing in for unparsable and zero values.
func (v Value) IntOr(def int64) int64 {
	n, ok := v.Int()
	if !ok || n == 0 {
		return def
	}
	return n
}

// IntOrNaN is Int as a float64, NaN when unparsable.
func (v Value) IntOrNaN() float64 {
	n, ok := v.Int()
	if !ok {
		return math.NaN()
	}
	return float64(n)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*v = Value{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
	default:
		*v = Text(string(b))
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	if numberLexeme.MatchString(v.raw) {
		return []byte(v.raw), nil
	}
	return json.Marshal(v.raw)
}

// UnmarshalCSV treats an empty cell as an absent value.
func (v *Value) UnmarshalCSV(s string) error {
	if s == "" {
		*v = Value{}
		return nil
	}
	*v = Text(s)
	return nil
}

func (v Value) MarshalCSV() (string, error) { return v.raw, nil }

// Number is a computed figure. NaN and infinities marshal as JSON null since
// JSON has no spelling for them.
type Number float64

func (n Number) Float() float64 { return float64(n) }

// Defined reports whether n is a finite number.
func (n Number) Defined() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Defined() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(n), 'f', -1, 64)), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// MarshalCSV leaves undefined numbers blank.
func (n Number) MarshalCSV() (string, error) {
	if !n.Defined() {
		return "", nil
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64), nil
}
