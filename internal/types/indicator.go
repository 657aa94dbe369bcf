package types

import (
	"encoding/json"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// IndicatorType says how an indicator's figures are displayed.
type IndicatorType string

const (
	Moeda      IndicatorType = "Moeda"
	Percentual IndicatorType = "Percentual"
	Numero     IndicatorType = "Número"
)

// Format renders v the way report tables show it: "12.35%", "12.3",
// "R$12.35". Unknown types print the raw value; an absent value prints "".
func (t IndicatorType) Format(v Value) string {
	if !v.IsSet() {
		return ""
	}
	f, _ := v.Float()
	switch t {
	case Percentual:
		return strconv.FormatFloat(f, 'f', 2, 64) + "%"
	case Numero:
		return strconv.FormatFloat(f, 'f', 1, 64)
	case Moeda:
		return "R$" + strconv.FormatFloat(f, 'f', 2, 64)
	}
	return v.String()
}

// FormatBRL renders an amount in Brazilian currency notation, "R$ 1.234,56".
// Undefined amounts print as zero.
func FormatBRL(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	p := message.NewPrinter(language.BrazilianPortuguese)
	s := p.Sprintf("R$ %.2f", math.Abs(f))
	if f < 0 && s != "R$ 0,00" {
		return "-" + s
	}
	return s
}

// IndicatorRecord is one row of the general report: one indicator of one
// reporting period, with its monthly goals and results.
type IndicatorRecord struct {
	Indicador           string        `json:"indicador"`
	Eixo                string        `json:"eixo"`
	Tema                string        `json:"tema"`
	Tipo                IndicatorType `json:"tipo"`
	MetaTotal           Value         `json:"metatotal"`
	RealizadoTotal      Value         `json:"realizadototal"`
	PercentualRealizado Value         `json:"percentual_realizado"`
	AcoesPrevistas      Value         `json:"acoes_previstas"`
	AcoesConcluidas     Value         `json:"acoes_concluidas"`
	PercentualAcoes     Value         `json:"percentual_acoes"`

	// Extra keeps every other field of the row, notably the monthly
	// meta_<mes> and resultado_<mes> columns.
	Extra map[string]Value `json:"-"`
}

var indicatorFields = map[string]struct{}{
	"indicador": {}, "eixo": {}, "tema": {}, "tipo": {},
	"metatotal": {}, "realizadototal": {}, "percentual_realizado": {},
	"acoes_previstas": {}, "acoes_concluidas": {}, "percentual_acoes": {},
}

// Field looks a numeric field up by its wire name.
func (r IndicatorRecord) Field(name string) (Value, bool) {
	switch name {
	case "metatotal":
		return r.MetaTotal, r.MetaTotal.IsSet()
	case "realizadototal":
		return r.RealizadoTotal, r.RealizadoTotal.IsSet()
	case "percentual_realizado":
		return r.PercentualRealizado, r.PercentualRealizado.IsSet()
	case "acoes_previstas":
		return r.AcoesPrevistas, r.AcoesPrevistas.IsSet()
	case "acoes_concluidas":
		return r.AcoesConcluidas, r.AcoesConcluidas.IsSet()
	case "percentual_acoes":
		return r.PercentualAcoes, r.PercentualAcoes.IsSet()
	}
	v, ok := r.Extra[name]
	return v, ok && v.IsSet()
}

// SetField stores a field outside the named set.
func (r *IndicatorRecord) SetField(name string, v Value) {
	if r.Extra == nil {
		r.Extra = make(map[string]Value)
	}
	r.Extra[name] = v
}

func (r *IndicatorRecord) UnmarshalJSON(b []byte) error {
	type plain IndicatorRecord
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for k, raw := range all {
		if _, known := indicatorFields[k]; known {
			continue
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return err
		}
		if p.Extra == nil {
			p.Extra = make(map[string]Value)
		}
		p.Extra[k] = v
	}
	*r = IndicatorRecord(p)
	return nil
}

func (r IndicatorRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+len(indicatorFields))
	for k, v := range r.Extra {
		out[k] = v
	}
	out["indicador"] = r.Indicador
	out["eixo"] = r.Eixo
	out["tema"] = r.Tema
	out["tipo"] = r.Tipo
	out["metatotal"] = r.MetaTotal
	out["realizadototal"] = r.RealizadoTotal
	out["percentual_realizado"] = r.PercentualRealizado
	out["acoes_previstas"] = r.AcoesPrevistas
	out["acoes_concluidas"] = r.AcoesConcluidas
	out["percentual_acoes"] = r.PercentualAcoes
	return json.Marshal(out)
}
