package bp

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-parceiros/internal/catalog"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

// Checkbox values the backend understands.
const (
	BackendTrue  = "X"
	BackendFalse = ""
)

// CheckboxToBackend maps a checkbox to "X" or "".
func CheckboxToBackend(b bool) string {
	if b {
		return BackendTrue
	}
	return BackendFalse
}

// Payload is the nested, camelCase resource sent on create and update.
type Payload map[string]any

// ToPayload rebuilds the nested resource from form values.
func ToPayload(v FormValues) Payload {
	p, _ := ToPayloadWithDiagnostics(v)
	return p
}

// ToPayloadWithDiagnostics is ToPayload plus the values that were passed
// through without normalization.
func ToPayloadWithDiagnostics(v FormValues) (Payload, Diagnostics) {
	var d Diagnostics
	p := Payload{}
	strs := v.stringFields()
	flags := v.flagFields()

	for _, g := range catalog.Groups() {
		if g.Shape == catalog.ShapeForm {
			continue
		}
		if g.Shape == catalog.ShapeList {
			parent := ensureObject(p, g.Path[:len(g.Path)-1])
			parent[g.Path[len(g.Path)-1]] = salesAreasToPayload(v.items())
			continue
		}

		obj := map[string]any{}
		blank := true
		for _, f := range catalog.InGroup(g.Name) {
			var val any
			switch f.Kind {
			case catalog.KindString:
				s := normalizeOut(f.Name, *strs[f.Name], &d)
				blank = blank && s == ""
				val = s
			case catalog.KindFlag:
				blank = blank && !*flags[f.Name]
				val = CheckboxToBackend(*flags[f.Name])
			case catalog.KindRoles:
				val = encodeRoles(v.Funcao, &d)
			}
			obj[f.WireKey] = val
		}

		switch g.Shape {
		case catalog.ShapeRoot:
			for k, val := range obj {
				p[k] = val
			}
		case catalog.ShapeObject:
			target := ensureObject(p, g.Path)
			for k, val := range obj {
				target[k] = val
			}
		case catalog.ShapeFirst:
			parent := ensureObject(p, g.Path[:len(g.Path)-1])
			// registro único em branco não vira linha no backend
			if blank {
				parent[g.Path[len(g.Path)-1]] = []any{}
			} else {
				parent[g.Path[len(g.Path)-1]] = []any{obj}
			}
		}
	}
	return p, d
}

// ensureObject walks path inside p, creating nested objects as needed.
func ensureObject(p Payload, path []string) map[string]any {
	cur := map[string]any(p)
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	return cur
}

func salesAreasToPayload(items []SalesArea) []any {
	out := make([]any, 0, len(items))
	for i := range items {
		it := items[i]
		obj := map[string]any{}
		for name, p := range it.stringFields() {
			obj[name] = *p
		}
		for name, p := range it.flagFields() {
			obj[name] = CheckboxToBackend(*p)
		}
		out = append(out, obj)
	}
	return out
}

// normalizeOut applies the per-field wire normalization. Values that cannot
// be normalized go out as typed and are reported.
func normalizeOut(name, s string, d *Diagnostics) string {
	switch name {
	case "cpf", "cnpj", "cep":
		return utils.OnlyDigits(s)
	case "tipo":
		if s == "" {
			return ""
		}
		t, err := ParseTipo(s)
		if err != nil {
			d.unknown(name, s)
			return s
		}
		return t
	case "limiteCredito":
		if strings.TrimSpace(s) == "" {
			return ""
		}
		dec, ok := ParseAmount(s)
		if !ok {
			d.issue(name, s, ReasonNotDecimal)
			return s
		}
		return dec.StringFixed(2)
	default:
		return s
	}
}

// ParseAmount reads a monetary amount written either as 1500.5 or in the
// Brazilian style 1.500,50.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return dec, true
}

// EncodePayload renders the payload as the snake_case JSON the partner API
// accepts on create and update.
func EncodePayload(v FormValues) ([]byte, error) {
	body, _, err := EncodePayloadWithDiagnostics(v)
	return body, err
}

func EncodePayloadWithDiagnostics(v FormValues) ([]byte, Diagnostics, error) {
	p, d := ToPayloadWithDiagnostics(v)
	body, err := json.Marshal(SnakeCaseKeys(p))
	return body, d, err
}
