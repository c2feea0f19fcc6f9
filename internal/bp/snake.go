package bp

import (
	"strings"
	"unicode"
)

// SnakeCase converts a camelCase key: "verificacaoFaturaBaseadaEM" becomes
// "verificacao_fatura_baseada_em", "CEPOrigem" becomes "cep_origem". Digits
// stay attached to the word before them ("nome2").
func SnakeCase(s string) string {
	return strings.ToLower(strings.Join(splitCamel(s), "_"))
}

func splitCamel(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	rs := []rune(s)
	for i, r := range rs {
		if r == '_' || r == '-' || r == ' ' {
			flush()
			continue
		}
		if i > 0 && startsToken(rs, i) {
			flush()
		}
		cur.WriteRune(r)
	}
	flush()
	return tokens
}

func startsToken(rs []rune, i int) bool {
	r, prev := rs[i], rs[i-1]
	if !unicode.IsUpper(r) {
		return false
	}
	// aB
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// ABc: the B opens a new word after an acronym
	return unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1])
}

// SnakeCaseKeys returns a copy of v with every map key, at any depth, in
// snake_case. Non-map values are returned as they are.
func SnakeCaseKeys(v any) any {
	switch x := v.(type) {
	case Payload:
		return snakeMap(x)
	case map[string]any:
		return snakeMap(x)
	case []any:
		out := make([]any, len(x))
		for i, it := range x {
			out[i] = SnakeCaseKeys(it)
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, it := range x {
			out[i] = snakeMap(it)
		}
		return out
	default:
		return v
	}
}

func snakeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[SnakeCase(k)] = SnakeCaseKeys(val)
	}
	return out
}
