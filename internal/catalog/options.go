package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var optionsYAML []byte

// Option is one entry of a select list.
type Option struct {
	Code  string `yaml:"code" json:"code"`
	Label string `yaml:"label" json:"label"`
}

// Option list names.
const (
	ListPaises             = "paises"
	ListUFs                = "ufs"
	ListMoedas             = "moedas"
	ListCondicoesPagamento = "condicoesPagamento"
	ListIncoterms          = "incoterms"
	ListRegimesTributarios = "regimesTributarios"
	ListTiposConta         = "tiposConta"
	ListFuncoes            = "funcoes"
	ListTipos              = "tipos"
)

var optionSets = mustParseOptions(optionsYAML)

func parseOptions(b []byte) (map[string][]Option, error) {
	var m map[string][]Option
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse option catalog: %w", err)
	}
	for list, opts := range m {
		seen := make(map[string]bool, len(opts))
		for _, o := range opts {
			if o.Code == "" {
				return nil, fmt.Errorf("option list %q: empty code", list)
			}
			if seen[o.Code] {
				return nil, fmt.Errorf("option list %q: duplicate code %q", list, o.Code)
			}
			seen[o.Code] = true
		}
	}
	return m, nil
}

func mustParseOptions(b []byte) map[string][]Option {
	m, err := parseOptions(b)
	if err != nil {
		panic(err)
	}
	return m
}

// Options returns a copy of the named list.
func Options(list string) ([]Option, bool) {
	opts, ok := optionSets[list]
	if !ok {
		return nil, false
	}
	out := make([]Option, len(opts))
	copy(out, opts)
	return out, true
}

// Lists returns the option list names, sorted.
func Lists() []string {
	out := make([]string, 0, len(optionSets))
	for k := range optionSets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Valid reports whether code belongs to list. Unknown lists hold nothing.
func Valid(list, code string) bool {
	for _, o := range optionSets[list] {
		if o.Code == code {
			return true
		}
	}
	return false
}
