package bp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCode is returned when a code is not part of a closed list.
var ErrUnknownCode = errors.New("unknown code")

// Partner types, identical on the form and on the wire.
const (
	TipoPF = "PF"
	TipoPJ = "PJ"
)

// Role codes as the form shows them.
const (
	RoleCliente    = "CLI"
	RoleFornecedor = "FORN"
	RoleSocio      = "SOCI"
)

// RoleSeparator joins backend role codes inside funcao.
const RoleSeparator = "/"

type codePair struct {
	ui      string
	backend string
}

// codeTable is a closed enum with a form code and a backend code per entry.
type codeTable []codePair

func (t codeTable) toBackend(ui string) (string, bool) {
	for _, p := range t {
		if p.ui == ui {
			return p.backend, true
		}
	}
	return "", false
}

// toUI also accepts codes already in form notation.
func (t codeTable) toUI(code string) (string, bool) {
	for _, p := range t {
		if p.backend == code || p.ui == code {
			return p.ui, true
		}
	}
	return "", false
}

var (
	tipos = codeTable{{TipoPF, TipoPF}, {TipoPJ, TipoPJ}}
	roles = codeTable{
		{RoleCliente, "CLIE"},
		{RoleFornecedor, "FORN"},
		{RoleSocio, "S"},
	}
	// single-letter funcao values written by older clients
	legacyRoles = map[string][]string{
		"C": {RoleCliente},
		"F": {RoleFornecedor},
		"A": {RoleCliente, RoleFornecedor},
	}
)

// ParseTipo returns the canonical partner type for code.
func ParseTipo(code string) (string, error) {
	if t, ok := tipos.toUI(strings.ToUpper(strings.TrimSpace(code))); ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: tipo %q", ErrUnknownCode, code)
}

// ParseRole accepts a role in form or backend notation and returns the form code.
func ParseRole(code string) (string, error) {
	if r, ok := roles.toUI(strings.ToUpper(strings.TrimSpace(code))); ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: funcao %q", ErrUnknownCode, code)
}

// RoleToBackend maps a form role code to the backend code.
func RoleToBackend(role string) (string, error) {
	if b, ok := roles.toBackend(role); ok {
		return b, nil
	}
	return "", fmt.Errorf("%w: funcao %q", ErrUnknownCode, role)
}

// splitRoles splits a funcao string into its codes; "/" is canonical, "," is
// tolerated.
func splitRoles(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// decodeRoles turns backend role codes into form codes. Unknown codes are kept
// verbatim so a save does not silently drop them.
func decodeRoles(codes []string, d *Diagnostics) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(r string) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	if len(codes) == 1 {
		if legacy, ok := legacyRoles[strings.ToUpper(strings.TrimSpace(codes[0]))]; ok {
			for _, r := range legacy {
				add(r)
			}
			return out
		}
	}
	for _, c := range codes {
		r, err := ParseRole(c)
		if err != nil {
			d.unknown("funcao", c)
			add(c)
			continue
		}
		add(r)
	}
	return out
}

// encodeRoles joins form roles into the backend funcao string.
func encodeRoles(rs []string, d *Diagnostics) string {
	out := make([]string, 0, len(rs))
	seen := map[string]bool{}
	for _, r := range rs {
		b, err := RoleToBackend(r)
		if err != nil {
			d.unknown("funcao", r)
			b = r
		}
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return strings.Join(out, RoleSeparator)
}
