package form

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
	"github.com/Werneck0live/cadastro-parceiros/internal/lookup"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

// ErrStaleLookup is returned when a newer lookup of the same kind started
// after the ticket was issued; the result is dropped.
var ErrStaleLookup = errors.New("stale lookup result")

// Ticket identifies one in-flight lookup.
type Ticket struct {
	Kind lookup.Kind `json:"kind"`
	Seq  int64       `json:"seq"`
}

// BeginLookup issues a ticket that supersedes every earlier one of the same
// kind.
func (d *Draft) BeginLookup(kind lookup.Kind) Ticket {
	if d.Lookups == nil {
		d.Lookups = map[lookup.Kind]int64{}
	}
	d.Lookups[kind]++
	return Ticket{Kind: kind, Seq: d.Lookups[kind]}
}

func (d *Draft) check(t Ticket, kind lookup.Kind) error {
	if t.Kind != kind {
		return fmt.Errorf("ticket for %s used on %s lookup", t.Kind, kind)
	}
	if d.Lookups[kind] != t.Seq {
		return fmt.Errorf("%w: %s seq %d, newest %d", ErrStaleLookup, kind, t.Seq, d.Lookups[kind])
	}
	return nil
}

// fill overwrites a text field only with a non-blank value; a lookup never
// erases what the user typed.
func (d *Draft) fill(name, value string) {
	if value = strings.TrimSpace(value); value != "" {
		d.Values.SetString(name, value)
		delete(d.Errors, name)
	}
}

// ApplyCEP merges a postal-code result into the address block.
func (d *Draft) ApplyCEP(t Ticket, a lookup.Address) error {
	if err := d.check(t, lookup.KindCEP); err != nil {
		return err
	}
	d.fill("cep", utils.FormatCEP(a.CEP))
	d.fill("logradouro", a.Logradouro)
	d.fill("bairro", a.Bairro)
	d.fill("cidade", a.Localidade)
	d.fill("uf", strings.ToUpper(a.UF))
	d.fill("codigoMunicipio", a.IBGE)
	if d.Values.Pais == "" {
		d.Values.Pais = "BR"
	}
	d.touch()
	return nil
}

// ApplyCNPJ merges a company registry result.
func (d *Draft) ApplyCNPJ(t Ticket, c lookup.Company) error {
	if err := d.check(t, lookup.KindCNPJ); err != nil {
		return err
	}
	if d.Values.Tipo == "" {
		d.Values.Tipo = bp.TipoPJ
	}
	d.fill("cnpj", utils.FormatCNPJ(c.CNPJ))
	if c.RazaoSocial != "" {
		d.fill("nome", c.RazaoSocial)
		d.deriveSearchTerm()
	}
	d.fill("nomeFantasia", c.NomeFantasia)
	d.fill("naturezaJuridica", c.NaturezaJuridica)
	d.fill("porteEmpresa", c.Porte)

	e := c.Endereco
	d.fill("cep", utils.FormatCEP(e.CEP))
	d.fill("logradouro", e.Logradouro)
	d.fill("numero", e.Numero)
	d.fill("complemento", e.Complemento)
	d.fill("bairro", e.Bairro)
	d.fill("cidade", e.Municipio)
	d.fill("uf", strings.ToUpper(e.UF))
	d.fill("codigoMunicipio", e.CodigoMunicipio)
	if d.Values.Pais == "" {
		d.Values.Pais = "BR"
	}

	if len(c.Telefones) > 0 {
		d.fill("telefone", c.Telefones[0].String())
	}
	if len(c.Emails) > 0 {
		d.fill("email", strings.ToLower(c.Emails[0]))
	}
	d.fill("cnae", c.AtividadePrincipal.Codigo)
	d.fill("descricaoSetor", c.AtividadePrincipal.Descricao)
	d.touch()
	return nil
}

// ApplyCPF merges a person registry result.
func (d *Draft) ApplyCPF(t Ticket, p lookup.Person) error {
	if err := d.check(t, lookup.KindCPF); err != nil {
		return err
	}
	if d.Values.Tipo == "" {
		d.Values.Tipo = bp.TipoPF
	}
	d.fill("cpf", utils.FormatCPF(p.CPF))
	if p.Nome != "" {
		d.fill("nome", p.Nome)
		d.deriveSearchTerm()
	}
	d.fill("dataNascimento", isoDate(p.DataNascimento))
	d.touch()
	return nil
}

// isoDate accepts YYYY-MM-DD and DD/MM/YYYY; anything else is returned as is.
func isoDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02/01/2006", time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Format("2006-01-02")
		}
	}
	return s
}
