package form

/*

go test -v ./internal/form -count=1

*/

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
	"github.com/Werneck0live/cadastro-parceiros/internal/lookup"
)

func fixture(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile("../bp/testdata/partner_full.json")
	require.NoError(t, err)
	return raw
}

func TestNewDraft(t *testing.T) {
	d := NewDraft("org-1")
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, ModeNew, d.Mode)
	assert.Equal(t, "org-1", d.OrgID)
	assert.Empty(t, d.Values.Items)
	assert.Equal(t, StateNoSelection, d.SalesAreaView().State)
}

func TestLoadDraft(t *testing.T) {
	d := LoadDraft("org-1", "BP-1000042", fixture(t))
	assert.Equal(t, ModeEdit, d.Mode)
	assert.Equal(t, "BP-1000042", d.BPID)
	assert.Equal(t, "Paulista Alimentos", d.Values.NomeFantasia)

	view := d.SalesAreaView()
	assert.Equal(t, StateViewing, view.State)
	require.NotNil(t, view.Index)
	assert.Equal(t, 0, *view.Index)
}

func TestSetField(t *testing.T) {
	d := NewDraft("org-1")

	require.NoError(t, d.SetField("cidade", "Recife"))
	require.NoError(t, d.SetField("devolucao", true))
	require.NoError(t, d.SetField("codigoMunicipio", float64(2611606)))
	require.NoError(t, d.SetField("funcao", []any{"CLI", "S"}))
	require.NoError(t, d.SetField("tipo", "pj"))

	assert.Equal(t, "Recife", d.Values.Cidade)
	assert.True(t, d.Values.Devolucao)
	assert.Equal(t, "2611606", d.Values.CodigoMunicipio)
	assert.Equal(t, []string{bp.RoleCliente, bp.RoleSocio}, d.Values.Funcao)
	assert.Equal(t, bp.TipoPJ, d.Values.Tipo)

	assert.ErrorIs(t, d.SetField("naoExiste", "x"), ErrUnknownField)
	assert.ErrorIs(t, d.SetField("devolucao", "sim"), ErrFieldType)
	assert.ErrorIs(t, d.SetField("nome", true), ErrFieldType)
	assert.ErrorIs(t, d.SetField("clienteVendasList", []any{}), ErrFieldType)
	assert.ErrorIs(t, d.SetField("funcao", []any{"XYZ"}), bp.ErrUnknownCode)

	// erro de um campo some quando ele é editado
	d.Errors = ValidationErrors{"cidade": "campo obrigatório"}
	require.NoError(t, d.SetField("cidade", "Olinda"))
	assert.NotContains(t, d.Errors, "cidade")
}

func TestSearchTermDerivation(t *testing.T) {
	d := NewDraft("org-1")

	require.NoError(t, d.SetField("nome", "São João Comércio"))
	assert.Equal(t, "SAO JOAO COMERCIO", d.Values.TermoPesquisa1)

	// segue o nome enquanto não for editado
	require.NoError(t, d.SetField("nome", "Padaria Ação"))
	assert.Equal(t, "PADARIA ACAO", d.Values.TermoPesquisa1)

	require.NoError(t, d.SetField("termoPesquisa1", "PADOCA"))
	require.NoError(t, d.SetField("nome", "Outro Nome"))
	assert.Equal(t, "PADOCA", d.Values.TermoPesquisa1)

	// termo já vindo do backend é preservado
	loaded := LoadDraft("org-1", "BP-1", []byte(`{"nome":"A","termoPesquisa1":"ORIGINAL"}`))
	require.NoError(t, loaded.SetField("nome", "B"))
	assert.Equal(t, "ORIGINAL", loaded.Values.TermoPesquisa1)
}

func TestSetSalesAreaField(t *testing.T) {
	d := NewDraft("org-1")
	assert.ErrorIs(t, d.SetSalesAreaField("moeda", "BRL"), ErrNoSalesArea)

	_, err := d.InsertSalesArea()
	require.NoError(t, err)
	require.NoError(t, d.SetSalesAreaField("moeda", "BRL"))
	require.NoError(t, d.SetSalesAreaField("entregaCompleta", true))
	assert.ErrorIs(t, d.SetSalesAreaField("nome", "x"), ErrUnknownField)
	assert.ErrorIs(t, d.SetSalesAreaField("entregaCompleta", "talvez"), ErrFieldType)

	assert.Equal(t, "BRL", d.Values.Items[0].Moeda)
	assert.True(t, d.Values.Items[0].EntregaCompleta)
}

func TestPayloadRequiresValidForm(t *testing.T) {
	d := NewDraft("org-1")
	_, _, err := d.Payload()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "nome")
	assert.Contains(t, verrs, "tipo")
	assert.Equal(t, verrs, d.Errors)

	loaded := LoadDraft("org-1", "BP-1000042", fixture(t))
	body, diag, err := loaded.Payload()
	require.NoError(t, err)
	assert.Nil(t, loaded.Errors)
	assert.False(t, diag.HasIssues())

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Equal(t, "CLIE/FORN", m["funcao"])
	assert.Contains(t, m, "cliente_vendas")
}

func TestMarkSubmitted(t *testing.T) {
	d := NewDraft("org-1")
	d.MarkSubmitted("BP-9")
	assert.Equal(t, ModeEdit, d.Mode)
	assert.Equal(t, "BP-9", d.BPID)
	require.NotNil(t, d.SubmittedAt)
}

func TestLookups_ApplyCEP(t *testing.T) {
	d := NewDraft("org-1")
	d.Values.Numero = "100"

	tk := d.BeginLookup(lookup.KindCEP)
	require.NoError(t, d.ApplyCEP(tk, lookup.Address{
		CEP: "01310100", Logradouro: "Avenida Paulista", Bairro: "Bela Vista",
		Localidade: "São Paulo", UF: "sp", IBGE: "3550308",
	}))

	assert.Equal(t, "01310-100", d.Values.Cep)
	assert.Equal(t, "Avenida Paulista", d.Values.Logradouro)
	assert.Equal(t, "São Paulo", d.Values.Cidade)
	assert.Equal(t, "SP", d.Values.UF)
	assert.Equal(t, "BR", d.Values.Pais)
	// campo não retornado fica como estava
	assert.Equal(t, "100", d.Values.Numero)
}

func TestLookups_StaleResultIsDropped(t *testing.T) {
	d := NewDraft("org-1")

	first := d.BeginLookup(lookup.KindCEP)
	second := d.BeginLookup(lookup.KindCEP)

	// a resposta mais nova chega primeiro
	require.NoError(t, d.ApplyCEP(second, lookup.Address{CEP: "20040020", Localidade: "Rio de Janeiro", UF: "RJ"}))
	err := d.ApplyCEP(first, lookup.Address{CEP: "01310100", Localidade: "São Paulo", UF: "SP"})
	assert.ErrorIs(t, err, ErrStaleLookup)

	assert.Equal(t, "Rio de Janeiro", d.Values.Cidade)
	assert.Equal(t, "20040-020", d.Values.Cep)

	// tipos diferentes não competem entre si
	cnpj := d.BeginLookup(lookup.KindCNPJ)
	_ = d.BeginLookup(lookup.KindCEP)
	assert.NoError(t, d.ApplyCNPJ(cnpj, lookup.Company{CNPJ: "11222333000181"}))

	// ticket de outro tipo é rejeitado
	cpf := d.BeginLookup(lookup.KindCPF)
	assert.Error(t, d.ApplyCEP(cpf, lookup.Address{}))
}

func TestLookups_ApplyCNPJ(t *testing.T) {
	d := NewDraft("org-1")
	tk := d.BeginLookup(lookup.KindCNPJ)
	require.NoError(t, d.ApplyCNPJ(tk, lookup.Company{
		CNPJ:               "11222333000181",
		RazaoSocial:        "Acme Comércio Ltda",
		NomeFantasia:       "ACME",
		Endereco:           lookup.CompanyAddress{Logradouro: "Rua A", Numero: "10", Municipio: "Campinas", UF: "SP", CEP: "13010000"},
		Telefones:          []lookup.Phone{{DDD: "19", Numero: "32323232"}},
		Emails:             []string{"CONTATO@ACME.COM"},
		AtividadePrincipal: lookup.Activity{Codigo: "4711-3/02", Descricao: "Varejo"},
	}))

	v := d.Values
	assert.Equal(t, bp.TipoPJ, v.Tipo)
	assert.Equal(t, "11.222.333/0001-81", v.CNPJ)
	assert.Equal(t, "Acme Comércio Ltda", v.Nome)
	assert.Equal(t, "ACME COMERCIO LTDA", v.TermoPesquisa1)
	assert.Equal(t, "13010-000", v.Cep)
	assert.Equal(t, "Campinas", v.Cidade)
	assert.Equal(t, "1932323232", v.Telefone)
	assert.Equal(t, "contato@acme.com", v.Email)
	assert.Equal(t, "4711-3/02", v.Cnae)
}

func TestLookups_ApplyCPF(t *testing.T) {
	d := NewDraft("org-1")
	tk := d.BeginLookup(lookup.KindCPF)
	require.NoError(t, d.ApplyCPF(tk, lookup.Person{CPF: "52998224725", Nome: "Maria da Silva", DataNascimento: "01/02/1980"}))

	assert.Equal(t, bp.TipoPF, d.Values.Tipo)
	assert.Equal(t, "529.982.247-25", d.Values.CPF)
	assert.Equal(t, "1980-02-01", d.Values.DataNascimento)
	assert.Equal(t, "MARIA DA SILVA", d.Values.TermoPesquisa1)
}

func TestIsoDate(t *testing.T) {
	assert.Equal(t, "1980-02-01", isoDate("1980-02-01"))
	assert.Equal(t, "1980-02-01", isoDate("01/02/1980"))
	assert.Equal(t, "1980-02-01", isoDate("1980-02-01T00:00:00Z"))
	assert.Equal(t, "ontem", isoDate("ontem"))
}

func TestNowIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, now().Location())
}
