package bp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	require.True(t, ok, "want object, got %T", v)
	return m
}

func first(t *testing.T, v any) map[string]any {
	t.Helper()
	arr, ok := v.([]any)
	require.True(t, ok, "want array, got %T", v)
	require.Len(t, arr, 1)
	return obj(t, arr[0])
}

func TestToPayload_Full(t *testing.T) {
	p, d := ToPayloadWithDiagnostics(MapAPIToForm(loadFixture(t)))
	assert.False(t, d.HasIssues())

	assert.Equal(t, "PJ", p["tipo"])
	assert.Equal(t, "CLIE/FORN", p["funcao"])
	assert.Equal(t, "Comércio de Alimentos Paulista Ltda", p["nome"])

	end := obj(t, p["endereco"])
	assert.Equal(t, "01310100", end["cep"])
	assert.Equal(t, "3550308", end["codigoMunicipio"])

	ident := obj(t, p["identificacao"])
	assert.Equal(t, "11222333000181", ident["cnpj"])
	assert.Equal(t, "", ident["cpf"])

	setor := obj(t, p["setorIndustrial"])
	assert.Equal(t, "RETAIL", setor["chave"])

	fp := first(t, p["funcoesParceiro"])
	assert.Equal(t, "ZC", fp["funcao"])
	assert.Equal(t, "BP-1000001", fp["parceiro"])

	forn := obj(t, p["fornecedor"])
	assert.Equal(t, "X", forn["devolucao"])
	assert.Equal(t, "", forn["bloqueioCentral"])
	assert.Equal(t, "ZF01", forn["grupoContas"])

	compras := first(t, forn["fornecedorCompras"])
	assert.Equal(t, "X", compras["verificacaoFaturaBaseadaEM"])
	assert.Equal(t, "", compras["pedidoAutomatico"])
	assert.Equal(t, "Z030", compras["condicaoPagamento"])

	empresas := first(t, forn["fornecedorEmpresas"])
	assert.Equal(t, "X", empresas["pagamentoIndividual"])
	assert.Equal(t, "1000", empresas["empresa"])

	credito := first(t, p["dadosCredito"])
	assert.Equal(t, "150000.50", credito["limite"])

	vendas, ok := p["clienteVendas"].([]any)
	require.True(t, ok)
	require.Len(t, vendas, 2)
	v0 := obj(t, vendas[0])
	assert.Equal(t, "X", v0["relevanteDesconto"])
	assert.Equal(t, "", v0["determinacaoPreco"])

	// estado do formulário não vai para o backend
	assert.NotContains(t, p, "clienteVendasList")
	assert.NotContains(t, p, "selectedSalesAreaIndex")
}

func TestToPayload_BlankSingleRecordIsEmptyArray(t *testing.T) {
	p := ToPayload(NewFormValues())

	assert.Equal(t, []any{}, p["dadosCredito"])
	assert.Equal(t, []any{}, p["funcoesParceiro"])
	assert.Equal(t, []any{}, p["clienteVendas"])
	forn := obj(t, p["fornecedor"])
	assert.Equal(t, []any{}, forn["fornecedorCompras"])
	assert.Equal(t, "", p["funcao"])
}

func TestToPayload_Roles(t *testing.T) {
	v := NewFormValues()
	v.Funcao = []string{RoleCliente, RoleSocio, RoleCliente}
	assert.Equal(t, "CLIE/S", ToPayload(v)["funcao"])

	v.Funcao = []string{RoleFornecedor, "ZZ"}
	p, d := ToPayloadWithDiagnostics(v)
	assert.Equal(t, "FORN/ZZ", p["funcao"])
	require.Len(t, d.UnknownCodes(), 1)
}

func TestToPayload_CreditLimit(t *testing.T) {
	cases := map[string]string{
		"1500":        "1500.00",
		"1500.5":      "1500.50",
		"1.500,50":    "1500.50",
		"R$ 2.000,00": "2000.00",
		"":            "",
	}
	for in, want := range cases {
		v := NewFormValues()
		v.LimiteCredito = in
		v.Partner = "BP-1"
		p := ToPayload(v)
		if in == "" {
			assert.Equal(t, "", first(t, p["dadosCredito"])["limite"])
			continue
		}
		assert.Equal(t, want, first(t, p["dadosCredito"])["limite"], "in=%q", in)
	}

	v := NewFormValues()
	v.LimiteCredito = "muito"
	p, d := ToPayloadWithDiagnostics(v)
	assert.Equal(t, "muito", first(t, p["dadosCredito"])["limite"])
	require.Len(t, d.Issues, 1)
	assert.Equal(t, ReasonNotDecimal, d.Issues[0].Reason)
}

func TestRoundTrip(t *testing.T) {
	before := MapAPIToForm(loadFixture(t))

	body, err := json.Marshal(ToPayload(before))
	require.NoError(t, err)
	after := MapAPIToForm(body)

	want := before.Clone()
	want.CNPJ = "11222333000181"
	want.Cep = "01310100"
	want.LimiteCredito = "150000.50"
	assert.Equal(t, want, after)

	// segunda volta é estável
	body2, err := json.Marshal(ToPayload(after))
	require.NoError(t, err)
	assert.JSONEq(t, string(body), string(body2))
}

func TestCheckboxToBackend(t *testing.T) {
	assert.Equal(t, "X", CheckboxToBackend(true))
	assert.Equal(t, "", CheckboxToBackend(false))
	// o que vai volta igual
	assert.True(t, Truthy(CheckboxToBackend(true)))
	assert.False(t, Truthy(CheckboxToBackend(false)))
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"nome":                       "nome",
		"nome2":                      "nome2",
		"termoPesquisa1":             "termo_pesquisa1",
		"verificacaoFaturaBaseadaEM": "verificacao_fatura_baseada_em",
		"clienteVendas":              "cliente_vendas",
		"CEPOrigem":                  "cep_origem",
		"already_snake":              "already_snake",
	}
	for in, want := range cases {
		assert.Equal(t, want, SnakeCase(in), in)
	}
}

func TestEncodePayload(t *testing.T) {
	body, err := EncodePayload(MapAPIToForm(loadFixture(t)))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))

	assert.Contains(t, m, "nome_fantasia")
	assert.Contains(t, m, "termo_pesquisa1")
	assert.Contains(t, m, "cliente_vendas")
	assert.NotContains(t, m, "nomeFantasia")

	forn := obj(t, m["fornecedor"])
	compras := first(t, forn["fornecedor_compras"])
	assert.Equal(t, "X", compras["verificacao_fatura_baseada_em"])

	vendas := m["cliente_vendas"].([]any)
	assert.Contains(t, obj(t, vendas[0]), "org_vendas")
}
