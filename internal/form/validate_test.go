package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
)

func validPF() bp.FormValues {
	v := bp.NewFormValues()
	v.Tipo = bp.TipoPF
	v.Nome = "Maria da Silva"
	v.CPF = "529.982.247-25"
	v.Funcao = []string{bp.RoleSocio}
	return v
}

func TestValidateForm_Valid(t *testing.T) {
	assert.Nil(t, ValidateForm(validPF()))

	d := LoadDraft("org-1", "BP-1", fixture(t))
	assert.NoError(t, d.Validate())
}

func TestValidateForm_FormatRules(t *testing.T) {
	v := validPF()
	v.Email = "não-é-email"
	v.Cep = "123"
	v.UF = "XX"
	v.Pais = "ZZ"
	v.CPF = "529.982.247-24"
	v.LimiteCredito = "-10"
	v.DataProximaRevisao = "31/12/2026"
	v.TermoPesquisa1 = "UM TERMO BEM MAIOR QUE VINTE"
	v.Items = []bp.SalesArea{{Moeda: "XYZ"}}

	errs := ValidateForm(v)
	require.NotNil(t, errs)
	assert.Equal(t, "e-mail inválido", errs["email"])
	assert.Equal(t, "CEP inválido", errs["cep"])
	assert.Equal(t, "opção inválida", errs["uf"])
	assert.Equal(t, "opção inválida", errs["pais"])
	assert.Equal(t, "CPF inválido", errs["cpf"])
	assert.Equal(t, "valor inválido", errs["limiteCredito"])
	assert.Contains(t, errs, "dataProximaRevisao")
	assert.Contains(t, errs, "termoPesquisa1")
	assert.Equal(t, "opção inválida", errs["clienteVendasList[0].moeda"])
}

func TestValidateBusinessPartnerForm(t *testing.T) {
	t.Run("pf rejects cnpj", func(t *testing.T) {
		v := validPF()
		v.CNPJ = "11.222.333/0001-81"
		assert.Contains(t, ValidateBusinessPartnerForm(v), "cnpj")
	})

	t.Run("pj needs cnpj", func(t *testing.T) {
		v := validPF()
		v.Tipo = bp.TipoPJ
		errs := ValidateBusinessPartnerForm(v)
		assert.Contains(t, errs, "cnpj")
		assert.Contains(t, errs, "cpf")
	})

	t.Run("role required", func(t *testing.T) {
		v := validPF()
		v.Funcao = []string{}
		assert.Contains(t, ValidateBusinessPartnerForm(v), "funcao")
	})

	t.Run("customer needs sales area", func(t *testing.T) {
		v := validPF()
		v.Funcao = []string{bp.RoleCliente}
		assert.Contains(t, ValidateBusinessPartnerForm(v), "clienteVendasList")

		v.Items = []bp.SalesArea{{OrgVendas: "1000"}}
		errs := ValidateBusinessPartnerForm(v)
		assert.NotContains(t, errs, "clienteVendasList")
		assert.Contains(t, errs, "clienteVendasList[0].canalDistribuicao")
		assert.Contains(t, errs, "clienteVendasList[0].setorAtividade")
		assert.NotContains(t, errs, "clienteVendasList[0].orgVendas")
	})

	t.Run("vendor purchasing org", func(t *testing.T) {
		v := validPF()
		v.Funcao = []string{bp.RoleFornecedor}
		v.MoedaPedido = "BRL"
		assert.Contains(t, ValidateBusinessPartnerForm(v), "orgCompras")
	})

	t.Run("bank account", func(t *testing.T) {
		v := validPF()
		v.Conta = "123"
		errs := ValidateBusinessPartnerForm(v)
		assert.Contains(t, errs, "banco")
		assert.Contains(t, errs, "agencia")
	})

	t.Run("birth date in the future", func(t *testing.T) {
		v := validPF()
		v.DataNascimento = time.Now().AddDate(1, 0, 0).Format("2006-01-02")
		assert.Contains(t, ValidateBusinessPartnerForm(v), "dataNascimento")
	})
}

func TestValidateDoesNotTouchValues(t *testing.T) {
	d := NewDraft("org-1")
	d.Values.Email = "x"
	before := d.Values.Clone()

	err := d.Validate()
	require.Error(t, err)
	assert.Equal(t, before, d.Values)
	assert.Contains(t, d.Errors, "email")

	require.NoError(t, d.SetField("email", "a@b.com"))
	assert.NotContains(t, d.Errors, "email")
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{"nome": "campo obrigatório", "cpf": "CPF inválido"}
	assert.Equal(t, "validation failed: cpf: CPF inválido; nome: campo obrigatório", errs.Error())
}
