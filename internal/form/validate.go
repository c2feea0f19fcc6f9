package form

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
	"github.com/Werneck0live/cadastro-parceiros/internal/catalog"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

// ValidationErrors mapeia o nome plano do campo (ou
// clienteVendasList[i].campo) para a mensagem exibida.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ValidationErrors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

type salesAreaRules struct {
	Moeda             string `json:"moeda" validate:"omitempty,option=moedas"`
	CondicaoPagamento string `json:"condicaoPagamento" validate:"omitempty,option=condicoesPagamento"`
	Incoterms         string `json:"incoterms" validate:"omitempty,option=incoterms"`
}

// formRules carrega só os campos com regra de formato.
type formRules struct {
	Tipo           string   `json:"tipo" validate:"required,option=tipos"`
	Funcao         []string `json:"funcao" validate:"dive,option=funcoes"`
	Nome           string   `json:"nome" validate:"required,max=80"`
	Nome2          string   `json:"nome2" validate:"max=40"`
	NomeFantasia   string   `json:"nomeFantasia" validate:"max=80"`
	TermoPesquisa1 string   `json:"termoPesquisa1" validate:"max=20"`
	TermoPesquisa2 string   `json:"termoPesquisa2" validate:"max=20"`

	Cep   string `json:"cep" validate:"omitempty,cep"`
	UF    string `json:"uf" validate:"omitempty,option=ufs"`
	Pais  string `json:"pais" validate:"omitempty,option=paises"`
	Email string `json:"email" validate:"omitempty,email"`
	Site  string `json:"site" validate:"omitempty,url"`

	CPF            string `json:"cpf" validate:"omitempty,cpf"`
	CNPJ           string `json:"cnpj" validate:"omitempty,cnpj"`
	DataNascimento string `json:"dataNascimento" validate:"omitempty,datetime=2006-01-02"`

	RegimeTributario string `json:"regimeTributario" validate:"omitempty,option=regimesTributarios"`
	TipoConta        string `json:"tipoConta" validate:"omitempty,option=tiposConta"`

	MoedaPedido                 string `json:"moedaPedido" validate:"omitempty,option=moedas"`
	CondicaoPagamentoCompras    string `json:"condicaoPagamentoCompras" validate:"omitempty,option=condicoesPagamento"`
	IncotermsCompras            string `json:"incotermsCompras" validate:"omitempty,option=incoterms"`
	CondicaoPagamentoFornecedor string `json:"condicaoPagamentoFornecedor" validate:"omitempty,option=condicoesPagamento"`
	CondicaoPagamentoCliente    string `json:"condicaoPagamentoCliente" validate:"omitempty,option=condicoesPagamento"`

	LimiteCredito      string `json:"limiteCredito" validate:"omitempty,amount"`
	DataProximaRevisao string `json:"dataProximaRevisao" validate:"omitempty,datetime=2006-01-02"`

	Items []salesAreaRules `json:"clienteVendasList" validate:"dive"`
}

func rulesFor(v bp.FormValues) formRules {
	r := formRules{
		Tipo: v.Tipo, Funcao: v.Funcao, Nome: v.Nome, Nome2: v.Nome2, NomeFantasia: v.NomeFantasia,
		TermoPesquisa1: v.TermoPesquisa1, TermoPesquisa2: v.TermoPesquisa2,
		Cep: v.Cep, UF: v.UF, Pais: v.Pais, Email: v.Email, Site: v.Site,
		CPF: v.CPF, CNPJ: v.CNPJ, DataNascimento: v.DataNascimento,
		RegimeTributario: v.RegimeTributario, TipoConta: v.TipoConta,
		MoedaPedido: v.MoedaPedido, CondicaoPagamentoCompras: v.CondicaoPagamentoCompras,
		IncotermsCompras: v.IncotermsCompras, CondicaoPagamentoFornecedor: v.CondicaoPagamentoFornecedor,
		CondicaoPagamentoCliente: v.CondicaoPagamentoCliente,
		LimiteCredito:            v.LimiteCredito, DataProximaRevisao: v.DataProximaRevisao,
	}
	for _, it := range v.Items {
		r.Items = append(r.Items, salesAreaRules{
			Moeda: it.Moeda, CondicaoPagamento: it.CondicaoPagamento, Incoterms: it.Incoterms,
		})
	}
	return r
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("cpf", func(fl validator.FieldLevel) bool {
		return utils.ValidateCPF(utils.SanitizeCPF(fl.Field().String()))
	})
	must("cnpj", func(fl validator.FieldLevel) bool {
		return utils.ValidateCNPJ(utils.SanitizeCNPJ(fl.Field().String()))
	})
	must("cep", func(fl validator.FieldLevel) bool {
		return utils.ValidateCEP(utils.SanitizeCEP(fl.Field().String()))
	})
	must("option", func(fl validator.FieldLevel) bool {
		return catalog.Valid(fl.Param(), fl.Field().String())
	})
	must("amount", func(fl validator.FieldLevel) bool {
		d, ok := bp.ParseAmount(fl.Field().String())
		return ok && !d.IsNegative()
	})
	return v
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo obrigatório"
	case "max":
		return "máximo de " + e.Param() + " caracteres"
	case "email":
		return "e-mail inválido"
	case "url":
		return "endereço inválido"
	case "cpf":
		return "CPF inválido"
	case "cnpj":
		return "CNPJ inválido"
	case "cep":
		return "CEP inválido"
	case "option":
		return "opção inválida"
	case "amount":
		return "valor inválido"
	case "datetime":
		return "data inválida (AAAA-MM-DD)"
	default:
		return "valor inválido"
	}
}

// fieldPath turns "formRules.clienteVendasList[0].moeda" into
// "clienteVendasList[0].moeda".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// ValidateForm runs the format rules and then the cross-field rules.
func ValidateForm(v bp.FormValues) ValidationErrors {
	errs := ValidationErrors{}
	if err := validate.Struct(rulesFor(v)); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			errs.add("_form", err.Error())
			return errs
		}
		for _, fe := range ves {
			errs.add(fieldPath(fe), message(fe))
		}
	}
	for k, msg := range ValidateBusinessPartnerForm(v) {
		errs.add(k, msg)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateBusinessPartnerForm holds the rules that span more than one field.
func ValidateBusinessPartnerForm(v bp.FormValues) ValidationErrors {
	errs := ValidationErrors{}

	switch v.Tipo {
	case bp.TipoPF:
		if strings.TrimSpace(v.CPF) == "" {
			errs.add("cpf", "CPF obrigatório para pessoa física")
		}
		if strings.TrimSpace(v.CNPJ) != "" {
			errs.add("cnpj", "CNPJ não se aplica a pessoa física")
		}
	case bp.TipoPJ:
		if strings.TrimSpace(v.CNPJ) == "" {
			errs.add("cnpj", "CNPJ obrigatório para pessoa jurídica")
		}
		if strings.TrimSpace(v.CPF) != "" {
			errs.add("cpf", "CPF não se aplica a pessoa jurídica")
		}
		if v.DataNascimento != "" {
			errs.add("dataNascimento", "data de nascimento não se aplica a pessoa jurídica")
		}
	}

	if len(v.Funcao) == 0 {
		errs.add("funcao", "selecione ao menos uma função")
	}

	if v.HasRole(bp.RoleCliente) {
		if len(v.Items) == 0 {
			errs.add("clienteVendasList", "cliente precisa de ao menos uma área de vendas")
		}
		for i, it := range v.Items {
			for name, val := range map[string]string{
				"orgVendas":         it.OrgVendas,
				"canalDistribuicao": it.CanalDistribuicao,
				"setorAtividade":    it.SetorAtividade,
			} {
				if strings.TrimSpace(val) == "" {
					errs.add(fmt.Sprintf("clienteVendasList[%d].%s", i, name), "campo obrigatório")
				}
			}
		}
	}

	if v.HasRole(bp.RoleFornecedor) && v.OrgCompras == "" &&
		(v.MoedaPedido != "" || v.CondicaoPagamentoCompras != "" || v.IncotermsCompras != "") {
		errs.add("orgCompras", "informe a organização de compras")
	}

	if v.Conta != "" {
		if v.Banco == "" {
			errs.add("banco", "banco obrigatório quando há conta")
		}
		if v.Agencia == "" {
			errs.add("agencia", "agência obrigatória quando há conta")
		}
	}

	if v.DataNascimento != "" {
		if ts, err := time.Parse("2006-01-02", v.DataNascimento); err == nil && ts.After(now()) {
			errs.add("dataNascimento", "data no futuro")
		}
	}
	return errs
}

// Validate checks the values and records the errors on the draft. Values
// are never touched.
func (d *Draft) Validate() error {
	errs := ValidateForm(d.Values)
	if errs == nil {
		d.Errors = nil
		return nil
	}
	d.Errors = errs
	return errs
}
