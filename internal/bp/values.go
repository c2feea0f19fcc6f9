// Package bp converts business-partner resources between the nested shape the
// partner API speaks and the flat shape the form edits.
//
// Every function here is pure and total: malformed or partial input degrades
// to defaults, it is never rejected.
package bp

import (
	"encoding/json"
	"sort"

	"github.com/Werneck0live/cadastro-parceiros/internal/catalog"
)

// SalesArea is one clienteVendas entry: a sales organization, distribution
// channel and division configuration of a customer.
type SalesArea struct {
	OrgVendas           string `json:"orgVendas" bson:"org_vendas"`
	CanalDistribuicao   string `json:"canalDistribuicao" bson:"canal_distribuicao"`
	SetorAtividade      string `json:"setorAtividade" bson:"setor_atividade"`
	EscritorioVendas    string `json:"escritorioVendas" bson:"escritorio_vendas"`
	EquipeVendas        string `json:"equipeVendas" bson:"equipe_vendas"`
	GrupoClientes       string `json:"grupoClientes" bson:"grupo_clientes"`
	Moeda               string `json:"moeda" bson:"moeda"`
	CondicaoPagamento   string `json:"condicaoPagamento" bson:"condicao_pagamento"`
	Incoterms           string `json:"incoterms" bson:"incoterms"`
	IncotermsLocal      string `json:"incotermsLocal" bson:"incoterms_local"`
	GrupoPreco          string `json:"grupoPreco" bson:"grupo_preco"`
	EsquemaCliente      string `json:"esquemaCliente" bson:"esquema_cliente"`
	CentroFornecedor    string `json:"centroFornecedor" bson:"centro_fornecedor"`
	CondicaoExpedicao   string `json:"condicaoExpedicao" bson:"condicao_expedicao"`
	ClassificacaoFiscal string `json:"classificacaoFiscal" bson:"classificacao_fiscal"`
	RelevanteDesconto   bool   `json:"relevanteDesconto" bson:"relevante_desconto"`
	DeterminacaoPreco   bool   `json:"determinacaoPreco" bson:"determinacao_preco"`
	EntregaCompleta     bool   `json:"entregaCompleta" bson:"entrega_completa"`
}

// EmptySalesArea seeds a new clienteVendasList entry.
func EmptySalesArea() SalesArea { return SalesArea{} }

func (s *SalesArea) stringFields() map[string]*string {
	return map[string]*string{
		"orgVendas":           &s.OrgVendas,
		"canalDistribuicao":   &s.CanalDistribuicao,
		"setorAtividade":      &s.SetorAtividade,
		"escritorioVendas":    &s.EscritorioVendas,
		"equipeVendas":        &s.EquipeVendas,
		"grupoClientes":       &s.GrupoClientes,
		"moeda":               &s.Moeda,
		"condicaoPagamento":   &s.CondicaoPagamento,
		"incoterms":           &s.Incoterms,
		"incotermsLocal":      &s.IncotermsLocal,
		"grupoPreco":          &s.GrupoPreco,
		"esquemaCliente":      &s.EsquemaCliente,
		"centroFornecedor":    &s.CentroFornecedor,
		"condicaoExpedicao":   &s.CondicaoExpedicao,
		"classificacaoFiscal": &s.ClassificacaoFiscal,
	}
}

func (s *SalesArea) flagFields() map[string]*bool {
	return map[string]*bool{
		"relevanteDesconto": &s.RelevanteDesconto,
		"determinacaoPreco": &s.DeterminacaoPreco,
		"entregaCompleta":   &s.EntregaCompleta,
	}
}

// Set assigns one sales-area field by name. value must be a string for text
// fields and a bool for flags; it reports false otherwise.
func (s *SalesArea) Set(name string, value any) bool {
	if p, ok := s.stringFields()[name]; ok {
		str, ok := value.(string)
		if ok {
			*p = str
		}
		return ok
	}
	if p, ok := s.flagFields()[name]; ok {
		b, ok := value.(bool)
		if ok {
			*p = b
		}
		return ok
	}
	return false
}

// SalesAreaList is the editable clienteVendas collection and the index the
// form currently shows. Selected is nil when nothing is selected.
type SalesAreaList struct {
	Items    []SalesArea `json:"clienteVendasList" bson:"items"`
	Selected *int        `json:"selectedSalesAreaIndex" bson:"selected"`
}

func (l SalesAreaList) Len() int { return len(l.Items) }

// SelectedIndex returns the selection when it points inside the list.
func (l SalesAreaList) SelectedIndex() (int, bool) {
	if l.Selected == nil || *l.Selected < 0 || *l.Selected >= len(l.Items) {
		return 0, false
	}
	return *l.Selected, true
}

// Current reads the selected item. An out-of-bounds or nil selection reads
// as a blank item.
func (l SalesAreaList) Current() (SalesArea, bool) {
	i, ok := l.SelectedIndex()
	if !ok {
		return EmptySalesArea(), false
	}
	return l.Items[i], true
}

// CurrentPtr returns the selected item for live edits, or nil.
func (l *SalesAreaList) CurrentPtr() *SalesArea {
	i, ok := l.SelectedIndex()
	if !ok {
		return nil
	}
	return &l.Items[i]
}

func intPtr(i int) *int { return &i }

// FormValues is the flat form state. Every catalog field has a struct field,
// so a FormValues can never be missing a key.
type FormValues struct {
	Tipo           string   `json:"tipo" bson:"tipo"`
	Funcao         []string `json:"funcao" bson:"funcao"`
	Nome           string   `json:"nome" bson:"nome"`
	Nome2          string   `json:"nome2" bson:"nome2"`
	NomeFantasia   string   `json:"nomeFantasia" bson:"nome_fantasia"`
	TermoPesquisa1 string   `json:"termoPesquisa1" bson:"termo_pesquisa1"`
	TermoPesquisa2 string   `json:"termoPesquisa2" bson:"termo_pesquisa2"`
	Status         string   `json:"status" bson:"status"`
	GrupoContas    string   `json:"grupoContas" bson:"grupo_contas"`

	Cep             string `json:"cep" bson:"cep"`
	Logradouro      string `json:"logradouro" bson:"logradouro"`
	Numero          string `json:"numero" bson:"numero"`
	Complemento     string `json:"complemento" bson:"complemento"`
	Bairro          string `json:"bairro" bson:"bairro"`
	Cidade          string `json:"cidade" bson:"cidade"`
	UF              string `json:"uf" bson:"uf"`
	Pais            string `json:"pais" bson:"pais"`
	CodigoMunicipio string `json:"codigoMunicipio" bson:"codigo_municipio"`

	Telefone    string `json:"telefone" bson:"telefone"`
	Ramal       string `json:"ramal" bson:"ramal"`
	Celular     string `json:"celular" bson:"celular"`
	Email       string `json:"email" bson:"email"`
	Site        string `json:"site" bson:"site"`
	Observacoes string `json:"observacoes" bson:"observacoes"`

	CPF                string `json:"cpf" bson:"cpf"`
	CNPJ               string `json:"cnpj" bson:"cnpj"`
	InscricaoEstadual  string `json:"inscricaoEstadual" bson:"inscricao_estadual"`
	InscricaoMunicipal string `json:"inscricaoMunicipal" bson:"inscricao_municipal"`
	RG                 string `json:"rg" bson:"rg"`
	DataNascimento     string `json:"dataNascimento" bson:"data_nascimento"`

	ChaveSetor     string `json:"chaveSetor" bson:"chave_setor"`
	Cnae           string `json:"cnae" bson:"cnae"`
	DescricaoSetor string `json:"descricaoSetor" bson:"descricao_setor"`

	RegimeTributario string `json:"regimeTributario" bson:"regime_tributario"`
	NaturezaJuridica string `json:"naturezaJuridica" bson:"natureza_juridica"`
	PorteEmpresa     string `json:"porteEmpresa" bson:"porte_empresa"`

	Banco       string `json:"banco" bson:"banco"`
	Agencia     string `json:"agencia" bson:"agencia"`
	Conta       string `json:"conta" bson:"conta"`
	DigitoConta string `json:"digitoConta" bson:"digito_conta"`
	TipoConta   string `json:"tipoConta" bson:"tipo_conta"`
	ChavePix    string `json:"chavePix" bson:"chave_pix"`

	FuncaoParceiro      string `json:"funcaoParceiro" bson:"funcao_parceiro"`
	ParceiroRelacionado string `json:"parceiroRelacionado" bson:"parceiro_relacionado"`

	Devolucao                  bool   `json:"devolucao" bson:"devolucao"`
	VerificacaoFaturaDuplicada bool   `json:"verificacaoFaturaDuplicada" bson:"verificacao_fatura_duplicada"`
	BloqueioCentral            bool   `json:"bloqueioCentral" bson:"bloqueio_central"`
	GrupoContasFornecedor      string `json:"grupoContasFornecedor" bson:"grupo_contas_fornecedor"`

	OrgCompras               string `json:"orgCompras" bson:"org_compras"`
	MoedaPedido              string `json:"moedaPedido" bson:"moeda_pedido"`
	CondicaoPagamentoCompras string `json:"condicaoPagamentoCompras" bson:"condicao_pagamento_compras"`
	IncotermsCompras         string `json:"incotermsCompras" bson:"incoterms_compras"`
	IncotermsLocalCompras    string `json:"incotermsLocalCompras" bson:"incoterms_local_compras"`
	GrupoCompradores         string `json:"grupoCompradores" bson:"grupo_compradores"`
	VerificacaoFaturaEM      bool   `json:"verificacaoFaturaEM" bson:"verificacao_fatura_em"`
	PedidoAutomatico         bool   `json:"pedidoAutomatico" bson:"pedido_automatico"`

	EmpresaFornecedor           string `json:"empresaFornecedor" bson:"empresa_fornecedor"`
	ContaConciliacaoFornecedor  string `json:"contaConciliacaoFornecedor" bson:"conta_conciliacao_fornecedor"`
	ChaveOrdenacaoFornecedor    string `json:"chaveOrdenacaoFornecedor" bson:"chave_ordenacao_fornecedor"`
	CondicaoPagamentoFornecedor string `json:"condicaoPagamentoFornecedor" bson:"condicao_pagamento_fornecedor"`
	FormasPagamento             string `json:"formasPagamento" bson:"formas_pagamento"`
	GrupoTesourariaFornecedor   string `json:"grupoTesourariaFornecedor" bson:"grupo_tesouraria_fornecedor"`
	PagamentoIndividual         bool   `json:"pagamentoIndividual" bson:"pagamento_individual"`

	EmpresaCliente           string `json:"empresaCliente" bson:"empresa_cliente"`
	ContaConciliacaoCliente  string `json:"contaConciliacaoCliente" bson:"conta_conciliacao_cliente"`
	ChaveOrdenacaoCliente    string `json:"chaveOrdenacaoCliente" bson:"chave_ordenacao_cliente"`
	CondicaoPagamentoCliente string `json:"condicaoPagamentoCliente" bson:"condicao_pagamento_cliente"`
	GrupoTesourariaCliente   string `json:"grupoTesourariaCliente" bson:"grupo_tesouraria_cliente"`

	Partner            string `json:"partner" bson:"partner"`
	SegmentoCredito    string `json:"segmentoCredito" bson:"segmento_credito"`
	LimiteCredito      string `json:"limiteCredito" bson:"limite_credito"`
	ClasseRisco        string `json:"classeRisco" bson:"classe_risco"`
	GrupoVerificacao   string `json:"grupoVerificacao" bson:"grupo_verificacao"`
	DataProximaRevisao string `json:"dataProximaRevisao" bson:"data_proxima_revisao"`

	PerfilCobranca       string `json:"perfilCobranca" bson:"perfil_cobranca"`
	SegmentoCobranca     string `json:"segmentoCobranca" bson:"segmento_cobranca"`
	GrupoCobranca        string `json:"grupoCobranca" bson:"grupo_cobranca"`
	EspecialistaCobranca string `json:"especialistaCobranca" bson:"especialista_cobranca"`

	SalesAreaList `bson:"sales_areas"`
}

// NewFormValues returns a blank form.
func NewFormValues() FormValues {
	return FormValues{
		Funcao:        []string{},
		SalesAreaList: SalesAreaList{Items: []SalesArea{}},
	}
}

func (v *FormValues) stringFields() map[string]*string {
	return map[string]*string{
		"tipo":                        &v.Tipo,
		"nome":                        &v.Nome,
		"nome2":                       &v.Nome2,
		"nomeFantasia":                &v.NomeFantasia,
		"termoPesquisa1":              &v.TermoPesquisa1,
		"termoPesquisa2":              &v.TermoPesquisa2,
		"status":                      &v.Status,
		"grupoContas":                 &v.GrupoContas,
		"cep":                         &v.Cep,
		"logradouro":                  &v.Logradouro,
		"numero":                      &v.Numero,
		"complemento":                 &v.Complemento,
		"bairro":                      &v.Bairro,
		"cidade":                      &v.Cidade,
		"uf":                          &v.UF,
		"pais":                        &v.Pais,
		"codigoMunicipio":             &v.CodigoMunicipio,
		"telefone":                    &v.Telefone,
		"ramal":                       &v.Ramal,
		"celular":                     &v.Celular,
		"email":                       &v.Email,
		"site":                        &v.Site,
		"observacoes":                 &v.Observacoes,
		"cpf":                         &v.CPF,
		"cnpj":                        &v.CNPJ,
		"inscricaoEstadual":           &v.InscricaoEstadual,
		"inscricaoMunicipal":          &v.InscricaoMunicipal,
		"rg":                          &v.RG,
		"dataNascimento":              &v.DataNascimento,
		"chaveSetor":                  &v.ChaveSetor,
		"cnae":                        &v.Cnae,
		"descricaoSetor":              &v.DescricaoSetor,
		"regimeTributario":            &v.RegimeTributario,
		"naturezaJuridica":            &v.NaturezaJuridica,
		"porteEmpresa":                &v.PorteEmpresa,
		"banco":                       &v.Banco,
		"agencia":                     &v.Agencia,
		"conta":                       &v.Conta,
		"digitoConta":                 &v.DigitoConta,
		"tipoConta":                   &v.TipoConta,
		"chavePix":                    &v.ChavePix,
		"funcaoParceiro":              &v.FuncaoParceiro,
		"parceiroRelacionado":         &v.ParceiroRelacionado,
		"grupoContasFornecedor":       &v.GrupoContasFornecedor,
		"orgCompras":                  &v.OrgCompras,
		"moedaPedido":                 &v.MoedaPedido,
		"condicaoPagamentoCompras":    &v.CondicaoPagamentoCompras,
		"incotermsCompras":            &v.IncotermsCompras,
		"incotermsLocalCompras":       &v.IncotermsLocalCompras,
		"grupoCompradores":            &v.GrupoCompradores,
		"empresaFornecedor":           &v.EmpresaFornecedor,
		"contaConciliacaoFornecedor":  &v.ContaConciliacaoFornecedor,
		"chaveOrdenacaoFornecedor":    &v.ChaveOrdenacaoFornecedor,
		"condicaoPagamentoFornecedor": &v.CondicaoPagamentoFornecedor,
		"formasPagamento":             &v.FormasPagamento,
		"grupoTesourariaFornecedor":   &v.GrupoTesourariaFornecedor,
		"empresaCliente":              &v.EmpresaCliente,
		"contaConciliacaoCliente":     &v.ContaConciliacaoCliente,
		"chaveOrdenacaoCliente":       &v.ChaveOrdenacaoCliente,
		"condicaoPagamentoCliente":    &v.CondicaoPagamentoCliente,
		"grupoTesourariaCliente":      &v.GrupoTesourariaCliente,
		"partner":                     &v.Partner,
		"segmentoCredito":             &v.SegmentoCredito,
		"limiteCredito":               &v.LimiteCredito,
		"classeRisco":                 &v.ClasseRisco,
		"grupoVerificacao":            &v.GrupoVerificacao,
		"dataProximaRevisao":          &v.DataProximaRevisao,
		"perfilCobranca":              &v.PerfilCobranca,
		"segmentoCobranca":            &v.SegmentoCobranca,
		"grupoCobranca":               &v.GrupoCobranca,
		"especialistaCobranca":        &v.EspecialistaCobranca,
	}
}

func (v *FormValues) flagFields() map[string]*bool {
	return map[string]*bool{
		"devolucao":                  &v.Devolucao,
		"verificacaoFaturaDuplicada": &v.VerificacaoFaturaDuplicada,
		"bloqueioCentral":            &v.BloqueioCentral,
		"verificacaoFaturaEM":        &v.VerificacaoFaturaEM,
		"pedidoAutomatico":           &v.PedidoAutomatico,
		"pagamentoIndividual":        &v.PagamentoIndividual,
	}
}

// Get reads one flat field by catalog name.
func (v *FormValues) Get(name string) (any, bool) {
	if p, ok := v.stringFields()[name]; ok {
		return *p, true
	}
	if p, ok := v.flagFields()[name]; ok {
		return *p, true
	}
	switch name {
	case "funcao":
		return v.roles(), true
	case "clienteVendasList":
		return v.items(), true
	case "selectedSalesAreaIndex":
		if i, ok := v.SelectedIndex(); ok {
			return i, true
		}
		return nil, true
	}
	return nil, false
}

// SetString assigns a text field; it reports false for unknown names and
// for names that are not text fields.
func (v *FormValues) SetString(name, value string) bool {
	p, ok := v.stringFields()[name]
	if ok {
		*p = value
	}
	return ok
}

// SetFlag assigns a checkbox field.
func (v *FormValues) SetFlag(name string, value bool) bool {
	p, ok := v.flagFields()[name]
	if ok {
		*p = value
	}
	return ok
}

func (v FormValues) roles() []string {
	if v.Funcao == nil {
		return []string{}
	}
	return v.Funcao
}

func (v FormValues) items() []SalesArea {
	if v.Items == nil {
		return []SalesArea{}
	}
	return v.Items
}

// HasRole reports whether the multi-select funcao holds role.
func (v FormValues) HasRole(role string) bool {
	for _, r := range v.Funcao {
		if r == role {
			return true
		}
	}
	return false
}

// ToMap returns the flat form keyed by catalog name. Every catalog key is
// present; nothing is left undefined.
func (v FormValues) ToMap() map[string]any {
	m := catalog.Defaults()
	for name := range m {
		if val, ok := v.Get(name); ok {
			m[name] = val
		}
	}
	return m
}

// Keys returns the flat keys of v, sorted.
func (v FormValues) Keys() []string {
	m := v.ToMap()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (v FormValues) Clone() FormValues {
	c := v
	c.Funcao = append([]string{}, v.roles()...)
	c.Items = append([]SalesArea{}, v.items()...)
	if v.Selected != nil {
		c.Selected = intPtr(*v.Selected)
	}
	return c
}

// MarshalJSON keeps nil slices from leaking out as null.
func (v FormValues) MarshalJSON() ([]byte, error) {
	type plain FormValues
	p := plain(v)
	p.Funcao = v.roles()
	p.Items = v.items()
	return json.Marshal(p)
}
