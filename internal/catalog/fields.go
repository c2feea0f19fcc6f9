// Package catalog lists every field of the business-partner form, the
// sub-object that owns it on the wire, and its default value.
package catalog

// Kind decides both the default value and the coercion rule a field gets
// when read from the partner resource.
type Kind int

const (
	KindString Kind = iota // "" by default, read through bp.Safe
	KindFlag               // false by default, read through bp.Truthy
	KindRoles              // multi-select of role codes
	KindList               // full list (sales areas)
	KindIndex              // nullable index into a list
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFlag:
		return "flag"
	case KindRoles:
		return "roles"
	case KindList:
		return "list"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Shape is how a group is laid out in the nested wire resource.
type Shape int

const (
	ShapeRoot   Shape = iota // keys on the resource itself
	ShapeObject              // one nested object
	ShapeFirst               // array; only element 0 is mapped
	ShapeList                // array kept whole
	ShapeForm                // form-only state, never on the wire
)

// Group is a sub-object of the partner resource.
type Group struct {
	Name  string
	Path  []string // wire path from the resource root
	Shape Shape
}

// Field is one flat form field.
type Field struct {
	Name    string `json:"name"`
	Group   string `json:"group"`
	WireKey string `json:"wireKey"`
	Kind    Kind   `json:"-"`
}

// Default returns the value a blank form holds for the field.
func (f Field) Default() any {
	switch f.Kind {
	case KindFlag:
		return false
	case KindRoles:
		return []string{}
	case KindList:
		return []any{}
	case KindIndex:
		return nil
	default:
		return ""
	}
}

const (
	GroupRoot               = "root"
	GroupEndereco           = "endereco"
	GroupComunicacao        = "comunicacao"
	GroupIdentificacao      = "identificacao"
	GroupSetorIndustrial    = "setorIndustrial"
	GroupDadosAdicionais    = "dadosAdicionais"
	GroupPagamentos         = "pagamentos"
	GroupFuncoesParceiro    = "funcoesParceiro"
	GroupFornecedor         = "fornecedor"
	GroupFornecedorCompras  = "fornecedorCompras"
	GroupFornecedorEmpresas = "fornecedorEmpresas"
	GroupClienteVendas      = "clienteVendas"
	GroupClienteEmpresas    = "clienteEmpresas"
	GroupDadosCredito       = "dadosCredito"
	GroupCollection         = "collection"
	GroupForm               = "form"
)

var groups = []Group{
	{Name: GroupRoot, Shape: ShapeRoot},
	{Name: GroupEndereco, Path: []string{"endereco"}, Shape: ShapeObject},
	{Name: GroupComunicacao, Path: []string{"comunicacao"}, Shape: ShapeObject},
	{Name: GroupIdentificacao, Path: []string{"identificacao"}, Shape: ShapeObject},
	{Name: GroupSetorIndustrial, Path: []string{"setorIndustrial"}, Shape: ShapeObject},
	{Name: GroupDadosAdicionais, Path: []string{"dadosAdicionais"}, Shape: ShapeObject},
	{Name: GroupPagamentos, Path: []string{"pagamentos"}, Shape: ShapeObject},
	{Name: GroupFuncoesParceiro, Path: []string{"funcoesParceiro"}, Shape: ShapeFirst},
	{Name: GroupFornecedor, Path: []string{"fornecedor"}, Shape: ShapeObject},
	{Name: GroupFornecedorCompras, Path: []string{"fornecedor", "fornecedorCompras"}, Shape: ShapeFirst},
	{Name: GroupFornecedorEmpresas, Path: []string{"fornecedor", "fornecedorEmpresas"}, Shape: ShapeFirst},
	{Name: GroupClienteVendas, Path: []string{"clienteVendas"}, Shape: ShapeList},
	{Name: GroupClienteEmpresas, Path: []string{"clienteEmpresas"}, Shape: ShapeFirst},
	{Name: GroupDadosCredito, Path: []string{"dadosCredito"}, Shape: ShapeFirst},
	{Name: GroupCollection, Path: []string{"collection"}, Shape: ShapeFirst},
	{Name: GroupForm, Shape: ShapeForm},
}

func str(name, group string) Field {
	return Field{Name: name, Group: group, WireKey: name, Kind: KindString}
}

func flag(name, group string) Field {
	return Field{Name: name, Group: group, WireKey: name, Kind: KindFlag}
}

// renamed binds a disambiguated flat name to the key used inside the group.
func renamed(name, group, wireKey string, kind Kind) Field {
	return Field{Name: name, Group: group, WireKey: wireKey, Kind: kind}
}

var fields = []Field{
	str("tipo", GroupRoot),
	{Name: "funcao", Group: GroupRoot, WireKey: "funcao", Kind: KindRoles},
	str("nome", GroupRoot),
	str("nome2", GroupRoot),
	str("nomeFantasia", GroupRoot),
	str("termoPesquisa1", GroupRoot),
	str("termoPesquisa2", GroupRoot),
	str("status", GroupRoot),
	str("grupoContas", GroupRoot),

	str("cep", GroupEndereco),
	str("logradouro", GroupEndereco),
	str("numero", GroupEndereco),
	str("complemento", GroupEndereco),
	str("bairro", GroupEndereco),
	str("cidade", GroupEndereco),
	str("uf", GroupEndereco),
	str("pais", GroupEndereco),
	str("codigoMunicipio", GroupEndereco),

	str("telefone", GroupComunicacao),
	str("ramal", GroupComunicacao),
	str("celular", GroupComunicacao),
	str("email", GroupComunicacao),
	str("site", GroupComunicacao),
	str("observacoes", GroupComunicacao),

	str("cpf", GroupIdentificacao),
	str("cnpj", GroupIdentificacao),
	str("inscricaoEstadual", GroupIdentificacao),
	str("inscricaoMunicipal", GroupIdentificacao),
	str("rg", GroupIdentificacao),
	str("dataNascimento", GroupIdentificacao),

	renamed("chaveSetor", GroupSetorIndustrial, "chave", KindString),
	str("cnae", GroupSetorIndustrial),
	renamed("descricaoSetor", GroupSetorIndustrial, "descricao", KindString),

	str("regimeTributario", GroupDadosAdicionais),
	str("naturezaJuridica", GroupDadosAdicionais),
	str("porteEmpresa", GroupDadosAdicionais),

	str("banco", GroupPagamentos),
	str("agencia", GroupPagamentos),
	str("conta", GroupPagamentos),
	str("digitoConta", GroupPagamentos),
	str("tipoConta", GroupPagamentos),
	str("chavePix", GroupPagamentos),

	renamed("funcaoParceiro", GroupFuncoesParceiro, "funcao", KindString),
	renamed("parceiroRelacionado", GroupFuncoesParceiro, "parceiro", KindString),

	flag("devolucao", GroupFornecedor),
	flag("verificacaoFaturaDuplicada", GroupFornecedor),
	flag("bloqueioCentral", GroupFornecedor),
	renamed("grupoContasFornecedor", GroupFornecedor, "grupoContas", KindString),

	str("orgCompras", GroupFornecedorCompras),
	str("moedaPedido", GroupFornecedorCompras),
	renamed("condicaoPagamentoCompras", GroupFornecedorCompras, "condicaoPagamento", KindString),
	renamed("incotermsCompras", GroupFornecedorCompras, "incoterms", KindString),
	renamed("incotermsLocalCompras", GroupFornecedorCompras, "incotermsLocal", KindString),
	str("grupoCompradores", GroupFornecedorCompras),
	renamed("verificacaoFaturaEM", GroupFornecedorCompras, "verificacaoFaturaBaseadaEM", KindFlag),
	flag("pedidoAutomatico", GroupFornecedorCompras),

	renamed("empresaFornecedor", GroupFornecedorEmpresas, "empresa", KindString),
	renamed("contaConciliacaoFornecedor", GroupFornecedorEmpresas, "contaConciliacao", KindString),
	renamed("chaveOrdenacaoFornecedor", GroupFornecedorEmpresas, "chaveOrdenacao", KindString),
	renamed("condicaoPagamentoFornecedor", GroupFornecedorEmpresas, "condicaoPagamento", KindString),
	str("formasPagamento", GroupFornecedorEmpresas),
	renamed("grupoTesourariaFornecedor", GroupFornecedorEmpresas, "grupoTesouraria", KindString),
	flag("pagamentoIndividual", GroupFornecedorEmpresas),

	renamed("empresaCliente", GroupClienteEmpresas, "empresa", KindString),
	renamed("contaConciliacaoCliente", GroupClienteEmpresas, "contaConciliacao", KindString),
	renamed("chaveOrdenacaoCliente", GroupClienteEmpresas, "chaveOrdenacao", KindString),
	renamed("condicaoPagamentoCliente", GroupClienteEmpresas, "condicaoPagamento", KindString),
	renamed("grupoTesourariaCliente", GroupClienteEmpresas, "grupoTesouraria", KindString),

	str("partner", GroupDadosCredito),
	renamed("segmentoCredito", GroupDadosCredito, "segmento", KindString),
	renamed("limiteCredito", GroupDadosCredito, "limite", KindString),
	str("classeRisco", GroupDadosCredito),
	str("grupoVerificacao", GroupDadosCredito),
	str("dataProximaRevisao", GroupDadosCredito),

	renamed("perfilCobranca", GroupCollection, "perfil", KindString),
	renamed("segmentoCobranca", GroupCollection, "segmento", KindString),
	renamed("grupoCobranca", GroupCollection, "grupo", KindString),
	renamed("especialistaCobranca", GroupCollection, "especialista", KindString),

	renamed("clienteVendasList", GroupForm, "clienteVendas", KindList),
	{Name: "selectedSalesAreaIndex", Group: GroupForm, Kind: KindIndex},
}

// salesAreaFields describe one clienteVendas item. They never appear as flat
// keys; they live inside clienteVendasList.
var salesAreaFields = []Field{
	str("orgVendas", GroupClienteVendas),
	str("canalDistribuicao", GroupClienteVendas),
	str("setorAtividade", GroupClienteVendas),
	str("escritorioVendas", GroupClienteVendas),
	str("equipeVendas", GroupClienteVendas),
	str("grupoClientes", GroupClienteVendas),
	str("moeda", GroupClienteVendas),
	str("condicaoPagamento", GroupClienteVendas),
	str("incoterms", GroupClienteVendas),
	str("incotermsLocal", GroupClienteVendas),
	str("grupoPreco", GroupClienteVendas),
	str("esquemaCliente", GroupClienteVendas),
	str("centroFornecedor", GroupClienteVendas),
	str("condicaoExpedicao", GroupClienteVendas),
	str("classificacaoFiscal", GroupClienteVendas),
	flag("relevanteDesconto", GroupClienteVendas),
	flag("determinacaoPreco", GroupClienteVendas),
	flag("entregaCompleta", GroupClienteVendas),
}

var (
	byName       = index(fields)
	salesByName  = index(salesAreaFields)
	groupsByName = func() map[string]Group {
		m := make(map[string]Group, len(groups))
		for _, g := range groups {
			m[g.Name] = g
		}
		return m
	}()
)

func index(fs []Field) map[string]Field {
	m := make(map[string]Field, len(fs))
	for _, f := range fs {
		m[f.Name] = f
	}
	return m
}

// Fields returns the flat form fields in declaration order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// SalesAreaFields returns the fields of one sales-area item.
func SalesAreaFields() []Field {
	out := make([]Field, len(salesAreaFields))
	copy(out, salesAreaFields)
	return out
}

// Groups returns the wire sub-objects in declaration order.
func Groups() []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	return out
}

func ByName(name string) (Field, bool) {
	f, ok := byName[name]
	return f, ok
}

func SalesAreaField(name string) (Field, bool) {
	f, ok := salesByName[name]
	return f, ok
}

func GroupByName(name string) (Group, bool) {
	g, ok := groupsByName[name]
	return g, ok
}

// InGroup returns the flat fields owned by group g.
func InGroup(g string) []Field {
	var out []Field
	for _, f := range fields {
		if f.Group == g {
			out = append(out, f)
		}
	}
	return out
}

// Names returns every flat key a form holds.
func Names() []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}

// Defaults returns a blank flat form: every catalog key, default valued.
func Defaults() map[string]any {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Default()
	}
	return m
}

func IsFlag(name string) bool {
	if f, ok := byName[name]; ok {
		return f.Kind == KindFlag
	}
	f, ok := salesByName[name]
	return ok && f.Kind == KindFlag
}
