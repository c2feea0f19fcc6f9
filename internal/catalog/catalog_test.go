package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_UniqueNamesAndKnownGroups(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Fields() {
		assert.False(t, seen[f.Name], "duplicate field %q", f.Name)
		seen[f.Name] = true

		_, ok := GroupByName(f.Group)
		assert.True(t, ok, "field %q has unknown group %q", f.Name, f.Group)
	}
}

func TestFields_WireKeysUniqueWithinGroup(t *testing.T) {
	for _, g := range Groups() {
		keys := map[string]bool{}
		for _, f := range InGroup(g.Name) {
			if f.WireKey == "" {
				continue
			}
			assert.False(t, keys[f.WireKey], "group %q: wire key %q bound twice", g.Name, f.WireKey)
			keys[f.WireKey] = true
		}
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.Len(t, d, len(Fields()))

	assert.Equal(t, "", d["nome"])
	assert.Equal(t, false, d["devolucao"])
	assert.Equal(t, []string{}, d["funcao"])
	assert.Equal(t, []any{}, d["clienteVendasList"])

	v, ok := d["selectedSalesAreaIndex"]
	assert.True(t, ok, "index key must be present even though it defaults to nil")
	assert.Nil(t, v)
}

func TestSalesAreaFields_HaveThreeFlags(t *testing.T) {
	var flags []string
	for _, f := range SalesAreaFields() {
		if f.Kind == KindFlag {
			flags = append(flags, f.Name)
		}
	}
	assert.ElementsMatch(t, []string{"relevanteDesconto", "determinacaoPreco", "entregaCompleta"}, flags)
}

func TestIsFlag(t *testing.T) {
	assert.True(t, IsFlag("devolucao"))
	assert.True(t, IsFlag("entregaCompleta"))
	assert.False(t, IsFlag("nome"))
	assert.False(t, IsFlag("nope"))
}

func TestOptions(t *testing.T) {
	ufs, ok := Options(ListUFs)
	require.True(t, ok)
	assert.Len(t, ufs, 27)

	cif := false
	inc, _ := Options(ListIncoterms)
	for _, o := range inc {
		if o.Code == "CIF" {
			cif = true
			assert.Equal(t, "Cost, Insurance and Freight", o.Label)
		}
	}
	assert.True(t, cif)

	assert.True(t, Valid(ListMoedas, "BRL"))
	assert.False(t, Valid(ListMoedas, "XXX"))
	assert.False(t, Valid("missing", "BRL"))

	_, ok = Options("missing")
	assert.False(t, ok)
	assert.Contains(t, Lists(), ListFuncoes)
}

func TestParseOptions_RejectsDuplicates(t *testing.T) {
	_, err := parseOptions([]byte("ufs:\n  - {code: SP, label: a}\n  - {code: SP, label: b}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate code")
}
