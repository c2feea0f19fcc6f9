package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
	"github.com/Werneck0live/cadastro-parceiros/internal/catalog"
)

func TestCatalogFields(t *testing.T) {
	rr := newEnv().do(http.MethodGet, "/api/catalog/fields", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	got := decode[struct {
		Fields          []fieldView `json:"fields"`
		SalesAreaFields []fieldView `json:"sales_area_fields"`
	}](t, rr)
	assert.Len(t, got.Fields, len(catalog.Fields()))
	assert.Len(t, got.SalesAreaFields, len(catalog.SalesAreaFields()))
}

func TestCatalogOptions(t *testing.T) {
	e := newEnv()

	rr := e.do(http.MethodGet, "/api/catalog/options/"+catalog.ListUFs, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	opts := decode[[]catalog.Option](t, rr)
	assert.Len(t, opts, 27)

	rr = e.do(http.MethodGet, "/api/catalog/options/naoExiste", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMapToForm(t *testing.T) {
	e := newEnv()

	rr := e.do(http.MethodPost, "/api/mapping/form", fixture(t))
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[mappedFormView](t, rr)
	assert.Equal(t, "Paulista Alimentos", got.Values.NomeFantasia)
	assert.Equal(t, []string{bp.RoleCliente, bp.RoleFornecedor}, got.Values.Funcao)
	assert.False(t, got.Diagnostics.Malformed)

	// corpo inválido nunca é erro
	rr = e.do(http.MethodPost, "/api/mapping/form", "isto não é json")
	require.Equal(t, http.StatusOK, rr.Code)
	got = decode[mappedFormView](t, rr)
	assert.True(t, got.Diagnostics.Malformed)
	assert.Empty(t, got.Values.Nome)
}

func TestMapToPayload(t *testing.T) {
	e := newEnv()

	rr := e.do(http.MethodPost, "/api/mapping/payload", map[string]any{
		"nome":          "ACME",
		"funcao":        []string{"CLI"},
		"limiteCredito": "1.500,50",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	got := decode[struct {
		Payload     map[string]any `json:"payload"`
		Diagnostics bp.Diagnostics `json:"diagnostics"`
	}](t, rr)
	assert.Equal(t, "ACME", got.Payload["nome"])
	assert.Equal(t, "CLIE", got.Payload["funcao"])
	assert.False(t, got.Diagnostics.HasIssues())

	rr = e.do(http.MethodPost, "/api/mapping/payload", `{"naoExiste":1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = e.do(http.MethodPost, "/api/mapping/payload?validate=true", `{"nome":"ACME"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
