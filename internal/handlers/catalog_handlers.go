package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
	"github.com/Werneck0live/cadastro-parceiros/internal/catalog"
	"github.com/Werneck0live/cadastro-parceiros/internal/form"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

const maxMappingBody = 1 << 20

func (h *DraftHandler) CatalogFields(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"fields":            fieldViews(catalog.Fields()),
		"sales_area_fields": fieldViews(catalog.SalesAreaFields()),
	})
}

func (h *DraftHandler) CatalogOptions(w http.ResponseWriter, r *http.Request) {
	list := mux.Vars(r)["list"]
	opts, ok := catalog.Options(list)
	if !ok {
		utils.WriteJSON(w, http.StatusNotFound, map[string]any{
			"error": "unknown option list",
			"lists": catalog.Lists(),
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, opts)
}

// MapToForm converte um recurso do parceiro em valores de formulário.
// Nunca falha: JSON inválido vira formulário em branco com diagnóstico.
func (h *DraftHandler) MapToForm(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxMappingBody))
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	v, diag := bp.MapAPIToFormWithDiagnostics(raw)
	h.Metrics.ObserveMapping("from_api", diag.Reasons())
	utils.WriteJSON(w, http.StatusOK, mappedFormView{Values: v, Diagnostics: diag})
}

// MapToPayload converte valores de formulário no corpo snake_case.
// ?validate=true aplica as mesmas regras do envio.
func (h *DraftHandler) MapToPayload(w http.ResponseWriter, r *http.Request) {
	v := bp.NewFormValues()
	if err := utils.DecodeStrict(io.LimitReader(r.Body, maxMappingBody), &v); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	if r.URL.Query().Get("validate") == "true" {
		if errs := form.ValidateForm(v); errs != nil {
			h.writeError(w, errs)
			return
		}
	}
	body, diag, err := bp.EncodePayloadWithDiagnostics(v)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.Metrics.ObserveMapping("to_payload", diag.Reasons())
	utils.WriteJSON(w, http.StatusOK, mappedPayloadView{Payload: body, Diagnostics: diag})
}
