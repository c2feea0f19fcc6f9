package handlers

import (
	"encoding/json"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
	"github.com/Werneck0live/cadastro-parceiros/internal/catalog"
	"github.com/Werneck0live/cadastro-parceiros/internal/form"
)

// FieldDTO altera um campo: {"name":"cidade","value":"Recife"}.
// value pode ser texto, número, booleano ou lista (funcao).
type FieldDTO struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// LookupDTO é opcional; sem value usa o que já está no formulário.
type LookupDTO struct {
	Value string `json:"value"`
}

type draftView struct {
	*form.Draft
	SalesArea form.EditorView `json:"sales_area"`
}

func view(d *form.Draft) draftView {
	return draftView{Draft: d, SalesArea: d.SalesAreaView()}
}

type insertedView struct {
	Index int       `json:"index"`
	Draft draftView `json:"draft"`
}

type submitView struct {
	BPID        string         `json:"bp_id"`
	Draft       draftView      `json:"draft"`
	Diagnostics bp.Diagnostics `json:"diagnostics"`
}

type mappedFormView struct {
	Values      bp.FormValues  `json:"values"`
	Diagnostics bp.Diagnostics `json:"diagnostics"`
}

type mappedPayloadView struct {
	Payload     json.RawMessage `json:"payload"`
	Diagnostics bp.Diagnostics  `json:"diagnostics"`
}

type fieldView struct {
	Name    string `json:"name"`
	Group   string `json:"group"`
	WireKey string `json:"wire_key"`
	Kind    string `json:"kind"`
	Default any    `json:"default"`
}

func fieldViews(fs []catalog.Field) []fieldView {
	out := make([]fieldView, 0, len(fs))
	for _, f := range fs {
		out = append(out, fieldView{
			Name:    f.Name,
			Group:   f.Group,
			WireKey: f.WireKey,
			Kind:    f.Kind.String(),
			Default: f.Default(),
		})
	}
	return out
}
