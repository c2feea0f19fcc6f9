package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Werneck0live/cadastro-parceiros/internal/form"
	"github.com/Werneck0live/cadastro-parceiros/internal/lookup"
	"github.com/Werneck0live/cadastro-parceiros/internal/models"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

func currentDocument(d *form.Draft, kind lookup.Kind) string {
	switch kind {
	case lookup.KindCEP:
		return d.Values.Cep
	case lookup.KindCNPJ:
		return d.Values.CNPJ
	default:
		return d.Values.CPF
	}
}

// Lookup consulta CEP/CNPJ/CPF e preenche o formulário. O ticket fica
// gravado antes da consulta; uma resposta atrasada de uma consulta
// anterior do mesmo tipo é descartada (409).
func (h *DraftHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	kind := lookup.Kind(mux.Vars(r)["kind"])
	if !kind.Valid() {
		utils.WriteError(w, http.StatusNotFound, "unknown lookup "+string(kind))
		return
	}

	var dto LookupDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}

	var (
		ticket form.Ticket
		value  = strings.TrimSpace(dto.Value)
	)
	d, ok := h.mutate(w, r, func(d *form.Draft) error {
		if value == "" {
			value = strings.TrimSpace(currentDocument(d, kind))
		}
		if value == "" {
			return errNothingToLookUp
		}
		ticket = d.BeginLookup(kind)
		return nil
	})
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	var apply func(d *form.Draft) error
	var err error
	switch kind {
	case lookup.KindCEP:
		var a lookup.Address
		a, err = h.Registry.CEP(ctx, value)
		apply = func(d *form.Draft) error { return d.ApplyCEP(ticket, a) }
	case lookup.KindCNPJ:
		var c lookup.Company
		c, err = h.Registry.CNPJ(ctx, value)
		apply = func(d *form.Draft) error { return d.ApplyCNPJ(ticket, c) }
	case lookup.KindCPF:
		var p lookup.Person
		p, err = h.Registry.CPF(ctx, value)
		apply = func(d *form.Draft) error { return d.ApplyCPF(ticket, p) }
	}
	if err != nil {
		h.logger().Warn("lookup_failed", "draft_id", d.ID, "kind", kind, "err", err)
		h.writeError(w, err)
		return
	}

	d, ok = h.mutate(w, r, apply)
	if !ok {
		return
	}
	h.publish(draftEvent(models.EventLookupApplied, d, "Consulta de "+strings.ToUpper(string(kind))+" aplicada").
		With("kind", string(kind)))
	utils.WriteJSON(w, http.StatusOK, view(d))
}
