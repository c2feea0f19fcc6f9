package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Werneck0live/cadastro-parceiros/internal/form"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

// index vem validado pelo regex da rota.
func indexVar(r *http.Request) int {
	i, _ := strconv.Atoi(mux.Vars(r)["index"])
	return i
}

func (h *DraftHandler) InsertSalesArea(w http.ResponseWriter, r *http.Request) {
	var idx int
	d, ok := h.mutate(w, r, func(d *form.Draft) (err error) {
		idx, err = d.InsertSalesArea()
		return err
	})
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusCreated, insertedView{Index: idx, Draft: view(d)})
}

func (h *DraftHandler) OpenSalesArea(w http.ResponseWriter, r *http.Request) {
	d, ok := h.mutate(w, r, func(d *form.Draft) error {
		return d.OpenSalesArea(indexVar(r))
	})
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, view(d))
}

func (h *DraftHandler) CancelSalesArea(w http.ResponseWriter, r *http.Request) {
	d, ok := h.mutate(w, r, func(d *form.Draft) error {
		d.CancelSalesArea()
		return nil
	})
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, view(d))
}

func (h *DraftHandler) ConfirmSalesArea(w http.ResponseWriter, r *http.Request) {
	d, ok := h.mutate(w, r, func(d *form.Draft) error {
		d.ConfirmSalesArea()
		return nil
	})
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, view(d))
}

// PatchSalesArea edita o item selecionado (edição ao vivo, sem staging).
func (h *DraftHandler) PatchSalesArea(w http.ResponseWriter, r *http.Request) {
	var dto FieldDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	if err := validateFieldDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	d, ok := h.mutate(w, r, func(d *form.Draft) error {
		return d.SetSalesAreaField(dto.Name, dto.Value)
	})
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, view(d))
}

func (h *DraftHandler) RemoveSalesArea(w http.ResponseWriter, r *http.Request) {
	d, ok := h.mutate(w, r, func(d *form.Draft) error {
		return d.RemoveSalesArea(indexVar(r))
	})
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, view(d))
}
