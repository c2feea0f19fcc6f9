package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Werneck0live/cadastro-parceiros/internal/form"
	"github.com/Werneck0live/cadastro-parceiros/internal/metrics"
	"github.com/Werneck0live/cadastro-parceiros/internal/models"
	"github.com/Werneck0live/cadastro-parceiros/internal/repository"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

const (
	requestTimeout  = 5 * time.Second
	upstreamTimeout = 20 * time.Second
	// regravações do envio quando outro pedido mexeu no rascunho
	submitRetries = 3
)

type DraftHandler struct {
	Repo     DraftStore
	Pub      Publisher
	Partners PartnerAPI
	Registry Registry
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}

func NewDraftHandler(repo DraftStore, pub Publisher, partners PartnerAPI, registry Registry, m *metrics.Metrics) *DraftHandler {
	return &DraftHandler{
		Repo:     repo,
		Pub:      pub,
		Partners: partners,
		Registry: registry,
		Metrics:  m,
		Log:      slog.Default().With("cmp", "handlers"),
	}
}

func (h *DraftHandler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

// Routes registra todas as rotas da API no router.
func (h *DraftHandler) Routes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog/fields", h.CatalogFields).Methods(http.MethodGet)
	api.HandleFunc("/catalog/options/{list}", h.CatalogOptions).Methods(http.MethodGet)
	api.HandleFunc("/mapping/form", h.MapToForm).Methods(http.MethodPost)
	api.HandleFunc("/mapping/payload", h.MapToPayload).Methods(http.MethodPost)

	api.HandleFunc("/organizations/{orgId}/drafts", h.ListDrafts).Methods(http.MethodGet)
	api.HandleFunc("/organizations/{orgId}/drafts", h.CreateDraft).Methods(http.MethodPost)
	api.HandleFunc("/organizations/{orgId}/bps/{bpId}/drafts", h.LoadDraft).Methods(http.MethodPost)

	api.HandleFunc("/drafts/{id}", h.GetDraft).Methods(http.MethodGet)
	api.HandleFunc("/drafts/{id}", h.DeleteDraft).Methods(http.MethodDelete)
	api.HandleFunc("/drafts/{id}/fields", h.PatchField).Methods(http.MethodPatch)
	api.HandleFunc("/drafts/{id}/sales-areas", h.InsertSalesArea).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{id}/sales-areas/cancel", h.CancelSalesArea).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{id}/sales-areas/confirm", h.ConfirmSalesArea).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{id}/sales-areas/current", h.PatchSalesArea).Methods(http.MethodPatch)
	api.HandleFunc("/drafts/{id}/sales-areas/{index:[0-9]+}/open", h.OpenSalesArea).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{id}/sales-areas/{index:[0-9]+}", h.RemoveSalesArea).Methods(http.MethodDelete)
	api.HandleFunc("/drafts/{id}/lookups/{kind}", h.Lookup).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{id}/submit", h.Submit).Methods(http.MethodPost)
}

func (h *DraftHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// mutate carrega o rascunho, aplica fn e grava com checagem de versão.
// Em erro a resposta já foi escrita.
func (h *DraftHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(d *form.Draft) error) (*form.Draft, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	d, err := h.Repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	if err := fn(d); err != nil {
		h.writeError(w, err)
		return nil, false
	}
	if err := h.Repo.Update(ctx, d); err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return d, true
}

func (h *DraftHandler) publish(e models.Event) {
	if h.Pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := h.Pub.PublishEvent(ctx, e)
	h.Metrics.ObserveEvent(string(e.Type), err)
	if err != nil {
		h.logger().Warn("event_publish_failed", "type", e.Type, "draft_id", e.DraftID, "err", err)
	}
}

func draftEvent(t models.EventType, d *form.Draft, summary string) models.Event {
	e := models.NewEvent(t, d.ID, d.OrgID)
	e.BPID = d.BPID
	e.Summary = summary
	return e
}

// displayName escolhe o nome a exibir nos eventos.
func displayName(d *form.Draft) string {
	switch {
	case d.Values.NomeFantasia != "":
		return d.Values.NomeFantasia
	case d.Values.Nome != "":
		return d.Values.Nome
	case d.BPID != "":
		return d.BPID
	default:
		return d.ID
	}
}

func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := int64(50)
	skip := int64(0)
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.ParseInt(l, 10, 64); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if s := q.Get("skip"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 0 {
			skip = v
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	list, err := h.Repo.List(ctx, mux.Vars(r)["orgId"], limit, skip)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]draftView, 0, len(list))
	for i := range list {
		out = append(out, view(&list[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// CreateDraft abre um formulário em branco (modo criação).
func (h *DraftHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	d := form.NewDraft(mux.Vars(r)["orgId"])
	if err := h.Repo.Insert(ctx, d); err != nil {
		h.writeError(w, err)
		return
	}
	h.logger().Info("draft_created", "draft_id", d.ID, "org_id", d.OrgID)
	h.publish(draftEvent(models.EventDraftCreated, d, "Novo cadastro de parceiro"))
	utils.WriteJSON(w, http.StatusCreated, view(d))
}

// LoadDraft abre o formulário de edição de um parceiro existente. Se já
// houver rascunho aberto para ele, devolve o mesmo.
func (h *DraftHandler) LoadDraft(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID, bpID := vars["orgId"], vars["bpId"]

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	existing, err := h.Repo.FindByBP(ctx, orgID, bpID)
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, view(existing))
		return
	case !errors.Is(err, repository.ErrNotFound):
		h.writeError(w, err)
		return
	}

	raw, err := h.Partners.Get(ctx, orgID, bpID)
	if err != nil {
		h.logger().Warn("partner_fetch_failed", "org_id", orgID, "bp_id", bpID, "err", err)
		h.writeError(w, err)
		return
	}

	d := form.LoadDraft(orgID, bpID, raw)
	h.Metrics.ObserveMapping("from_api", d.Diagnostics.Reasons())
	if d.Diagnostics.HasIssues() {
		h.logger().Warn("partner_mapping_issues", "bp_id", bpID,
			"malformed", d.Diagnostics.Malformed, "issues", len(d.Diagnostics.Issues))
	}

	if err := h.Repo.Insert(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// outro pedido abriu o mesmo parceiro no meio do caminho
			if cur, ferr := h.Repo.FindByBP(ctx, orgID, bpID); ferr == nil {
				utils.WriteJSON(w, http.StatusOK, view(cur))
				return
			}
		}
		h.writeError(w, err)
		return
	}
	h.logger().Info("draft_loaded", "draft_id", d.ID, "bp_id", bpID)
	h.publish(draftEvent(models.EventDraftCreated, d, "Edição do parceiro "+displayName(d)))
	utils.WriteJSON(w, http.StatusCreated, view(d))
}

func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	d, err := h.Repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view(d))
}

func (h *DraftHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	// Busca antes de deletar para montar o evento
	d, err := h.Repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Repo.Delete(ctx, d.ID); err != nil {
		h.writeError(w, err)
		return
	}
	h.publish(draftEvent(models.EventDraftDeleted, d, "Rascunho descartado: "+displayName(d)))
	w.WriteHeader(http.StatusNoContent)
}

func (h *DraftHandler) PatchField(w http.ResponseWriter, r *http.Request) {
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
		return d.SetField(dto.Name, dto.Value)
	})
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, view(d))
}

// Submit valida, envia o payload para a API de parceiros (POST na criação,
// PUT na edição) e marca o rascunho como enviado.
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	d, err := h.Repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}

	body, diag, err := d.Payload()
	if err != nil {
		var verrs form.ValidationErrors
		if errors.As(err, &verrs) {
			// guarda os erros por campo para a tela
			if uerr := h.Repo.Update(ctx, d); uerr != nil {
				h.logger().Warn("draft_errors_not_saved", "draft_id", d.ID, "err", uerr)
			}
		}
		h.writeError(w, err)
		return
	}
	h.Metrics.ObserveMapping("to_payload", diag.Reasons())

	bpID := d.BPID
	if d.Mode == form.ModeNew || bpID == "" {
		bpID, err = h.Partners.Create(ctx, d.OrgID, body)
	} else {
		err = h.Partners.Update(ctx, d.OrgID, bpID, body)
	}
	if err != nil {
		h.logger().Error("partner_submit_failed", "draft_id", d.ID, "mode", d.Mode, "err", err)
		h.writeError(w, err)
		return
	}

	d, err = h.markSubmitted(ctx, d, bpID)
	if err != nil {
		// o parceiro já existe na API; o bp_id vai na resposta
		h.logger().Error("draft_mark_submitted_failed", "draft_id", d.ID, "bp_id", bpID, "err", err)
	}
	h.logger().Info("draft_submitted", "draft_id", d.ID, "bp_id", bpID)
	h.publish(draftEvent(models.EventDraftSubmitted, d, "Parceiro "+displayName(d)+" enviado"))
	utils.WriteJSON(w, http.StatusOK, submitView{BPID: bpID, Draft: view(d), Diagnostics: diag})
}

// markSubmitted grava o envio. Um PATCH durante a chamada à API derruba a
// checagem de versão; nesse caso relê o rascunho e reaplica, senão o
// rascunho continuaria "new" e um novo envio criaria o parceiro de novo.
func (h *DraftHandler) markSubmitted(ctx context.Context, d *form.Draft, bpID string) (*form.Draft, error) {
	for attempt := 1; ; attempt++ {
		d.MarkSubmitted(bpID)
		err := h.Repo.Update(ctx, d)
		if err == nil || !errors.Is(err, repository.ErrVersionConflict) || attempt == submitRetries {
			return d, err
		}
		cur, gerr := h.Repo.Get(ctx, d.ID)
		if gerr != nil {
			return d, gerr
		}
		d = cur
	}
}
