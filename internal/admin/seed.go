package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Werneck0live/cadastro-parceiros/internal/form"
	"github.com/Werneck0live/cadastro-parceiros/internal/repository"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

//go:embed seeds/partners.json
var partnersJSON []byte

type seedItem struct {
	OrgID    string          `json:"org_id"`
	BPID     string          `json:"bp_id"`
	Resource json.RawMessage `json:"resource"`
}

type DraftInserter interface {
	Insert(ctx context.Context, d *form.Draft) error
}

// SeedDrafts abre um rascunho de edição para cada parceiro de exemplo.
// Idempotente: cria se não existir; se já existir, ignora.
func SeedDrafts(ctx context.Context, repo DraftInserter, log *slog.Logger) error {
	return seed(ctx, partnersJSON, repo, log)
}

func seed(ctx context.Context, raw []byte, repo DraftInserter, log *slog.Logger) error {
	var items []seedItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}

	created := 0
	for _, s := range items {
		d := form.LoadDraft(s.OrgID, s.BPID, s.Resource)
		if doc := utils.OnlyDigits(d.Values.CNPJ); doc != "" && !utils.ValidateCNPJ(doc) {
			log.Warn("seed_skip_invalid_cnpj", "bp_id", s.BPID, "raw", d.Values.CNPJ)
			continue
		}
		if d.Diagnostics.HasIssues() {
			log.Warn("seed_mapping_issues", "bp_id", s.BPID, "issues", len(d.Diagnostics.Issues))
		}

		// timeout curto por item pra não travar
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := repo.Insert(ictx, d)
		cancel()

		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				log.Info("seed_draft_exists", "bp_id", s.BPID)
				continue
			}
			return err
		}
		created++
		log.Info("seed_draft_created", "bp_id", s.BPID, "draft_id", d.ID)
	}

	log.Info("seed_drafts_done", "count", len(items), "created", created)
	return nil
}
