// Package form keeps the state of one partner form being edited: the flat
// values, the sales-area modal, pending registry lookups and field errors.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
	"github.com/Werneck0live/cadastro-parceiros/internal/catalog"
	"github.com/Werneck0live/cadastro-parceiros/internal/lookup"
	"github.com/Werneck0live/cadastro-parceiros/internal/utils"
)

type Mode string

const (
	ModeNew  Mode = "new"
	ModeEdit Mode = "edit"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldType    = errors.New("invalid value for field")
	ErrNoSalesArea  = errors.New("no sales area selected")
)

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

type Draft struct {
	ID     string          `bson:"_id" json:"id"`
	OrgID  string          `bson:"org_id" json:"org_id"`
	BPID   string          `bson:"bp_id,omitempty" json:"bp_id,omitempty"`
	Mode   Mode            `bson:"mode" json:"mode"`
	Values bp.FormValues   `bson:"values" json:"values"`
	Editor SalesAreaEditor `bson:"editor" json:"editor"`
	// erros por campo da última validação
	Errors      ValidationErrors      `bson:"errors,omitempty" json:"errors,omitempty"`
	Diagnostics bp.Diagnostics        `bson:"diagnostics" json:"diagnostics"`
	Lookups     map[lookup.Kind]int64 `bson:"lookups" json:"-"`
	// termoPesquisa1 ainda é o derivado do nome
	SearchTermAuto bool `bson:"search_term_auto" json:"-"`

	Version     int64      `bson:"version" json:"version"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	SubmittedAt *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
}

// NewDraft abre um formulário em branco.
func NewDraft(orgID string) *Draft {
	ts := now()
	return &Draft{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Mode:      ModeNew,
		Values:    bp.NewFormValues(),
		Lookups:   map[lookup.Kind]int64{},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// LoadDraft hidrata o formulário uma única vez a partir do GET do parceiro.
func LoadDraft(orgID, bpID string, raw []byte) *Draft {
	d := NewDraft(orgID)
	d.BPID = bpID
	d.Mode = ModeEdit
	d.Values, d.Diagnostics = bp.MapAPIToFormWithDiagnostics(raw)
	return d
}

func (d *Draft) touch() { d.UpdatedAt = now() }

// SetField altera um campo plano pelo nome do catálogo. Textos aceitam
// string, número ou null; checkboxes aceitam bool; funcao aceita lista de
// códigos.
func (d *Draft) SetField(name string, value any) error {
	f, ok := catalog.ByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	switch f.Kind {
	case catalog.KindString:
		s, err := textValue(name, value)
		if err != nil {
			return err
		}
		d.setText(name, s)
	case catalog.KindFlag:
		b, err := flagValue(name, value)
		if err != nil {
			return err
		}
		d.Values.SetFlag(name, b)
	case catalog.KindRoles:
		roles, err := roleValues(value)
		if err != nil {
			return err
		}
		d.Values.Funcao = roles
	default:
		// lista e índice só mudam pelo editor de áreas de vendas
		return fmt.Errorf("%w: %q is managed by the sales-area editor", ErrFieldType, name)
	}

	delete(d.Errors, name)
	d.touch()
	return nil
}

func (d *Draft) setText(name, s string) {
	switch name {
	case "tipo":
		if t, err := bp.ParseTipo(s); err == nil {
			s = t
		}
	case "termoPesquisa1":
		d.SearchTermAuto = false
	}
	d.Values.SetString(name, s)
	if name == "nome" {
		d.deriveSearchTerm()
	}
}

// deriveSearchTerm preenche termoPesquisa1 enquanto o usuário não o editou.
func (d *Draft) deriveSearchTerm() {
	if d.Values.TermoPesquisa1 != "" && !d.SearchTermAuto {
		return
	}
	d.Values.TermoPesquisa1 = utils.SearchTerm(d.Values.Nome)
	d.SearchTermAuto = d.Values.TermoPesquisa1 != ""
}

// SetSalesAreaField edita ao vivo o item selecionado.
func (d *Draft) SetSalesAreaField(name string, value any) error {
	f, ok := catalog.SalesAreaField(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	item := d.Values.CurrentPtr()
	if item == nil {
		return ErrNoSalesArea
	}

	var v any
	var err error
	if f.Kind == catalog.KindFlag {
		v, err = flagValue(name, value)
	} else {
		v, err = textValue(name, value)
	}
	if err != nil {
		return err
	}
	item.Set(name, v)
	d.touch()
	return nil
}

func textValue(name string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64, json.Number, int, int64:
		return bp.Safe(v), nil
	default:
		return "", fmt.Errorf("%w: %q wants text, got %T", ErrFieldType, name, value)
	}
}

func flagValue(name string, value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		// "X" / "" vindos de telas antigas
		if v == bp.BackendTrue || v == bp.BackendFalse {
			return v == bp.BackendTrue, nil
		}
	}
	return false, fmt.Errorf("%w: %q wants a boolean", ErrFieldType, name)
}

func roleValues(value any) ([]string, error) {
	var codes []string
	switch v := value.(type) {
	case nil:
	case []string:
		codes = v
	case []any:
		for _, it := range v {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("%w: funcao wants a list of codes", ErrFieldType)
			}
			codes = append(codes, s)
		}
	default:
		return nil, fmt.Errorf("%w: funcao wants a list of codes", ErrFieldType)
	}

	out := []string{}
	seen := map[string]bool{}
	for _, c := range codes {
		r, err := bp.ParseRole(c)
		if err != nil {
			return nil, err
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out, nil
}

// Payload valida e devolve o corpo snake_case para o POST/PUT do parceiro,
// junto com o que o mapper não conseguiu normalizar.
func (d *Draft) Payload() ([]byte, bp.Diagnostics, error) {
	if err := d.Validate(); err != nil {
		return nil, bp.Diagnostics{}, err
	}
	return bp.EncodePayloadWithDiagnostics(d.Values)
}

// MarkSubmitted registra o envio; um rascunho novo passa a editar o BP criado.
func (d *Draft) MarkSubmitted(bpID string) {
	ts := now()
	d.SubmittedAt = &ts
	if bpID != "" {
		d.BPID = bpID
		d.Mode = ModeEdit
	}
	d.UpdatedAt = ts
}
