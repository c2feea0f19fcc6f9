package handlers

import (
	"context"

	"github.com/Werneck0live/cadastro-parceiros/internal/form"
	"github.com/Werneck0live/cadastro-parceiros/internal/lookup"
	"github.com/Werneck0live/cadastro-parceiros/internal/models"
)

type DraftStore interface {
	Insert(ctx context.Context, d *form.Draft) error
	Get(ctx context.Context, id string) (*form.Draft, error)
	FindByBP(ctx context.Context, orgID, bpID string) (*form.Draft, error)
	List(ctx context.Context, orgID string, limit, skip int64) ([]form.Draft, error)
	Update(ctx context.Context, d *form.Draft) error
	Delete(ctx context.Context, id string) error
}

type Publisher interface {
	PublishEvent(ctx context.Context, e models.Event) error
}

// PartnerAPI é a API dona dos cadastros.
type PartnerAPI interface {
	Get(ctx context.Context, orgID, bpID string) ([]byte, error)
	Create(ctx context.Context, orgID string, payload []byte) (string, error)
	Update(ctx context.Context, orgID, bpID string, payload []byte) error
}

// Registry consulta CEP, CNPJ e CPF em serviços públicos.
type Registry interface {
	CEP(ctx context.Context, cep string) (lookup.Address, error)
	CNPJ(ctx context.Context, cnpj string) (lookup.Company, error)
	CPF(ctx context.Context, cpf string) (lookup.Person, error)
}
