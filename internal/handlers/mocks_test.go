package handlers

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"

	"github.com/Werneck0live/cadastro-parceiros/internal/form"
	"github.com/Werneck0live/cadastro-parceiros/internal/lookup"
	"github.com/Werneck0live/cadastro-parceiros/internal/models"
	"github.com/Werneck0live/cadastro-parceiros/internal/repository"
)

// memRepo guarda cópias dos rascunhos e imita a checagem de versão do Mongo.
// Os *Err forçam falhas.
type memRepo struct {
	mu     sync.Mutex
	drafts map[string]*form.Draft

	InsertErr error
	UpdateErr error
	updates   int
}

func newMemRepo(ds ...*form.Draft) *memRepo {
	m := &memRepo{drafts: map[string]*form.Draft{}}
	for _, d := range ds {
		d.Version = 1
		m.drafts[d.ID] = cloneDraft(d)
	}
	return m
}

func cloneDraft(d *form.Draft) *form.Draft {
	c := *d
	c.Values = d.Values.Clone()
	c.Lookups = maps.Clone(d.Lookups)
	c.Errors = maps.Clone(d.Errors)
	return &c
}

func (m *memRepo) Insert(_ context.Context, d *form.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	for _, cur := range m.drafts {
		if d.BPID != "" && cur.OrgID == d.OrgID && cur.BPID == d.BPID {
			return repository.ErrDuplicate
		}
	}
	d.Version = 1
	m.drafts[d.ID] = cloneDraft(d)
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (*form.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneDraft(d), nil
}

func (m *memRepo) FindByBP(_ context.Context, orgID, bpID string) (*form.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.drafts {
		if d.OrgID == orgID && d.BPID == bpID {
			return cloneDraft(d), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) List(_ context.Context, orgID string, limit, skip int64) ([]form.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []form.Draft{}
	for _, d := range m.drafts {
		if d.OrgID == orgID {
			out = append(out, *cloneDraft(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if skip >= int64(len(out)) {
		return []form.Draft{}, nil
	}
	out = out[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, d *form.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cur, ok := m.drafts[d.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != d.Version {
		return repository.ErrVersionConflict
	}
	d.Version++
	m.drafts[d.ID] = cloneDraft(d)
	m.updates++
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.drafts, id)
	return nil
}

func (m *memRepo) stored(id string) *form.Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drafts[id]
}

type pubMock struct {
	mu        sync.Mutex
	events    []models.Event
	PublishFn func(ctx context.Context, e models.Event) error
}

func (p *pubMock) PublishEvent(ctx context.Context, e models.Event) error {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
	if p.PublishFn == nil {
		return nil
	}
	return p.PublishFn(ctx, e)
}

func (p *pubMock) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type partnerMock struct {
	GetFn    func(ctx context.Context, orgID, bpID string) ([]byte, error)
	CreateFn func(ctx context.Context, orgID string, payload []byte) (string, error)
	UpdateFn func(ctx context.Context, orgID, bpID string, payload []byte) error
}

func (m *partnerMock) Get(ctx context.Context, orgID, bpID string) ([]byte, error) {
	if m.GetFn == nil {
		return nil, errors.New("GetFn not set")
	}
	return m.GetFn(ctx, orgID, bpID)
}

func (m *partnerMock) Create(ctx context.Context, orgID string, payload []byte) (string, error) {
	if m.CreateFn == nil {
		return "", errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, orgID, payload)
}

func (m *partnerMock) Update(ctx context.Context, orgID, bpID string, payload []byte) error {
	if m.UpdateFn == nil {
		return errors.New("UpdateFn not set")
	}
	return m.UpdateFn(ctx, orgID, bpID, payload)
}

type registryMock struct {
	CEPFn  func(ctx context.Context, cep string) (lookup.Address, error)
	CNPJFn func(ctx context.Context, cnpj string) (lookup.Company, error)
	CPFFn  func(ctx context.Context, cpf string) (lookup.Person, error)
}

func (m *registryMock) CEP(ctx context.Context, cep string) (lookup.Address, error) {
	if m.CEPFn == nil {
		return lookup.Address{}, errors.New("CEPFn not set")
	}
	return m.CEPFn(ctx, cep)
}

func (m *registryMock) CNPJ(ctx context.Context, cnpj string) (lookup.Company, error) {
	if m.CNPJFn == nil {
		return lookup.Company{}, errors.New("CNPJFn not set")
	}
	return m.CNPJFn(ctx, cnpj)
}

func (m *registryMock) CPF(ctx context.Context, cpf string) (lookup.Person, error) {
	if m.CPFFn == nil {
		return lookup.Person{}, errors.New("CPFFn not set")
	}
	return m.CPFFn(ctx, cpf)
}
