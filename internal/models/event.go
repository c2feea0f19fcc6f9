package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventDraftCreated   EventType = "draft.created"
	EventDraftSubmitted EventType = "draft.submitted"
	EventDraftDeleted   EventType = "draft.deleted"
	EventLookupApplied  EventType = "lookup.applied"
)

// Event é o que vai para a fila e chega aos clientes do websocket.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	DraftID    string            `json:"draft_id"`
	OrgID      string            `json:"org_id"`
	BPID       string            `json:"bp_id,omitempty"`
	Summary    string            `json:"summary"` // texto curto para exibição
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewEvent(t EventType, draftID, orgID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		DraftID:    draftID,
		OrgID:      orgID,
		OccurredAt: time.Now().UTC(),
	}
}

// With devolve uma cópia com a chave extra em Data.
func (e Event) With(k, v string) Event {
	data := make(map[string]string, len(e.Data)+1)
	for dk, dv := range e.Data {
		data[dk] = dv
	}
	data[k] = v
	e.Data = data
	return e
}

// Headers replica os campos de roteamento nos headers da mensagem.
func (e Event) Headers() map[string]any {
	h := map[string]any{
		"event_id":  e.ID,
		"type":      string(e.Type),
		"draft_id":  e.DraftID,
		"org_id":    e.OrgID,
		"timestamp": e.OccurredAt.Format(time.RFC3339),
	}
	if e.BPID != "" {
		h["bp_id"] = e.BPID
	}
	return h
}
