package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEvent - событие для живой ленты дашборда. События не
// сохраняются в базе и живут только в WebSocket рассылке.
type ActivityEvent struct {
	Type     string    `json:"type"`
	EntityID uuid.UUID `json:"entity_id"`
	Title    string    `json:"title"`
	At       time.Time `json:"at"`
}

// Типы событий ленты активности
const (
	ActivityClientCreated         = "client_created"
	ActivityTemplateCreated       = "template_created"
	ActivityProposalCreated       = "proposal_created"
	ActivityProposalStatusChanged = "proposal_status_changed"
	ActivityProposalExported      = "proposal_exported"
)
