package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Proposal описывает коммерческое предложение. Body хранит полностью
// разрешённый HTML: после рендера предложение самодостаточно и не зависит
// от дальнейших правок шаблона или клиента.
type Proposal struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	ClientID      uuid.UUID       `db:"client_id" json:"client_id"`
	TemplateID    *uuid.UUID      `db:"template_id" json:"template_id,omitempty"`
	Title         string          `db:"title" json:"title"`
	Summary       *string         `db:"summary" json:"summary,omitempty"`
	Body          string          `db:"body" json:"body"`
	Status        string          `db:"status" json:"status"`
	Objectives    *string         `db:"objectives" json:"objectives,omitempty"`
	ScopeText     *string         `db:"scope_text" json:"scope_text,omitempty"`
	Deliverables  *string         `db:"deliverables" json:"deliverables,omitempty"`
	TechStack     *string         `db:"tech_stack" json:"tech_stack,omitempty"`
	WorkPlan      *string         `db:"work_plan" json:"work_plan,omitempty"`
	CostBreakdown *string         `db:"cost_breakdown" json:"cost_breakdown,omitempty"`
	CostItems     json.RawMessage `db:"cost_items" json:"cost_items,omitempty"`
	ValidityDays  int             `db:"validity_days" json:"validity_days"`
	Amount        *float64        `db:"amount" json:"amount,omitempty"`
	Currency      string          `db:"currency" json:"currency"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	// ClientName заполняется списочными запросами через JOIN.
	ClientName *string `db:"client_name" json:"client_name,omitempty"`
}

// CostItem - строка сметы внутри Proposal.CostItems.
type CostItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}
