package dto

// ClientRequest represents the request to create or update a client
type ClientRequest struct {
	Name    string  `json:"name" binding:"required"`
	Company *string `json:"company"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Notes   *string `json:"notes"`
}

// TemplateRequest represents the request to create or update a template
type TemplateRequest struct {
	Name string `json:"name" binding:"required"`
	Body string `json:"body" binding:"required"`
}

// CostItemRequest represents a single cost line of a proposal
type CostItemRequest struct {
	Label  string  `json:"label" binding:"required"`
	Amount float64 `json:"amount"`
}

// ProposalFields carries the editable proposal fields shared by create,
// update and preview requests
type ProposalFields struct {
	Title         string            `json:"title" binding:"required"`
	Summary       *string           `json:"summary"`
	Body          string            `json:"body"`
	Objectives    *string           `json:"objectives"`
	ScopeText     *string           `json:"scope_text"`
	Deliverables  *string           `json:"deliverables"`
	TechStack     *string           `json:"tech_stack"`
	WorkPlan      *string           `json:"work_plan"`
	CostBreakdown *string           `json:"cost_breakdown"`
	CostItems     []CostItemRequest `json:"cost_items"`
	ValidityDays  int               `json:"validity_days"`
	Amount        *float64          `json:"amount"`
	Currency      string            `json:"currency"`
}

// CreateProposalRequest represents the request to create a proposal
type CreateProposalRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	ProposalFields
}

// UpdateProposalRequest represents the request to update a proposal
type UpdateProposalRequest struct {
	ProposalFields
}

// UpdateProposalStatusRequest represents the request to change proposal status
type UpdateProposalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RenderProposalRequest represents the request to render a proposal body
// from a template
type RenderProposalRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
	OnMissing  string `json:"on_missing"`
}

// PreviewProposalRequest represents the request to render a template
// against form data without persisting anything
type PreviewProposalRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
	ClientID   string `json:"client_id" binding:"required"`
	OnMissing  string `json:"on_missing"`
	ProposalFields
}

// SeedRequest represents the request to fill the database with demo data
type SeedRequest struct {
	NumClients   int `json:"num_clients"`
	NumProposals int `json:"num_proposals"`
}
