package dto

import (
	"github.com/kpcrm/backend/internal/models"
)

// ProposalListResponse represents a paginated proposals list
type ProposalListResponse struct {
	Data       []models.Proposal `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// ClientListResponse represents a paginated clients list
type ClientListResponse struct {
	Data       []models.Client `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// TemplateListResponse represents a paginated templates list
type TemplateListResponse struct {
	Data       []models.Template `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// Pagination represents pagination metadata
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// PreviewResponse represents a rendered preview body
type PreviewResponse struct {
	Body string `json:"body"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}
