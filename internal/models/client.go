package models

import (
	"time"

	"github.com/google/uuid"
)

// Client описывает клиента, для которого готовятся коммерческие предложения.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Company   *string   `db:"company" json:"company,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// ProposalsCount заполняется списочными запросами, в таблице колонки нет.
	ProposalsCount *int `db:"proposals_count" json:"proposals_count,omitempty"`
}
