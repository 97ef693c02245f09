package models

import (
	"time"

	"github.com/google/uuid"
)

// Template описывает переиспользуемый шаблон коммерческого предложения:
// HTML с плейсхолдерами вида {{ client_name }}. Variables заполняется
// сервисом при каждой записи тела.
type Template struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Body      string    `db:"body" json:"body"`
	Variables []string  `db:"variables" json:"variables"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
