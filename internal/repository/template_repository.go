package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kpcrm/backend/internal/models"
)

// ErrTemplateNotFound возвращается, когда шаблон не найден.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateRepository отвечает за работу с таблицей templates.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository создаёт экземпляр репозитория.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create сохраняет новый шаблон.
func (r *TemplateRepository) Create(ctx context.Context, t *models.Template) error {
	query := `
		INSERT INTO templates (name, body, variables)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		t.Name, t.Body, pq.Array(t.Variables),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("template repository: create %w", err)
	}

	return nil
}

// GetByID возвращает шаблон по идентификатору.
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var t models.Template
	query := `
		SELECT id, name, body, variables, created_at, updated_at
		FROM templates
		WHERE id = $1
	`
	row := r.db.QueryRowxContext(ctx, query, id)
	if err := row.Scan(&t.ID, &t.Name, &t.Body, pq.Array(&t.Variables), &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("template repository: get by id %w", err)
	}

	return &t, nil
}

// List возвращает шаблоны, свежие сверху.
func (r *TemplateRepository) List(ctx context.Context, limit, offset int) ([]models.Template, error) {
	query := `
		SELECT id, name, body, variables, created_at, updated_at
		FROM templates
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("template repository: list %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Body, pq.Array(&t.Variables), &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("template repository: list scan %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("template repository: list rows %w", err)
	}

	return templates, nil
}

// Update обновляет имя, тело и список переменных шаблона.
func (r *TemplateRepository) Update(ctx context.Context, t *models.Template) error {
	query := `
		UPDATE templates
		SET name = $2, body = $3, variables = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		t.ID, t.Name, t.Body, pq.Array(t.Variables),
	).Scan(&t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("template repository: update %w", err)
	}

	return nil
}

// Delete удаляет шаблон. У предложений, созданных по нему, ссылка
// обнуляется на уровне схемы: их тело уже разрешено.
func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("template repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("template repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}
