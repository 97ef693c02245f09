package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kpcrm/backend/internal/models"
)

// ErrClientNotFound возвращается, когда клиент не найден.
var ErrClientNotFound = errors.New("client not found")

// ClientRepository отвечает за работу с таблицей clients.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository создаёт экземпляр репозитория.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create сохраняет нового клиента.
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (name, company, email, phone, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		client.Name, client.Company, client.Email, client.Phone, client.Notes,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt); err != nil {
		return fmt.Errorf("client repository: create %w", err)
	}

	return nil
}

// GetByID возвращает клиента по идентификатору.
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	query := `
		SELECT id, name, company, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("client repository: get by id %w", err)
	}

	return &client, nil
}

// List возвращает клиентов, отсортированных по имени, вместе с числом
// предложений каждого.
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]models.Client, error) {
	query := `
		SELECT c.id, c.name, c.company, c.email, c.phone, c.notes, c.created_at, c.updated_at,
			COUNT(p.id) AS proposals_count
		FROM clients c
		LEFT JOIN proposals p ON p.client_id = c.id
		GROUP BY c.id
		ORDER BY c.name
		LIMIT $1 OFFSET $2
	`

	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, query, limit, offset); err != nil {
		return nil, fmt.Errorf("client repository: list %w", err)
	}

	return clients, nil
}

// Update обновляет данные клиента.
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $2, company = $3, email = $4, phone = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		client.ID, client.Name, client.Company, client.Email, client.Phone, client.Notes,
	).Scan(&client.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrClientNotFound
		}
		return fmt.Errorf("client repository: update %w", err)
	}

	return nil
}

// Delete удаляет клиента. Его предложения удаляются каскадно на уровне
// схемы.
func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("client repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("client repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}
