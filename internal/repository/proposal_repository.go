package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kpcrm/backend/internal/models"
)

// ErrProposalNotFound возвращается, когда предложение не найдено.
var ErrProposalNotFound = errors.New("proposal not found")

// ProposalRepository отвечает за работу с таблицей proposals.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт экземпляр репозитория.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create сохраняет новое предложение.
func (r *ProposalRepository) Create(ctx context.Context, p *models.Proposal) error {
	query := `
		INSERT INTO proposals (
			client_id, template_id, title, summary, body, status,
			objectives, scope_text, deliverables, tech_stack, work_plan,
			cost_breakdown, cost_items, validity_days, amount, currency
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		p.ClientID, p.TemplateID, p.Title, p.Summary, p.Body, p.Status,
		p.Objectives, p.ScopeText, p.Deliverables, p.TechStack, p.WorkPlan,
		p.CostBreakdown, p.CostItems, p.ValidityDays, p.Amount, p.Currency,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("proposal repository: create %w", err)
	}

	return nil
}

// GetByID возвращает предложение по идентификатору.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	query := `
		SELECT id, client_id, template_id, title, summary, body, status,
			objectives, scope_text, deliverables, tech_stack, work_plan,
			cost_breakdown, cost_items, validity_days, amount, currency,
			created_at, updated_at
		FROM proposals
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id %w", err)
	}

	return &p, nil
}

// ProposalListParams задаёт фильтры списка предложений.
type ProposalListParams struct {
	ClientID *uuid.UUID
	Status   string
	Limit    int
	Offset   int
}

// List возвращает предложения с именем клиента, свежие сверху.
func (r *ProposalRepository) List(ctx context.Context, params ProposalListParams) ([]models.Proposal, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if params.ClientID != nil {
		args = append(args, *params.ClientID)
		conditions = append(conditions, fmt.Sprintf("p.client_id = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT p.id, p.client_id, p.template_id, p.title, p.summary, p.body, p.status,
			p.objectives, p.scope_text, p.deliverables, p.tech_stack, p.work_plan,
			p.cost_breakdown, p.cost_items, p.validity_days, p.amount, p.currency,
			p.created_at, p.updated_at,
			c.name AS client_name
		FROM proposals p
		JOIN clients c ON c.id = p.client_id
		%s
		ORDER BY p.updated_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	var proposals []models.Proposal
	if err := r.db.SelectContext(ctx, &proposals, query, args...); err != nil {
		return nil, fmt.Errorf("proposal repository: list %w", err)
	}

	return proposals, nil
}

// Update обновляет редактируемые поля предложения.
func (r *ProposalRepository) Update(ctx context.Context, p *models.Proposal) error {
	query := `
		UPDATE proposals
		SET title = $2, summary = $3, body = $4,
			objectives = $5, scope_text = $6, deliverables = $7, tech_stack = $8,
			work_plan = $9, cost_breakdown = $10, cost_items = $11,
			validity_days = $12, amount = $13, currency = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		p.ID, p.Title, p.Summary, p.Body,
		p.Objectives, p.ScopeText, p.Deliverables, p.TechStack,
		p.WorkPlan, p.CostBreakdown, p.CostItems,
		p.ValidityDays, p.Amount, p.Currency,
	).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProposalNotFound
		}
		return fmt.Errorf("proposal repository: update %w", err)
	}

	return nil
}

// UpdateBody сохраняет разрешённое тело и ссылку на шаблон, по которому
// оно получено.
func (r *ProposalRepository) UpdateBody(ctx context.Context, id uuid.UUID, body string, templateID *uuid.UUID) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE proposals SET body = $2, template_id = $3, updated_at = NOW() WHERE id = $1`,
		id, body, templateID,
	)
	if err != nil {
		return fmt.Errorf("proposal repository: update body %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: update body rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrProposalNotFound
	}

	return nil
}

// UpdateStatus меняет статус предложения.
func (r *ProposalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE proposals SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("proposal repository: update status %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: update status rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrProposalNotFound
	}

	return nil
}

// Delete удаляет предложение.
func (r *ProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("proposal repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrProposalNotFound
	}

	return nil
}
