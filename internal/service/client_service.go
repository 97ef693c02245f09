package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kpcrm/backend/internal/models"
	"github.com/kpcrm/backend/internal/validation"
)

// ClientRepository описывает зависимости ClientService от слоя хранилища.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, limit, offset int) ([]models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClientService инкапсулирует бизнес-логику работы с клиентами.
type ClientService struct {
	repo ClientRepository
	hub  ActivityBroadcaster
}

// ClientInput содержит поля клиента при создании и обновлении.
type ClientInput struct {
	Name    string
	Company *string
	Email   *string
	Phone   *string
	Notes   *string
}

// NewClientService создаёт сервис клиентов. Рассыльщик событий может быть nil.
func NewClientService(repo ClientRepository, hub ActivityBroadcaster) *ClientService {
	return &ClientService{repo: repo, hub: hub}
}

// CreateClient создаёт клиента.
func (s *ClientService) CreateClient(ctx context.Context, in ClientInput) (*models.Client, error) {
	if err := validateClientInput(in); err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:    strings.TrimSpace(in.Name),
		Company: trimOptional(in.Company),
		Email:   lowerOptional(trimOptional(in.Email)),
		Phone:   trimOptional(in.Phone),
		Notes:   trimOptional(in.Notes),
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	announce(s.hub, models.ActivityClientCreated, client.ID, client.Name)

	return client, nil
}

// GetClient возвращает клиента по ID.
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return s.repo.GetByID(ctx, id)
}

// ListClients возвращает список клиентов со счётчиком предложений.
func (s *ClientService) ListClients(ctx context.Context, limit, offset int) ([]models.Client, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// UpdateClient обновляет данные клиента.
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, in ClientInput) (*models.Client, error) {
	if err := validateClientInput(in); err != nil {
		return nil, err
	}

	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Name = strings.TrimSpace(in.Name)
	client.Company = trimOptional(in.Company)
	client.Email = lowerOptional(trimOptional(in.Email))
	client.Phone = trimOptional(in.Phone)
	client.Notes = trimOptional(in.Notes)

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// DeleteClient удаляет клиента вместе с его предложениями.
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// validateClientInput проверяет поля клиента.
func validateClientInput(in ClientInput) error {
	if err := validation.ValidateClientName(in.Name); err != nil {
		return fmt.Errorf("client service: %w", err)
	}
	if in.Email != nil && *in.Email != "" {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return fmt.Errorf("client service: %w", err)
		}
	}
	if err := validation.ValidateCompany(in.Company); err != nil {
		return fmt.Errorf("client service: %w", err)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return fmt.Errorf("client service: %w", err)
	}
	if err := validation.ValidateNotes(in.Notes); err != nil {
		return fmt.Errorf("client service: %w", err)
	}
	return nil
}

// trimOptional убирает пробелы по краям необязательного поля, пустую строку
// превращает в nil.
func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// lowerOptional приводит необязательное поле к нижнему регистру.
func lowerOptional(value *string) *string {
	if value == nil {
		return nil
	}
	lowered := strings.ToLower(*value)
	return &lowered
}
