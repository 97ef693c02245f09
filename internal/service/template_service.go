package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/kpcrm/backend/internal/models"
	"github.com/kpcrm/backend/internal/render"
	"github.com/kpcrm/backend/internal/sanitize"
	"github.com/kpcrm/backend/internal/validation"
)

// TemplateRepository описывает зависимости TemplateService от слоя хранилища.
type TemplateRepository interface {
	Create(ctx context.Context, template *models.Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	List(ctx context.Context, limit, offset int) ([]models.Template, error)
	Update(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TemplateService инкапсулирует бизнес-логику шаблонов предложений.
// Тело шаблона хранится уже очищенным, список переменных пересчитывается
// при каждой записи.
type TemplateService struct {
	repo TemplateRepository
	hub  ActivityBroadcaster
}

// NewTemplateService создаёт сервис шаблонов.
func NewTemplateService(repo TemplateRepository, hub ActivityBroadcaster) *TemplateService {
	return &TemplateService{repo: repo, hub: hub}
}

// CreateTemplate создаёт шаблон. Тело очищается, плейсхолдеры извлекаются;
// синтаксическая ошибка в плейсхолдерах не даёт сохранить шаблон.
func (s *TemplateService) CreateTemplate(ctx context.Context, name, body string) (*models.Template, error) {
	template, err := s.buildTemplate(name, body)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, err
	}

	announce(s.hub, models.ActivityTemplateCreated, template.ID, template.Name)

	return template, nil
}

// UploadTemplate создаёт шаблон из загруженного HTML-файла.
// Бинарные файлы отклоняются по магическим байтам до разбора тела.
func (s *TemplateService) UploadTemplate(ctx context.Context, name string, data []byte) (*models.Template, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("template service: файл пуст")
	}

	// Проверяем магические байты: у текстовых файлов известного типа нет
	kind, err := filetype.Match(data)
	if err == nil && kind != filetype.Unknown {
		return nil, fmt.Errorf("template service: ожидается HTML-файл, получен %s", kind.Extension)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("template service: файл не является текстом в UTF-8")
	}

	return s.CreateTemplate(ctx, name, string(data))
}

// GetTemplate возвращает шаблон по ID.
func (s *TemplateService) GetTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	return s.repo.GetByID(ctx, id)
}

// ListTemplates возвращает список шаблонов.
func (s *TemplateService) ListTemplates(ctx context.Context, limit, offset int) ([]models.Template, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// UpdateTemplate обновляет шаблон, заново очищая тело и пересчитывая
// переменные.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id uuid.UUID, name, body string) (*models.Template, error) {
	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildTemplate(name, body)
	if err != nil {
		return nil, err
	}

	template.Name = updated.Name
	template.Body = updated.Body
	template.Variables = updated.Variables

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

// DeleteTemplate удаляет шаблон. Уже созданные по нему предложения
// сохраняют своё тело: ссылка на шаблон в них обнуляется на уровне базы.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// buildTemplate валидирует поля и собирает модель с очищенным телом и
// извлечёнными переменными.
func (s *TemplateService) buildTemplate(name, body string) (*models.Template, error) {
	if err := validation.ValidateTemplateName(name); err != nil {
		return nil, fmt.Errorf("template service: %w", err)
	}
	if err := validation.ValidateTemplateBody(body); err != nil {
		return nil, fmt.Errorf("template service: %w", err)
	}

	clean := sanitize.Fragment(body)

	vars, err := render.Vars(clean)
	if err != nil {
		return nil, fmt.Errorf("template service: %w", err)
	}

	return &models.Template{
		Name:      strings.TrimSpace(name),
		Body:      clean,
		Variables: vars,
	}, nil
}
