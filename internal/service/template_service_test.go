package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kpcrm/backend/internal/models"
	"github.com/kpcrm/backend/internal/render"
)

type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) Create(ctx context.Context, template *models.Template) error {
	args := m.Called(ctx, template)
	if args.Error(0) == nil {
		template.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}

func (m *mockTemplateRepo) List(ctx context.Context, limit, offset int) ([]models.Template, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Template), args.Error(1)
}

func (m *mockTemplateRepo) Update(ctx context.Context, template *models.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestTemplateService_CreateTemplate_Success(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Template")).Return(nil)

	body := `<p>Здравствуйте, {{ client_name }}!</p><p>Смета: {{ cost_table }}</p>`
	template, err := svc.CreateTemplate(ctx, "Коммерческое предложение", body)

	assert.NoError(t, err)
	assert.NotNil(t, template)
	assert.Equal(t, []string{"client_name", "cost_table"}, template.Variables)
	assert.Contains(t, template.Body, "{{ client_name }}")
}

func TestTemplateService_CreateTemplate_SanitizesBody(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Template")).Return(nil)

	body := `<p onclick="steal()">Привет, {{ client_name }}</p><script>alert(1)</script>`
	template, err := svc.CreateTemplate(ctx, "Опасный шаблон", body)

	assert.NoError(t, err)
	assert.NotContains(t, template.Body, "<script")
	assert.NotContains(t, template.Body, "onclick")
	assert.Contains(t, template.Body, "{{ client_name }}")
}

func TestTemplateService_CreateTemplate_DuplicateVariablesDeduplicated(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Template")).Return(nil)

	body := `{{ total }} и ещё раз {{ client_name }}, потом снова {{ total }}`
	template, err := svc.CreateTemplate(ctx, "Шаблон", body)

	assert.NoError(t, err)
	assert.Equal(t, []string{"total", "client_name"}, template.Variables)
}

func TestTemplateService_CreateTemplate_SyntaxError(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, "Сломанный", "<p>Привет, {{ client_name</p>")
	assert.Error(t, err)

	var syntaxErr *render.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTemplateService_CreateTemplate_EmptyName(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, "", "<p>тело</p>")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "название шаблона обязательно")
}

func TestTemplateService_CreateTemplate_EmptyBody(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, "Шаблон", "   ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "тело шаблона обязательно")
}

func TestTemplateService_UploadTemplate_Success(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Template")).Return(nil)

	data := []byte(`<html><body><h1>{{ proposal_title }}</h1></body></html>`)
	template, err := svc.UploadTemplate(ctx, "Из файла", data)

	assert.NoError(t, err)
	assert.Equal(t, []string{"proposal_title"}, template.Variables)
}

func TestTemplateService_UploadTemplate_RejectsBinary(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	// Магические байты PNG
	data := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	_, err := svc.UploadTemplate(ctx, "картинка", data)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ожидается HTML-файл")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTemplateService_UploadTemplate_RejectsInvalidUTF8(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	_, err := svc.UploadTemplate(ctx, "мусор", []byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestTemplateService_UploadTemplate_Empty(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	_, err := svc.UploadTemplate(ctx, "пустой", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "файл пуст")
}

func TestTemplateService_UpdateTemplate_RecalculatesVariables(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	templateID := uuid.New()
	stored := &models.Template{
		ID:        templateID,
		Name:      "Старый",
		Body:      "<p>{{ old_var }}</p>",
		Variables: []string{"old_var"},
	}

	repo.On("GetByID", ctx, templateID).Return(stored, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.Template")).Return(nil)

	template, err := svc.UpdateTemplate(ctx, templateID, "Новый", "<p>{{ new_var }}</p>")
	assert.NoError(t, err)
	assert.Equal(t, "Новый", template.Name)
	assert.Equal(t, []string{"new_var"}, template.Variables)
	assert.False(t, strings.Contains(template.Body, "old_var"))
}

func TestTemplateService_ListTemplates_NormalizesPagination(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	repo.On("List", ctx, 20, 0).Return([]models.Template{}, nil)

	_, err := svc.ListTemplates(ctx, 500, -1)
	assert.NoError(t, err)
	repo.AssertCalled(t, "List", ctx, 20, 0)
}

func TestTemplateService_DeleteTemplate(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, nil)
	ctx := context.Background()

	templateID := uuid.New()
	repo.On("Delete", ctx, templateID).Return(nil)

	assert.NoError(t, svc.DeleteTemplate(ctx, templateID))
}
