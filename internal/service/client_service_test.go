package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kpcrm/backend/internal/models"
	"github.com/kpcrm/backend/internal/repository"
)

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) Create(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	if args.Error(0) == nil {
		client.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *mockClientRepo) List(ctx context.Context, limit, offset int) ([]models.Client, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *mockClientRepo) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *mockClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestClientService_CreateClient_Success(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Client")).Return(nil)

	email := "  Ivan@Example.COM "
	company := "ООО Ромашка"
	client, err := svc.CreateClient(ctx, ClientInput{
		Name:    "  Иван Петров  ",
		Email:   &email,
		Company: &company,
	})

	assert.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, "Иван Петров", client.Name)
	assert.Equal(t, "ivan@example.com", *client.Email)
	assert.Equal(t, "ООО Ромашка", *client.Company)
	assert.Nil(t, client.Phone)
}

func TestClientService_CreateClient_EmptyName(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateClient(ctx, ClientInput{Name: ""})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "имя клиента обязательно")
}

func TestClientService_CreateClient_InvalidEmail(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	email := "not-an-email"
	_, err := svc.CreateClient(ctx, ClientInput{Name: "Иван", Email: &email})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "client service")
}

func TestClientService_CreateClient_InvalidPhone(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	phone := "позвонить после обеда"
	_, err := svc.CreateClient(ctx, ClientInput{Name: "Иван", Phone: &phone})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "телефон содержит недопустимые символы")
}

func TestClientService_CreateClient_EmptyOptionalBecomesNil(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Client")).Return(nil)

	empty := "   "
	client, err := svc.CreateClient(ctx, ClientInput{
		Name:  "Иван",
		Notes: &empty,
	})

	assert.NoError(t, err)
	assert.Nil(t, client.Notes)
}

func TestClientService_UpdateClient_Success(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	clientID := uuid.New()
	stored := &models.Client{ID: clientID, Name: "Старое имя"}

	repo.On("GetByID", ctx, clientID).Return(stored, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.Client")).Return(nil)

	client, err := svc.UpdateClient(ctx, clientID, ClientInput{Name: "Новое имя"})
	assert.NoError(t, err)
	assert.Equal(t, "Новое имя", client.Name)
	assert.Nil(t, client.Email)
}

func TestClientService_UpdateClient_NotFound(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	clientID := uuid.New()
	repo.On("GetByID", ctx, clientID).Return(nil, repository.ErrClientNotFound)

	_, err := svc.UpdateClient(ctx, clientID, ClientInput{Name: "Иван"})
	assert.ErrorIs(t, err, repository.ErrClientNotFound)
}

func TestClientService_ListClients_NormalizesPagination(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	expected := []models.Client{{ID: uuid.New()}}
	repo.On("List", ctx, 20, 0).Return(expected, nil)

	clients, err := svc.ListClients(ctx, 0, -5)
	assert.NoError(t, err)
	assert.Len(t, clients, 1)
	repo.AssertCalled(t, "List", ctx, 20, 0)
}

func TestClientService_DeleteClient(t *testing.T) {
	repo := new(mockClientRepo)
	svc := NewClientService(repo, nil)
	ctx := context.Background()

	clientID := uuid.New()
	repo.On("Delete", ctx, clientID).Return(nil)

	err := svc.DeleteClient(ctx, clientID)
	assert.NoError(t, err)
	repo.AssertCalled(t, "Delete", ctx, clientID)
}
