package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kpcrm/backend/internal/models"
	"github.com/kpcrm/backend/internal/render"
	"github.com/kpcrm/backend/internal/repository"
	"github.com/kpcrm/backend/internal/sanitize"
	"github.com/kpcrm/backend/internal/validation"
)

// ProposalRepository описывает зависимости ProposalService от слоя хранилища.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	List(ctx context.Context, params repository.ProposalListParams) ([]models.Proposal, error)
	Update(ctx context.Context, proposal *models.Proposal) error
	UpdateBody(ctx context.Context, id uuid.UUID, body string, templateID *uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClientReader описывает минимальный контракт чтения клиентов.
type ClientReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

// TemplateReader описывает минимальный контракт чтения шаблонов.
type TemplateReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

// ProposalService содержит бизнес-логику коммерческих предложений:
// жизненный цикл, сборку переменных и рендер тела по шаблону.
type ProposalService struct {
	repo      ProposalRepository
	clients   ClientReader
	templates TemplateReader
	engine    *render.Engine
	hub       ActivityBroadcaster
}

// NewProposalService создаёт сервис предложений.
func NewProposalService(repo ProposalRepository, clients ClientReader, templates TemplateReader, engine *render.Engine, hub ActivityBroadcaster) *ProposalService {
	return &ProposalService{
		repo:      repo,
		clients:   clients,
		templates: templates,
		engine:    engine,
		hub:       hub,
	}
}

// ProposalInput содержит поля предложения при создании и обновлении.
type ProposalInput struct {
	ClientID      uuid.UUID
	Title         string
	Summary       *string
	Body          string
	Objectives    *string
	ScopeText     *string
	Deliverables  *string
	TechStack     *string
	WorkPlan      *string
	CostBreakdown *string
	CostItems     []models.CostItem
	ValidityDays  int
	Amount        *float64
	Currency      string
}

// CreateProposal создаёт предложение в статусе черновика.
func (s *ProposalService) CreateProposal(ctx context.Context, in ProposalInput) (*models.Proposal, error) {
	if err := validateProposalInput(in); err != nil {
		return nil, err
	}

	// Клиент обязателен: предложение без адресата не имеет смысла
	client, err := s.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	costItems, err := marshalCostItems(in.CostItems)
	if err != nil {
		return nil, err
	}

	proposal := &models.Proposal{
		ClientID:      client.ID,
		Title:         strings.TrimSpace(in.Title),
		Summary:       trimOptional(in.Summary),
		Body:          sanitize.Fragment(in.Body),
		Status:        models.ProposalStatusDraft,
		Objectives:    trimOptional(in.Objectives),
		ScopeText:     trimOptional(in.ScopeText),
		Deliverables:  trimOptional(in.Deliverables),
		TechStack:     trimOptional(in.TechStack),
		WorkPlan:      trimOptional(in.WorkPlan),
		CostBreakdown: trimOptional(in.CostBreakdown),
		CostItems:     costItems,
		ValidityDays:  in.ValidityDays,
		Amount:        in.Amount,
		Currency:      in.Currency,
	}

	if proposal.ValidityDays == 0 {
		proposal.ValidityDays = models.DefaultValidityDays
	}
	if proposal.Currency == "" {
		proposal.Currency = models.DefaultCurrency
	}

	if err := s.repo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	announce(s.hub, models.ActivityProposalCreated, proposal.ID, proposal.Title)

	return proposal, nil
}

// GetProposal возвращает предложение по ID.
func (s *ProposalService) GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProposals возвращает предложения с фильтрами по клиенту и статусу.
func (s *ProposalService) ListProposals(ctx context.Context, params repository.ProposalListParams) ([]models.Proposal, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Status != "" {
		if _, ok := models.ValidProposalStatuses[params.Status]; !ok {
			return nil, fmt.Errorf("proposal service: неизвестный статус %q", params.Status)
		}
	}
	return s.repo.List(ctx, params)
}

// UpdateProposal обновляет редактируемые поля предложения. Клиент, статус
// и ссылка на шаблон этим методом не меняются.
func (s *ProposalService) UpdateProposal(ctx context.Context, id uuid.UUID, in ProposalInput) (*models.Proposal, error) {
	if err := validateProposalInput(in); err != nil {
		return nil, err
	}

	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	costItems, err := marshalCostItems(in.CostItems)
	if err != nil {
		return nil, err
	}

	proposal.Title = strings.TrimSpace(in.Title)
	proposal.Summary = trimOptional(in.Summary)
	proposal.Body = sanitize.Fragment(in.Body)
	proposal.Objectives = trimOptional(in.Objectives)
	proposal.ScopeText = trimOptional(in.ScopeText)
	proposal.Deliverables = trimOptional(in.Deliverables)
	proposal.TechStack = trimOptional(in.TechStack)
	proposal.WorkPlan = trimOptional(in.WorkPlan)
	proposal.CostBreakdown = trimOptional(in.CostBreakdown)
	proposal.CostItems = costItems
	proposal.Amount = in.Amount

	if in.ValidityDays != 0 {
		proposal.ValidityDays = in.ValidityDays
	}
	if in.Currency != "" {
		proposal.Currency = in.Currency
	}

	if err := s.repo.Update(ctx, proposal); err != nil {
		return nil, err
	}

	return proposal, nil
}

// DeleteProposal удаляет предложение.
func (s *ProposalService) DeleteProposal(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ChangeStatus переводит предложение в новый статус, проверяя допустимость
// перехода.
func (s *ProposalService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*models.Proposal, error) {
	if _, ok := models.ValidProposalStatuses[status]; !ok {
		return nil, fmt.Errorf("proposal service: неизвестный статус %q", status)
	}

	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(proposal.Status, status) {
		return nil, fmt.Errorf("proposal service: переход из статуса %q в %q недопустим", proposal.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	proposal.Status = status

	announce(s.hub, models.ActivityProposalStatusChanged, proposal.ID, proposal.Title)

	return proposal, nil
}

// RenderProposal применяет шаблон к предложению и сохраняет разрешённое
// тело. Ошибка рендера не меняет предложение.
func (s *ProposalService) RenderProposal(ctx context.Context, id, templateID uuid.UUID, policyOverride string) (*models.Proposal, error) {
	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, proposal.ClientID)
	if err != nil {
		return nil, err
	}

	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	policy, err := s.resolvePolicy(policyOverride)
	if err != nil {
		return nil, err
	}

	rendered, err := s.engine.RenderWith(template.Body, bindings(client, proposal), policy)
	if err != nil {
		return nil, err
	}

	body := sanitize.Fragment(rendered)
	if err := s.repo.UpdateBody(ctx, id, body, &template.ID); err != nil {
		return nil, err
	}

	proposal.Body = body
	proposal.TemplateID = &template.ID

	return proposal, nil
}

// Preview рендерит шаблон по данным формы, ничего не сохраняя.
func (s *ProposalService) Preview(ctx context.Context, templateID uuid.UUID, in ProposalInput, policyOverride string) (string, error) {
	if err := validateProposalInput(in); err != nil {
		return "", err
	}

	client, err := s.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return "", err
	}

	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return "", err
	}

	policy, err := s.resolvePolicy(policyOverride)
	if err != nil {
		return "", err
	}

	costItems, err := marshalCostItems(in.CostItems)
	if err != nil {
		return "", err
	}

	draft := &models.Proposal{
		ClientID:      client.ID,
		Title:         strings.TrimSpace(in.Title),
		Summary:       trimOptional(in.Summary),
		Objectives:    trimOptional(in.Objectives),
		ScopeText:     trimOptional(in.ScopeText),
		Deliverables:  trimOptional(in.Deliverables),
		TechStack:     trimOptional(in.TechStack),
		WorkPlan:      trimOptional(in.WorkPlan),
		CostBreakdown: trimOptional(in.CostBreakdown),
		CostItems:     costItems,
		ValidityDays:  in.ValidityDays,
		Amount:        in.Amount,
		Currency:      in.Currency,
	}
	if draft.ValidityDays == 0 {
		draft.ValidityDays = models.DefaultValidityDays
	}
	if draft.Currency == "" {
		draft.Currency = models.DefaultCurrency
	}

	rendered, err := s.engine.RenderWith(template.Body, bindings(client, draft), policy)
	if err != nil {
		return "", err
	}

	return sanitize.Fragment(rendered), nil
}

// BindingDoc описывает одну переменную, доступную в шаблонах.
type BindingDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BindingDocs возвращает справочник переменных шаблона.
func (s *ProposalService) BindingDocs() []BindingDoc {
	return []BindingDoc{
		{Name: "client_name", Description: "имя клиента"},
		{Name: "client_company", Description: "компания клиента"},
		{Name: "client_email", Description: "email клиента"},
		{Name: "client_phone", Description: "телефон клиента"},
		{Name: "proposal_title", Description: "заголовок предложения"},
		{Name: "proposal_summary", Description: "краткое описание"},
		{Name: "objectives", Description: "цели проекта"},
		{Name: "scope", Description: "объём работ"},
		{Name: "deliverables", Description: "результаты работ"},
		{Name: "tech_stack", Description: "используемые технологии"},
		{Name: "work_plan", Description: "план работ"},
		{Name: "cost_breakdown", Description: "детализация стоимости"},
		{Name: "cost_table", Description: "смета в виде HTML-таблицы"},
		{Name: "amount", Description: "итоговая сумма"},
		{Name: "currency", Description: "валюта"},
		{Name: "validity_days", Description: "срок действия в днях"},
		{Name: "valid_until", Description: "дата окончания действия"},
		{Name: "date", Description: "дата формирования"},
	}
}

// resolvePolicy выбирает политику подстановки: из запроса или движка.
func (s *ProposalService) resolvePolicy(override string) (render.MissingPolicy, error) {
	if override == "" {
		return s.engine.Policy(), nil
	}
	policy, err := render.ParsePolicy(override)
	if err != nil {
		return "", fmt.Errorf("proposal service: %w", err)
	}
	return policy, nil
}

// bindings собирает карту переменных шаблона из клиента и предложения.
// Незаполненные необязательные поля в карту не попадают: при политике
// error это позволяет увидеть, каких данных не хватает.
func bindings(client *models.Client, p *models.Proposal) map[string]string {
	now := time.Now()
	vars := map[string]string{
		"client_name":    client.Name,
		"proposal_title": p.Title,
		"currency":       p.Currency,
		"validity_days":  strconv.Itoa(p.ValidityDays),
		"valid_until":    now.AddDate(0, 0, p.ValidityDays).Format("02.01.2006"),
		"date":           now.Format("02.01.2006"),
	}

	setOptional(vars, "client_company", client.Company)
	setOptional(vars, "client_email", client.Email)
	setOptional(vars, "client_phone", client.Phone)
	setOptional(vars, "proposal_summary", p.Summary)
	setOptional(vars, "objectives", p.Objectives)
	setOptional(vars, "scope", p.ScopeText)
	setOptional(vars, "deliverables", p.Deliverables)
	setOptional(vars, "tech_stack", p.TechStack)
	setOptional(vars, "work_plan", p.WorkPlan)
	setOptional(vars, "cost_breakdown", p.CostBreakdown)

	if p.Amount != nil {
		vars["amount"] = formatAmount(*p.Amount)
	}

	if items := unmarshalCostItems(p.CostItems); len(items) > 0 {
		vars["cost_table"] = costTable(items, p.Currency)
	}

	return vars
}

// setOptional добавляет переменную, если значение задано и непусто.
func setOptional(vars map[string]string, name string, value *string) {
	if value == nil {
		return
	}
	if v := strings.TrimSpace(*value); v != "" {
		vars[name] = v
	}
}

// costTable строит HTML-таблицу сметы с итоговой строкой.
func costTable(items []models.CostItem, currency string) string {
	var (
		b     strings.Builder
		total float64
	)

	b.WriteString("<table><thead><tr><th>Позиция</th><th>Сумма</th></tr></thead><tbody>")
	for _, item := range items {
		total += item.Amount
		b.WriteString("<tr><td>")
		b.WriteString(html.EscapeString(item.Label))
		b.WriteString("</td><td>")
		b.WriteString(formatAmount(item.Amount))
		b.WriteString(" ")
		b.WriteString(html.EscapeString(currency))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody><tfoot><tr><td>Итого</td><td>")
	b.WriteString(formatAmount(total))
	b.WriteString(" ")
	b.WriteString(html.EscapeString(currency))
	b.WriteString("</td></tr></tfoot></table>")

	return b.String()
}

// formatAmount выводит сумму с двумя знаками после запятой.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// marshalCostItems проверяет и сериализует смету.
func marshalCostItems(items []models.CostItem) (json.RawMessage, error) {
	for i, item := range items {
		if strings.TrimSpace(item.Label) == "" {
			return nil, fmt.Errorf("proposal service: пустая позиция сметы (строка %d)", i+1)
		}
		if item.Amount < 0 {
			return nil, fmt.Errorf("proposal service: отрицательная сумма в смете (строка %d)", i+1)
		}
	}

	if items == nil {
		items = []models.CostItem{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("proposal service: не удалось сериализовать смету: %w", err)
	}

	return raw, nil
}

// unmarshalCostItems читает смету из JSONB-поля. Повреждённые данные
// трактуются как отсутствие сметы.
func unmarshalCostItems(raw json.RawMessage) []models.CostItem {
	if len(raw) == 0 {
		return nil
	}
	var items []models.CostItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// transitionAllowed проверяет допустимость перехода между статусами.
func transitionAllowed(from, to string) bool {
	for _, allowed := range models.ProposalStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// validateProposalInput проверяет поля предложения.
func validateProposalInput(in ProposalInput) error {
	if in.ClientID == uuid.Nil {
		return fmt.Errorf("proposal service: клиент обязателен")
	}
	if err := validation.ValidateProposalTitle(in.Title); err != nil {
		return fmt.Errorf("proposal service: %w", err)
	}
	if err := validation.ValidateAmount(in.Amount); err != nil {
		return fmt.Errorf("proposal service: %w", err)
	}
	if err := validation.ValidateCurrency(in.Currency); err != nil {
		return fmt.Errorf("proposal service: %w", err)
	}
	if in.ValidityDays != 0 {
		if err := validation.ValidateValidityDays(in.ValidityDays); err != nil {
			return fmt.Errorf("proposal service: %w", err)
		}
	}

	sections := []struct {
		name  string
		value *string
	}{
		{"краткое описание", in.Summary},
		{"цели проекта", in.Objectives},
		{"объём работ", in.ScopeText},
		{"результаты работ", in.Deliverables},
		{"технологии", in.TechStack},
		{"план работ", in.WorkPlan},
		{"детализация стоимости", in.CostBreakdown},
	}
	for _, section := range sections {
		if err := validation.ValidateSection(section.name, section.value); err != nil {
			return fmt.Errorf("proposal service: %w", err)
		}
	}

	return nil
}
