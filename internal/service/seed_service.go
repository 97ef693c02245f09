package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jmoiron/sqlx"

	"github.com/kpcrm/backend/internal/models"
	"github.com/kpcrm/backend/internal/repository"
	"github.com/kpcrm/backend/internal/repository/common"
)

// SeedService наполняет базу демонстрационными данными для разработки:
// клиенты, шаблоны с плейсхолдерами и отрендеренные по ним предложения.
type SeedService struct {
	db        *sqlx.DB
	clients   *repository.ClientRepository
	templates *repository.TemplateRepository
	proposals *ProposalService
	tmplSvc   *TemplateService
}

// NewSeedService создаёт сервис генерации демо-данных.
func NewSeedService(db *sqlx.DB, clients *repository.ClientRepository, templates *repository.TemplateRepository, proposals *ProposalService, tmplSvc *TemplateService) *SeedService {
	return &SeedService{
		db:        db,
		clients:   clients,
		templates: templates,
		proposals: proposals,
		tmplSvc:   tmplSvc,
	}
}

// SeedData очищает рабочие таблицы и наполняет их демо-данными.
func (s *SeedService) SeedData(ctx context.Context, numClients, numProposals int) error {
	if err := s.reset(ctx); err != nil {
		return err
	}

	clients, err := s.generateClients(ctx, numClients)
	if err != nil {
		return fmt.Errorf("seed service: failed to generate clients: %w", err)
	}

	templates, err := s.generateTemplates(ctx)
	if err != nil {
		return fmt.Errorf("seed service: failed to generate templates: %w", err)
	}

	if err := s.generateProposals(ctx, clients, templates, numProposals); err != nil {
		return fmt.Errorf("seed service: failed to generate proposals: %w", err)
	}

	return nil
}

// reset удаляет прежние демо-данные одной транзакцией.
func (s *SeedService) reset(ctx context.Context) error {
	return common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, table := range []string{"proposals", "templates", "clients"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("seed service: очистка таблицы %s: %w", table, err)
			}
		}
		return nil
	})
}

// generateClients создаёт демо-клиентов.
func (s *SeedService) generateClients(ctx context.Context, count int) ([]*models.Client, error) {
	names := []string{
		"Александр Иванов", "Мария Петрова", "Дмитрий Смирнов", "Елена Козлова",
		"Сергей Соколов", "Ольга Попова", "Андрей Лебедев", "Наталья Новикова",
		"Максим Морозов", "Татьяна Волкова", "Илья Васильев", "Ирина Павлова",
	}
	companies := []string{
		"ООО Вектор", "Северная Логистика", "СтройИнвест", "Цифровые Решения",
		"Альфа Маркет", "ТехноСфера", "Прайм Консалтинг", "Уральский Металл",
		"Зелёный Город", "МедиаЛайн",
	}
	domains := []string{"gmail.com", "yandex.ru", "mail.ru", "outlook.com"}
	notes := []string{
		"Предпочитает созвоны по вторникам.",
		"Пришёл по рекомендации, чувствителен к срокам.",
		"Просит присылать документы сразу в PDF.",
		"Давний клиент, работаем с 2022 года.",
		"Согласование проходит через финансового директора.",
	}

	var clients []*models.Client
	for i := 0; i < count; i++ {
		name := names[rand.Intn(len(names))]
		company := companies[rand.Intn(len(companies))]
		email := fmt.Sprintf("client%d@%s", rand.Intn(100000), domains[rand.Intn(len(domains))])
		phone := fmt.Sprintf("+7 (9%02d) %03d-%02d-%02d", rand.Intn(100), rand.Intn(1000), rand.Intn(100), rand.Intn(100))

		client := &models.Client{
			Name:    fmt.Sprintf("%s %d", name, i+1),
			Company: &company,
			Email:   &email,
			Phone:   &phone,
		}
		if rand.Float32() > 0.4 {
			note := notes[rand.Intn(len(notes))]
			client.Notes = &note
		}

		if err := s.clients.Create(ctx, client); err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}

		clients = append(clients, client)
	}

	return clients, nil
}

// generateTemplates создаёт демо-шаблоны с плейсхолдерами.
// Тела прогоняются через TemplateService, чтобы переменные извлеклись
// тем же путём, что и в рабочем сценарии.
func (s *SeedService) generateTemplates(ctx context.Context) ([]*models.Template, error) {
	seeds := []struct {
		name string
		body string
	}{
		{
			name: "Разработка под ключ",
			body: `<h1>Коммерческое предложение: {{ proposal_title }}</h1>
<p>Для: {{ client_name }}, {{ client_company }}</p>
<p>Дата: {{ date }}. Предложение действительно до {{ valid_until }}.</p>
<h2>Цели проекта</h2>
<p>{{ objectives }}</p>
<h2>Объём работ</h2>
<p>{{ scope }}</p>
<h2>Результаты</h2>
<p>{{ deliverables }}</p>
<h2>Стоимость</h2>
{{ cost_table }}
<p>Итого: {{ amount }} {{ currency }}</p>`,
		},
		{
			name: "Краткое предложение",
			body: `<h2>{{ proposal_title }}</h2>
<p>Уважаемый(ая) {{ client_name }}!</p>
<p>{{ proposal_summary }}</p>
<p>Технологии: {{ tech_stack }}</p>
<p>План работ: {{ work_plan }}</p>
<p>Стоимость: {{ amount }} {{ currency }}, предложение действует {{ validity_days }} дней.</p>`,
		},
		{
			name: "Поддержка и сопровождение",
			body: `<h1>{{ proposal_title }}</h1>
<p>Компания: {{ client_company }}. Контакт: {{ client_email }}.</p>
<h2>Состав работ</h2>
<p>{{ scope }}</p>
<h2>Детализация стоимости</h2>
<p>{{ cost_breakdown }}</p>
<p>Сформировано {{ date }}.</p>`,
		},
	}

	var templates []*models.Template
	for _, seed := range seeds {
		template, err := s.tmplSvc.CreateTemplate(ctx, seed.name, seed.body)
		if err != nil {
			return nil, fmt.Errorf("failed to create template: %w", err)
		}
		templates = append(templates, template)
	}

	return templates, nil
}

// generateProposals создаёт демо-предложения и рендерит часть из них.
func (s *SeedService) generateProposals(ctx context.Context, clients []*models.Client, templates []*models.Template, count int) error {
	if len(clients) == 0 {
		return fmt.Errorf("no clients available to create proposals")
	}

	titles := []string{
		"Разработка интернет-магазина",
		"Мобильное приложение доставки",
		"Корпоративный портал",
		"Интеграция с 1С",
		"Редизайн сайта компании",
		"Система онлайн-записи",
		"Автоматизация отдела продаж",
		"Чат-бот поддержки клиентов",
	}
	summaries := []string{
		"Предлагаем разработку под ключ с запуском за 8 недель.",
		"Решение закроет приём заявок, оплату и уведомления клиентов.",
		"Проект разбит на три этапа с демонстрацией после каждого.",
		"Команда из трёх специалистов, еженедельные отчёты о прогрессе.",
	}
	objectives := []string{
		"Увеличить поток входящих заявок и упростить их обработку.",
		"Сократить ручной труд менеджеров при оформлении заказов.",
		"Дать клиентам компании удобный канал самообслуживания.",
	}
	scopes := []string{
		"Проектирование, дизайн, разработка, тестирование и запуск.",
		"Анализ требований, прототип, итеративная разработка, обучение сотрудников.",
		"Аудит текущего решения, план миграции, перенос данных, поддержка после запуска.",
	}
	deliverables := []string{
		"Работающая система на продакшене, документация, исходный код.",
		"Развёрнутое приложение, админ-панель, инструкции для операторов.",
	}
	stacks := []string{
		"Go, PostgreSQL, React",
		"Go, PostgreSQL, Vue.js",
		"PHP, MySQL, JavaScript",
	}
	plans := []string{
		"Неделя 1-2: проектирование. Неделя 3-6: разработка. Неделя 7-8: тестирование и запуск.",
		"Этап 1: прототип (2 недели). Этап 2: MVP (4 недели). Этап 3: доработки (2 недели).",
	}

	for i := 0; i < count; i++ {
		client := clients[rand.Intn(len(clients))]

		summary := summaries[rand.Intn(len(summaries))]
		objective := objectives[rand.Intn(len(objectives))]
		scope := scopes[rand.Intn(len(scopes))]
		deliverable := deliverables[rand.Intn(len(deliverables))]
		stack := stacks[rand.Intn(len(stacks))]
		plan := plans[rand.Intn(len(plans))]
		amount := float64(rand.Intn(900000)+100000) / 100.0

		in := ProposalInput{
			ClientID:     client.ID,
			Title:        titles[rand.Intn(len(titles))],
			Summary:      &summary,
			Objectives:   &objective,
			ScopeText:    &scope,
			Deliverables: &deliverable,
			TechStack:    &stack,
			WorkPlan:     &plan,
			CostItems: []models.CostItem{
				{Label: "Проектирование", Amount: amount * 0.2},
				{Label: "Разработка", Amount: amount * 0.6},
				{Label: "Тестирование и запуск", Amount: amount * 0.2},
			},
			ValidityDays: rand.Intn(45) + 15,
			Amount:       &amount,
			Currency:     "RUB",
		}

		proposal, err := s.proposals.CreateProposal(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to create proposal: %w", err)
		}

		// Большую часть предложений сразу рендерим по случайному шаблону
		if len(templates) > 0 && rand.Float32() > 0.25 {
			template := templates[rand.Intn(len(templates))]
			if _, err := s.proposals.RenderProposal(ctx, proposal.ID, template.ID, ""); err != nil {
				return fmt.Errorf("failed to render proposal: %w", err)
			}
		}

		// Часть предложений двигаем по жизненному циклу
		if rand.Float32() > 0.5 {
			if _, err := s.proposals.ChangeStatus(ctx, proposal.ID, models.ProposalStatusSent); err != nil {
				return fmt.Errorf("failed to send proposal: %w", err)
			}
			if rand.Float32() > 0.6 {
				next := models.ProposalStatusAccepted
				if rand.Float32() > 0.5 {
					next = models.ProposalStatusRejected
				}
				if _, err := s.proposals.ChangeStatus(ctx, proposal.ID, next); err != nil {
					return fmt.Errorf("failed to finish proposal: %w", err)
				}
			}
		}
	}

	return nil
}
