package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kpcrm/backend/internal/dto"
	"github.com/kpcrm/backend/internal/http/handlers/common"
	"github.com/kpcrm/backend/internal/models"
	"github.com/kpcrm/backend/internal/pdf"
	"github.com/kpcrm/backend/internal/render"
	"github.com/kpcrm/backend/internal/repository"
	"github.com/kpcrm/backend/internal/service"
)

// ProposalHandler управляет коммерческими предложениями: CRUD, статусы,
// рендер по шаблону, предпросмотр и экспорт.
type ProposalHandler struct {
	proposals *service.ProposalService
	exports   *service.ExportService
}

// NewProposalHandler создаёт новый хэндлер.
func NewProposalHandler(proposals *service.ProposalService, exports *service.ExportService) *ProposalHandler {
	return &ProposalHandler{proposals: proposals, exports: exports}
}

// CreateProposal обрабатывает POST /proposals.
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	var req dto.CreateProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		common.RespondBadRequest(c, "client_id содержит некорректный UUID")
		return
	}

	proposal, err := h.proposals.CreateProposal(c.Request.Context(), proposalInput(clientID, req.ProposalFields))
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// ListProposals обрабатывает GET /proposals. Поддерживает фильтры
// client_id и status.
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	params := repository.ProposalListParams{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	}

	if clientIDStr := c.Query("client_id"); clientIDStr != "" {
		clientID, err := uuid.Parse(clientIDStr)
		if err != nil {
			common.RespondBadRequest(c, "client_id содержит некорректный UUID")
			return
		}
		params.ClientID = &clientID
	}

	proposals, err := h.proposals.ListProposals(c.Request.Context(), params)
	if err != nil {
		if common.Contains(err.Error(), "неизвестный статус") {
			common.RespondBadRequest(c, err.Error())
			return
		}
		common.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ProposalListResponse{
		Data: proposals,
		Pagination: dto.Pagination{
			Limit:  limit,
			Offset: offset,
			Count:  len(proposals),
		},
	})
}

// GetProposal обрабатывает GET /proposals/:id.
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор предложения")
		return
	}

	proposal, err := h.proposals.GetProposal(c.Request.Context(), proposalID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// UpdateProposal обрабатывает PUT /proposals/:id. Клиент, шаблон и статус
// через этот маршрут не меняются.
func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор предложения")
		return
	}

	var req dto.UpdateProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	// Клиент берётся из сохранённого предложения, запрос его не задаёт
	existing, err := h.proposals.GetProposal(c.Request.Context(), proposalID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	proposal, err := h.proposals.UpdateProposal(c.Request.Context(), proposalID, proposalInput(existing.ClientID, req.ProposalFields))
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// DeleteProposal обрабатывает DELETE /proposals/:id. Вместе с предложением
// удаляется его PDF из архива экспорта.
func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор предложения")
		return
	}

	if err := h.proposals.DeleteProposal(c.Request.Context(), proposalID); err != nil {
		respondProposalError(c, err)
		return
	}

	_ = h.exports.RemoveArtifacts(c.Request.Context(), proposalID)

	c.JSON(http.StatusOK, gin.H{"message": "предложение удалено"})
}

// UpdateStatus обрабатывает PUT /proposals/:id/status.
func (h *ProposalHandler) UpdateStatus(c *gin.Context) {
	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор предложения")
		return
	}

	var req dto.UpdateProposalStatusRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.proposals.ChangeStatus(c.Request.Context(), proposalID, req.Status)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// RenderProposal обрабатывает POST /proposals/:id/render. Собирает тело
// предложения по шаблону и сохраняет результат.
func (h *ProposalHandler) RenderProposal(c *gin.Context) {
	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор предложения")
		return
	}

	var req dto.RenderProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		common.RespondBadRequest(c, "template_id содержит некорректный UUID")
		return
	}

	proposal, err := h.proposals.RenderProposal(c.Request.Context(), proposalID, templateID, req.OnMissing)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// PreviewProposal обрабатывает POST /proposals/preview. Рендерит шаблон по
// данным формы, ничего не сохраняя.
func (h *ProposalHandler) PreviewProposal(c *gin.Context) {
	var req dto.PreviewProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		common.RespondBadRequest(c, "template_id содержит некорректный UUID")
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		common.RespondBadRequest(c, "client_id содержит некорректный UUID")
		return
	}

	body, err := h.proposals.Preview(c.Request.Context(), templateID, proposalInput(clientID, req.ProposalFields), req.OnMissing)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PreviewResponse{Body: body})
}

// ExportProposal обрабатывает GET /proposals/:id/export. Формат задаётся
// параметром format, по умолчанию pdf.
func (h *ProposalHandler) ExportProposal(c *gin.Context) {
	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор предложения")
		return
	}

	format := c.DefaultQuery("format", models.ExportFormatPDF)

	result, err := h.exports.Export(c.Request.Context(), proposalID, format)
	if err != nil {
		var exportErr *pdf.ExportError
		if errors.As(err, &exportErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": exportErr.Error()})
			return
		}
		if errors.Is(err, repository.ErrProposalNotFound) {
			common.RespondNotFound(c, "предложение не найдено")
			return
		}
		if common.Contains(err.Error(), "неизвестный формат") {
			common.RespondBadRequest(c, err.Error())
			return
		}
		common.RespondInternalError(c, err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// ListRenderVariables обрабатывает GET /render/variables. Возвращает
// справочник переменных, доступных в шаблонах.
func (h *ProposalHandler) ListRenderVariables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"variables": h.proposals.BindingDocs()})
}

// proposalInput переводит поля запроса во входные данные сервиса.
func proposalInput(clientID uuid.UUID, f dto.ProposalFields) service.ProposalInput {
	in := service.ProposalInput{
		ClientID:      clientID,
		Title:         f.Title,
		Summary:       f.Summary,
		Body:          f.Body,
		Objectives:    f.Objectives,
		ScopeText:     f.ScopeText,
		Deliverables:  f.Deliverables,
		TechStack:     f.TechStack,
		WorkPlan:      f.WorkPlan,
		CostBreakdown: f.CostBreakdown,
		ValidityDays:  f.ValidityDays,
		Amount:        f.Amount,
		Currency:      f.Currency,
	}
	for _, item := range f.CostItems {
		in.CostItems = append(in.CostItems, models.CostItem{
			Label:  item.Label,
			Amount: item.Amount,
		})
	}
	return in
}

// respondProposalError переводит ошибку сервиса предложений в HTTP-ответ.
// Синтаксическая ошибка шаблона отдаётся как 422, недопустимый переход
// статуса как 409.
func respondProposalError(c *gin.Context, err error) {
	var syntaxErr *render.SyntaxError
	if errors.As(err, &syntaxErr) {
		payload := gin.H{
			"error":    syntaxErr.Error(),
			"position": syntaxErr.Pos,
		}
		if len(syntaxErr.Missing) > 0 {
			payload["missing"] = syntaxErr.Missing
		}
		c.JSON(http.StatusUnprocessableEntity, payload)
		return
	}

	switch {
	case errors.Is(err, repository.ErrProposalNotFound):
		common.RespondNotFound(c, "предложение не найдено")
	case errors.Is(err, repository.ErrClientNotFound):
		common.RespondNotFound(c, "клиент не найден")
	case errors.Is(err, repository.ErrTemplateNotFound):
		common.RespondNotFound(c, "шаблон не найден")
	case common.Contains(err.Error(), "недопустим"):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case common.Contains(err.Error(), "proposal service"),
		common.Contains(err.Error(), "неизвестный статус"),
		common.Contains(err.Error(), "неизвестная политика"),
		common.Contains(err.Error(), "пустая позиция сметы"):
		common.RespondBadRequest(c, err.Error())
	default:
		common.RespondInternalError(c, err.Error())
	}
}
