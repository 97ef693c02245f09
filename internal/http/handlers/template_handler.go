package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kpcrm/backend/internal/dto"
	"github.com/kpcrm/backend/internal/http/handlers/common"
	"github.com/kpcrm/backend/internal/render"
	"github.com/kpcrm/backend/internal/repository"
	"github.com/kpcrm/backend/internal/service"
	"github.com/kpcrm/backend/internal/validation"
)

// Разрешённые расширения загружаемых шаблонов
var allowedTemplateExtensions = map[string]bool{
	".html": true,
	".htm":  true,
}

// TemplateHandler управляет шаблонами коммерческих предложений.
type TemplateHandler struct {
	templates *service.TemplateService
}

// NewTemplateHandler создаёт новый хэндлер.
func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// CreateTemplate обрабатывает POST /templates.
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req dto.TemplateRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	template, err := h.templates.CreateTemplate(c.Request.Context(), req.Name, req.Body)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// UploadTemplate обрабатывает POST /templates/upload. Принимает HTML-файл
// шаблона; имя можно передать в поле name, иначе берётся имя файла.
func (h *TemplateHandler) UploadTemplate(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поле file обязательно"})
		return
	}

	if file.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "файл не может быть пустым"})
		return
	}
	if file.Size > int64(validation.MaxTemplateBodyLength) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("файл слишком большой, максимум %d байт", validation.MaxTemplateBodyLength),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedTemplateExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неподдерживаемый формат файла. Разрешены: .html, .htm"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не удалось прочитать файл"})
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = strings.TrimSuffix(file.Filename, ext)
	}

	template, err := h.templates.UploadTemplate(c.Request.Context(), name, data)
	if err != nil {
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// ListTemplates обрабатывает GET /templates.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	templates, err := h.templates.ListTemplates(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.TemplateListResponse{
		Data: templates,
		Pagination: dto.Pagination{
			Limit:  limit,
			Offset: offset,
			Count:  len(templates),
		},
	})
}

// GetTemplate обрабатывает GET /templates/:id.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	templateID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор шаблона")
		return
	}

	template, err := h.templates.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			common.RespondNotFound(c, "шаблон не найден")
			return
		}
		common.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateTemplate обрабатывает PUT /templates/:id.
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	templateID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор шаблона")
		return
	}

	var req dto.TemplateRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	template, err := h.templates.UpdateTemplate(c.Request.Context(), templateID, req.Name, req.Body)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			common.RespondNotFound(c, "шаблон не найден")
			return
		}
		respondTemplateError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// DeleteTemplate обрабатывает DELETE /templates/:id. Предложения, созданные
// по шаблону, сохраняются и лишь теряют ссылку на него.
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	templateID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор шаблона")
		return
	}

	if err := h.templates.DeleteTemplate(c.Request.Context(), templateID); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			common.RespondNotFound(c, "шаблон не найден")
			return
		}
		common.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "шаблон удалён"})
}

// respondTemplateError превращает ошибку сервиса шаблонов в HTTP-ответ:
// синтаксическая ошибка плейсхолдеров отдаётся как 422 с позицией.
func respondTemplateError(c *gin.Context, err error) {
	var syntaxErr *render.SyntaxError
	if errors.As(err, &syntaxErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    syntaxErr.Error(),
			"position": syntaxErr.Pos,
		})
		return
	}
	if common.Contains(err.Error(), "template service") {
		common.RespondBadRequest(c, err.Error())
		return
	}
	common.RespondInternalError(c, err.Error())
}
