package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kpcrm/backend/internal/dto"
	"github.com/kpcrm/backend/internal/http/handlers/common"
	"github.com/kpcrm/backend/internal/repository"
	"github.com/kpcrm/backend/internal/service"
)

type ClientHandler struct {
	clients *service.ClientService
}

// NewClientHandler создаёт новый хэндлер.
func NewClientHandler(clients *service.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// CreateClient обрабатывает POST /clients.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.ClientRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	client, err := h.clients.CreateClient(c.Request.Context(), service.ClientInput{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		if common.Contains(err.Error(), "client service") {
			common.RespondBadRequest(c, err.Error())
			return
		}
		common.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, client)
}

// ListClients обрабатывает GET /clients.
func (h *ClientHandler) ListClients(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	clients, err := h.clients.ListClients(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ClientListResponse{
		Data: clients,
		Pagination: dto.Pagination{
			Limit:  limit,
			Offset: offset,
			Count:  len(clients),
		},
	})
}

// GetClient обрабатывает GET /clients/:id.
func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор клиента")
		return
	}

	client, err := h.clients.GetClient(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			common.RespondNotFound(c, "клиент не найден")
			return
		}
		common.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient обрабатывает PUT /clients/:id.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор клиента")
		return
	}

	var req dto.ClientRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	client, err := h.clients.UpdateClient(c.Request.Context(), clientID, service.ClientInput{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			common.RespondNotFound(c, "клиент не найден")
			return
		}
		if common.Contains(err.Error(), "client service") {
			common.RespondBadRequest(c, err.Error())
			return
		}
		common.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient обрабатывает DELETE /clients/:id. Вместе с клиентом каскадно
// удаляются все его предложения.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор клиента")
		return
	}

	if err := h.clients.DeleteClient(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			common.RespondNotFound(c, "клиент не найден")
			return
		}
		common.RespondInternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "клиент удалён"})
}
