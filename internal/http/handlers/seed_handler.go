package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kpcrm/backend/internal/dto"
	"github.com/kpcrm/backend/internal/service"
)

// SeedHandler обрабатывает запросы для генерации демонстрационных данных.
type SeedHandler struct {
	seedService *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// Seed генерирует демонстрационные данные: клиентов, шаблоны и предложения.
// POST /api/seed
func (h *SeedHandler) Seed(c *gin.Context) {
	var req dto.SeedRequest

	// Парсим параметры из query или body
	if c.Request.Method == "GET" {
		numClientsStr := c.DefaultQuery("num_clients", "10")
		numProposalsStr := c.DefaultQuery("num_proposals", "25")

		var err error
		req.NumClients, err = strconv.Atoi(numClientsStr)
		if err != nil || req.NumClients < 1 {
			req.NumClients = 10
		}

		req.NumProposals, err = strconv.Atoi(numProposalsStr)
		if err != nil || req.NumProposals < 1 {
			req.NumProposals = 25
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if req.NumClients < 1 {
			req.NumClients = 10
		}
		if req.NumProposals < 1 {
			req.NumProposals = 25
		}
	}

	if req.NumClients > 200 {
		req.NumClients = 200
	}
	if req.NumProposals > 1000 {
		req.NumProposals = 1000
	}

	if err := h.seedService.SeedData(c.Request.Context(), req.NumClients, req.NumProposals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate seed data",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Seed data generated successfully",
		"num_clients":   req.NumClients,
		"num_proposals": req.NumProposals,
	})
}
