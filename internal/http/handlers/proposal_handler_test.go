package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProposalHandler_GetProposal_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil, exports: nil}
	r.GET("/proposals/:id", handler.GetProposal)

	req, _ := http.NewRequest("GET", "/proposals/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_CreateProposal_InvalidClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil, exports: nil}
	r.POST("/proposals", handler.CreateProposal)

	body := `{"client_id":"not-a-uuid","title":"Разработка сайта"}`
	req, _ := http.NewRequest("POST", "/proposals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "client_id содержит некорректный UUID")
}

func TestProposalHandler_CreateProposal_MissingTitle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil, exports: nil}
	r.POST("/proposals", handler.CreateProposal)

	body := `{"client_id":"` + uuid.NewString() + `"}`
	req, _ := http.NewRequest("POST", "/proposals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_ListProposals_InvalidClientFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil, exports: nil}
	r.GET("/proposals", handler.ListProposals)

	req, _ := http.NewRequest("GET", "/proposals?client_id=not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_UpdateStatus_MissingStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil, exports: nil}
	r.PUT("/proposals/:id/status", handler.UpdateStatus)

	proposalID := uuid.New()
	req, _ := http.NewRequest("PUT", "/proposals/"+proposalID.String()+"/status", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_RenderProposal_InvalidTemplateID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil, exports: nil}
	r.POST("/proposals/:id/render", handler.RenderProposal)

	proposalID := uuid.New()
	body := `{"template_id":"not-a-uuid"}`
	req, _ := http.NewRequest("POST", "/proposals/"+proposalID.String()+"/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "template_id содержит некорректный UUID")
}

func TestProposalHandler_PreviewProposal_InvalidClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil, exports: nil}
	r.POST("/proposals/preview", handler.PreviewProposal)

	body := `{"template_id":"` + uuid.NewString() + `","client_id":"oops","title":"Разработка"}`
	req, _ := http.NewRequest("POST", "/proposals/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "client_id содержит некорректный UUID")
}

func TestProposalHandler_ExportProposal_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil, exports: nil}
	r.GET("/proposals/:id/export", handler.ExportProposal)

	req, _ := http.NewRequest("GET", "/proposals/invalid-uuid/export?format=pdf", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_DeleteProposal_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil, exports: nil}
	r.DELETE("/proposals/:id", handler.DeleteProposal)

	req, _ := http.NewRequest("DELETE", "/proposals/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
