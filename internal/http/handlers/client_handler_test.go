package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClientHandler_GetClient_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ClientHandler{clients: nil}
	r.GET("/clients/:id", handler.GetClient)

	req, _ := http.NewRequest("GET", "/clients/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientHandler_CreateClient_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ClientHandler{clients: nil}
	r.POST("/clients", handler.CreateClient)

	req, _ := http.NewRequest("POST", "/clients", strings.NewReader("{не json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientHandler_CreateClient_MissingName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ClientHandler{clients: nil}
	r.POST("/clients", handler.CreateClient)

	req, _ := http.NewRequest("POST", "/clients", strings.NewReader(`{"company":"ООО Ромашка"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientHandler_UpdateClient_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ClientHandler{clients: nil}
	r.PUT("/clients/:id", handler.UpdateClient)

	req, _ := http.NewRequest("PUT", "/clients/invalid-uuid", strings.NewReader(`{"name":"Иван"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientHandler_DeleteClient_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ClientHandler{clients: nil}
	r.DELETE("/clients/:id", handler.DeleteClient)

	req, _ := http.NewRequest("DELETE", "/clients/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
