package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTemplateHandler_GetTemplate_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &TemplateHandler{templates: nil}
	r.GET("/templates/:id", handler.GetTemplate)

	req, _ := http.NewRequest("GET", "/templates/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateHandler_CreateTemplate_MissingBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &TemplateHandler{templates: nil}
	r.POST("/templates", handler.CreateTemplate)

	req, _ := http.NewRequest("POST", "/templates", strings.NewReader(`{"name":"КП"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateHandler_UploadTemplate_NoFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &TemplateHandler{templates: nil}
	r.POST("/templates/upload", handler.UploadTemplate)

	req, _ := http.NewRequest("POST", "/templates/upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "поле file обязательно")
}

func TestTemplateHandler_UploadTemplate_BadExtension(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &TemplateHandler{templates: nil}
	r.POST("/templates/upload", handler.UploadTemplate)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "template.txt")
	if err != nil {
		t.Fatalf("не удалось собрать multipart: %v", err)
	}
	if _, err := part.Write([]byte("<p>тело</p>")); err != nil {
		t.Fatalf("не удалось записать файл: %v", err)
	}
	mw.Close()

	req, _ := http.NewRequest("POST", "/templates/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "неподдерживаемый формат файла")
}

func TestTemplateHandler_UpdateTemplate_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &TemplateHandler{templates: nil}
	r.PUT("/templates/:id", handler.UpdateTemplate)

	req, _ := http.NewRequest("PUT", "/templates/invalid-uuid", strings.NewReader(`{"name":"КП","body":"<p>x</p>"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateHandler_DeleteTemplate_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &TemplateHandler{templates: nil}
	r.DELETE("/templates/:id", handler.DeleteTemplate)

	req, _ := http.NewRequest("DELETE", "/templates/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
