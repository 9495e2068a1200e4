package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"

	"submission-service/internal/config"
	"submission-service/internal/models"
	"submission-service/internal/services"
	"submission-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService services.IDocumentService
	middleware      *Middleware
	uploadCfg       config.UploadConfig
}

func NewDocumentHandler(documentService services.IDocumentService, middleware *Middleware, uploadCfg config.UploadConfig) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, middleware: middleware, uploadCfg: uploadCfg}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.Engine) {
	apiGr := router.Group("/api")
	apiGr.POST("/preview-application", h.PreviewApplication)
	apiGr.POST("/form-submissions", h.middleware.UploadRateLimit(), h.SubmitDocuments)
}

func (h *DocumentHandler) PreviewApplication(c *gin.Context) {
	var req models.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	pdf, err := h.documentService.Preview(c.Request.Context(), req.FormData, req.SerialNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// SubmitDocuments accepts files under any field name. Every file is checked
// before the form is processed.
func (h *DocumentHandler) SubmitDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "multipart form expected")
		return
	}

	headers := collectFiles(form)
	for _, fh := range headers {
		if err := utils.ValidateFile(fh, h.uploadCfg.AllowedMIMEType, h.uploadCfg.MaxFileMB); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	raw := c.PostForm("formData")
	if raw == "" {
		raw = "{}"
	}
	var formData models.FormData
	if err := json.Unmarshal([]byte(raw), &formData); err != nil {
		badRequest(c, "formData must be valid JSON")
		return
	}

	files := make([]services.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readFile(fh)
		if err != nil {
			slog.Error("failed to read uploaded file", "file", fh.Filename, "error", err)
			respondError(c, err)
			return
		}
		files = append(files, services.UploadedFile{
			Filename:    fh.Filename,
			ContentType: utils.FileContentType(fh),
			Size:        fh.Size,
			Data:        data,
		})
	}

	result, err := h.documentService.Submit(c.Request.Context(), services.DocumentSubmission{
		SerialNumber: c.PostForm("serialNumber"),
		FormData:     formData,
		Files:        files,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"data":            result.Submission,
		"generatedPdfUrl": result.GeneratedPDFURL,
	})
}

// collectFiles flattens the form's files in field-name order.
func collectFiles(form *multipart.Form) []*multipart.FileHeader {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var headers []*multipart.FileHeader
	for _, field := range fields {
		headers = append(headers, form.File[field]...)
	}
	return headers
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
