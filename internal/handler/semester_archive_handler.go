package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/critcoin/critcoin-api/internal/dto"
	"github.com/critcoin/critcoin-api/internal/middleware"
	"github.com/critcoin/critcoin-api/internal/models"
	"github.com/critcoin/critcoin-api/internal/service"
	appErrors "github.com/critcoin/critcoin-api/pkg/errors"
	"github.com/critcoin/critcoin-api/pkg/response"
)

type semesterArchiveService interface {
	Preview(ctx context.Context, proof dto.AdminProof) (*models.LiveCounts, error)
	Create(ctx context.Context, req dto.CreateSemesterArchiveRequest) (*models.SemesterArchive, error)
	ClearCurrent(ctx context.Context, req dto.ClearCurrentSemesterRequest) (*models.ClearedCounts, error)
	Update(ctx context.Context, req dto.UpdateSemesterArchiveRequest) (*models.SemesterArchiveSummary, error)
	Delete(ctx context.Context, req dto.DeleteSemesterArchiveRequest) error
	List(ctx context.Context, query dto.SemesterArchiveListQuery) ([]models.SemesterArchiveSummary, *models.Pagination, bool, error)
	Get(ctx context.Context, id string) (*models.SemesterArchive, bool, error)
	GetSection(ctx context.Context, id, section string) (json.RawMessage, error)
}

type semesterArchiveExporter interface {
	Export(ctx context.Context, id, section, format string) (*service.ArchiveExport, error)
}

// SemesterArchiveHandler serves semester archive endpoints.
type SemesterArchiveHandler struct {
	service  semesterArchiveService
	exporter semesterArchiveExporter
}

// NewSemesterArchiveHandler constructs the handler.
func NewSemesterArchiveHandler(service semesterArchiveService, exporter semesterArchiveExporter) *SemesterArchiveHandler {
	return &SemesterArchiveHandler{service: service, exporter: exporter}
}

// Preview godoc
// @Summary Preview live data counts before archiving
// @Tags Archives
// @Produce json
// @Param message query string true "URL-encoded signed admin message"
// @Param signature query string true "Admin signature"
// @Param adminWallet query string false "Claimed admin wallet"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /archive/preview [get]
func (h *SemesterArchiveHandler) Preview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "archive service not configured"))
		return
	}
	var proof dto.AdminProof
	if err := c.ShouldBindQuery(&proof); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	counts, err := h.service.Preview(c.Request.Context(), proof)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// Create godoc
// @Summary Archive the current semester
// @Tags Archives
// @Accept json
// @Produce json
// @Param payload body dto.CreateSemesterArchiveRequest true "Archive name and admin proof"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /archive/create [post]
func (h *SemesterArchiveHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "archive service not configured"))
		return
	}
	var req dto.CreateSemesterArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid archive payload"))
		return
	}
	archive, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, archive)
}

// ClearCurrent godoc
// @Summary Delete all live semester data except the admin profile
// @Tags Archives
// @Accept json
// @Produce json
// @Param payload body dto.ClearCurrentSemesterRequest true "Confirmation and admin proof"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /archive/clear-current [post]
func (h *SemesterArchiveHandler) ClearCurrent(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "archive service not configured"))
		return
	}
	var req dto.ClearCurrentSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid clear payload"))
		return
	}
	counts, err := h.service.ClearCurrent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ClearCurrentSemesterResponse{Deleted: *counts}, nil)
}

// Update godoc
// @Summary Edit archive name or description
// @Tags Archives
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSemesterArchiveRequest true "Archive changes and admin proof"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /archive/update [post]
func (h *SemesterArchiveHandler) Update(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "archive service not configured"))
		return
	}
	var req dto.UpdateSemesterArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid update payload"))
		return
	}
	summary, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Delete godoc
// @Summary Permanently delete an archive
// @Tags Archives
// @Accept json
// @Produce json
// @Param payload body dto.DeleteSemesterArchiveRequest true "Archive id and admin proof"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /archive/delete [post]
func (h *SemesterArchiveHandler) Delete(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "archive service not configured"))
		return
	}
	var req dto.DeleteSemesterArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid delete payload"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": req.ID, "deleted": true}, nil)
}

// List godoc
// @Summary List semester archives
// @Tags Archives
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /archive [get]
func (h *SemesterArchiveHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "archive service not configured"))
		return
	}
	var query dto.SemesterArchiveListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid pagination parameters"))
		return
	}
	items, pagination, cacheHit, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, items, pagination, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get a full semester archive
// @Tags Archives
// @Produce json
// @Param id path string true "Archive ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /archive/{id} [get]
func (h *SemesterArchiveHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "archive service not configured"))
		return
	}
	archive, cacheHit, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, archive, nil, middleware.ExtractMeta(c))
}

// GetSection godoc
// @Summary Get one section of a semester archive
// @Tags Archives
// @Produce json
// @Param id path string true "Archive ID"
// @Param section path string true "profiles, projects, posts, leaderboard, transactions or bounties"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /archive/{id}/{section} [get]
func (h *SemesterArchiveHandler) GetSection(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "archive service not configured"))
		return
	}
	raw, err := h.service.GetSection(c.Request.Context(), c.Param("id"), c.Param("section"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, raw, nil)
}

// Export godoc
// @Summary Download one archive section as CSV or PDF
// @Tags Archives
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Archive ID"
// @Param section path string true "Section name"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /archive/{id}/{section}/export [get]
func (h *SemesterArchiveHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "archive export is disabled"))
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), c.Param("id"), c.Param("section"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// RegisterRoutes mounts the archive endpoints on the given group.
func (h *SemesterArchiveHandler) RegisterRoutes(group *gin.RouterGroup) {
	archives := group.Group("/archive")
	archives.GET("", h.List)
	archives.GET("/preview", h.Preview)
	archives.POST("/create", h.Create)
	archives.POST("/clear-current", h.ClearCurrent)
	archives.POST("/update", h.Update)
	archives.POST("/delete", h.Delete)
	archives.GET("/:id", h.Get)
	archives.GET("/:id/:section", h.GetSection)
	archives.GET("/:id/:section/export", h.Export)
}
