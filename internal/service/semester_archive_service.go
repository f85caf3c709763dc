package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/critcoin/critcoin-api/internal/dto"
	"github.com/critcoin/critcoin-api/internal/models"
	"github.com/critcoin/critcoin-api/internal/repository"
	appErrors "github.com/critcoin/critcoin-api/pkg/errors"
	"github.com/critcoin/critcoin-api/pkg/middleware/requestid"
)

const (
	archiveCachePattern = "archives:*"
	archiveResource     = "semester_archive"
	maxArchivePageSize  = 100
)

type liveStateStore interface {
	Counts(ctx context.Context) (*models.LiveCounts, error)
	Snapshot(ctx context.Context) (*models.LiveSnapshot, error)
	Clear(ctx context.Context, keepWallet string) (*models.ClearedCounts, error)
}

type semesterArchiveStore interface {
	Create(ctx context.Context, archive *models.SemesterArchive) error
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.SemesterArchive, error)
	GetSection(ctx context.Context, id string, section models.ArchiveSection) (json.RawMessage, error)
	List(ctx context.Context, limit, offset int) ([]models.SemesterArchiveSummary, error)
	Count(ctx context.Context) (int, error)
	UpdateMetadata(ctx context.Context, id string, name, description *string) error
	Delete(ctx context.Context, id string) error
}

type adminVerifier interface {
	Verify(ctx context.Context, proof dto.AdminProof, mode models.AdminVerifyMode, action string) (*models.AdminIdentity, error)
}

type archiveCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SemesterArchiveServiceConfig tunes archive behaviour.
type SemesterArchiveServiceConfig struct {
	AdminAddress    string
	ProjectSlots    int
	CacheTTL        time.Duration
	DefaultPageSize int
}

// SemesterArchiveService snapshots, serves and purges semester data.
type SemesterArchiveService struct {
	live      liveStateStore
	archives  semesterArchiveStore
	auth      adminVerifier
	cache     archiveCache
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cfg       SemesterArchiveServiceConfig
}

// SemesterArchiveServiceParams groups the service collaborators.
type SemesterArchiveServiceParams struct {
	Live      liveStateStore
	Archives  semesterArchiveStore
	Auth      adminVerifier
	Cache     archiveCache
	Audit     auditLogger
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

type archiveListPage struct {
	Items []models.SemesterArchiveSummary `json:"items"`
	Total int                             `json:"total"`
}

// NewSemesterArchiveService constructs the service.
func NewSemesterArchiveService(params SemesterArchiveServiceParams, cfg SemesterArchiveServiceConfig) *SemesterArchiveService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ProjectSlots <= 0 {
		cfg.ProjectSlots = 4
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	cfg.AdminAddress = strings.TrimSpace(cfg.AdminAddress)
	return &SemesterArchiveService{
		live:      params.Live,
		archives:  params.Archives,
		auth:      params.Auth,
		cache:     params.Cache,
		audit:     params.Audit,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Preview returns current live counts so the admin can confirm before archiving.
func (s *SemesterArchiveService) Preview(ctx context.Context, proof dto.AdminProof) (*models.LiveCounts, error) {
	if _, err := s.auth.Verify(ctx, proof, models.AdminVerifyGET, models.AdminActionArchivePreview); err != nil {
		return nil, err
	}
	counts, err := s.live.Counts(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count live data")
	}
	return counts, nil
}

// Create snapshots the live platform into a new named archive.
func (s *SemesterArchiveService) Create(ctx context.Context, req dto.CreateSemesterArchiveRequest) (archive *models.SemesterArchive, err error) {
	defer func() { s.metrics.RecordArchiveOperation("create", err) }()

	identity, err := s.auth.Verify(ctx, req.AdminProof, models.AdminVerifyPOST, models.AdminActionArchiveCreate)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, validationMessage(err))
	}

	taken, err := s.archives.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check archive name")
	}
	if taken {
		return nil, archiveNameTaken(req.Name)
	}

	start := time.Now()
	snapshot, err := s.live.Snapshot(ctx)
	s.metrics.ObserveDBQuery("live_snapshot", time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to read live data")
	}

	archive = buildSemesterArchive(snapshot, s.cfg.ProjectSlots)
	archive.ID = uuid.NewString()
	archive.Name = req.Name
	archive.Description = req.Description
	archive.ArchivedAt = s.now().UTC()
	archive.ArchivedBy = identity.Address

	if err := s.archives.Create(ctx, archive); err != nil {
		if errors.Is(err, repository.ErrDuplicateArchiveName) {
			return nil, archiveNameTaken(req.Name)
		}
		return nil, appErrors.Internal(err, "failed to save archive")
	}

	s.logger.Info("semester archive created",
		zap.String("archive_id", archive.ID),
		zap.String("name", archive.Name),
		zap.Int("profiles", archive.Stats.TotalProfiles),
		zap.Int("projects", archive.Stats.TotalProjects),
		zap.Int("posts", archive.Stats.TotalPosts),
		zap.String("transferred", archive.Stats.TotalCritCoinTransferred.String()),
	)
	s.emitAudit(ctx, identity, models.AuditActionArchiveCreate, &archive.ID, map[string]interface{}{
		"name":  archive.Name,
		"stats": archive.Stats,
	})
	s.invalidate(ctx)
	return archive, nil
}

// ClearCurrent deletes all live data except the admin's own profile. It never
// touches existing archives and is safe to repeat.
func (s *SemesterArchiveService) ClearCurrent(ctx context.Context, req dto.ClearCurrentSemesterRequest) (counts *models.ClearedCounts, err error) {
	defer func() { s.metrics.RecordArchiveOperation("clear_current", err) }()

	identity, err := s.auth.Verify(ctx, req.AdminProof, models.AdminVerifyPOST, models.AdminActionArchiveClearCurrent)
	if err != nil {
		return nil, err
	}
	if !req.Confirmed {
		return nil, appErrors.Clone(appErrors.ErrConfirmationRequired, "confirmed must be true to clear the current semester")
	}

	start := time.Now()
	counts, err = s.live.Clear(ctx, s.keepWallet(identity))
	s.metrics.ObserveDBQuery("live_clear", time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to clear current semester")
	}

	s.logger.Warn("current semester cleared",
		zap.Int64("profiles", counts.Profiles),
		zap.Int64("projects", counts.Projects),
		zap.Int64("posts", counts.Posts),
		zap.Int64("comments", counts.Comments),
		zap.Int64("transactions", counts.Transactions),
		zap.Int64("bounties", counts.Bounties),
	)
	s.emitAudit(ctx, identity, models.AuditActionClearCurrent, nil, counts)
	return counts, nil
}

// Update edits an archive's name and/or description.
func (s *SemesterArchiveService) Update(ctx context.Context, req dto.UpdateSemesterArchiveRequest) (summary *models.SemesterArchiveSummary, err error) {
	defer func() { s.metrics.RecordArchiveOperation("update", err) }()

	identity, err := s.auth.Verify(ctx, req.AdminProof, models.AdminVerifyPOST, models.AdminActionArchiveUpdate)
	if err != nil {
		return nil, err
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.Name == nil && req.Description == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name or description is required")
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name cannot be empty")
		}
		req.Name = &trimmed
	}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		req.Description = &trimmed
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, validationMessage(err))
	}
	if !isArchiveID(req.ID) {
		return nil, archiveNotFound()
	}

	if req.Name != nil {
		taken, err := s.archives.ExistsByName(ctx, *req.Name, req.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check archive name")
		}
		if taken {
			return nil, archiveNameTaken(*req.Name)
		}
	}

	if err := s.archives.UpdateMetadata(ctx, req.ID, req.Name, req.Description); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, archiveNotFound()
		case errors.Is(err, repository.ErrDuplicateArchiveName):
			return nil, archiveNameTaken(*req.Name)
		default:
			return nil, appErrors.Internal(err, "failed to update archive")
		}
	}

	archive, err := s.archives.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, archiveNotFound()
		}
		return nil, appErrors.Internal(err, "failed to load archive")
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	s.emitAudit(ctx, identity, models.AuditActionArchiveUpdate, &req.ID, changes)
	s.invalidate(ctx)
	return &archive.SemesterArchiveSummary, nil
}

// Delete permanently removes an archive.
func (s *SemesterArchiveService) Delete(ctx context.Context, req dto.DeleteSemesterArchiveRequest) (err error) {
	defer func() { s.metrics.RecordArchiveOperation("delete", err) }()

	identity, err := s.auth.Verify(ctx, req.AdminProof, models.AdminVerifyPOST, models.AdminActionArchiveDelete)
	if err != nil {
		return err
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	if !isArchiveID(req.ID) {
		return archiveNotFound()
	}

	if err := s.archives.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return archiveNotFound()
		}
		return appErrors.Internal(err, "failed to delete archive")
	}

	s.logger.Info("semester archive deleted", zap.String("archive_id", req.ID))
	s.emitAudit(ctx, identity, models.AuditActionArchiveDelete, &req.ID, nil)
	s.invalidate(ctx)
	return nil
}

// List returns archive summaries newest first and whether the page came from cache.
func (s *SemesterArchiveService) List(ctx context.Context, query dto.SemesterArchiveListQuery) ([]models.SemesterArchiveSummary, *models.Pagination, bool, error) {
	page := query.Page
	if page <= 0 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 {
		size = s.cfg.DefaultPageSize
	}
	if size > maxArchivePageSize {
		size = maxArchivePageSize
	}

	key := fmt.Sprintf("archives:list:%d:%d", page, size)
	var cached archiveListPage
	if s.tryCache(ctx, key, &cached) {
		return cached.Items, &models.Pagination{Page: page, PageSize: size, TotalCount: cached.Total}, true, nil
	}

	items, err := s.archives.List(ctx, size, (page-1)*size)
	if err != nil {
		return nil, nil, false, appErrors.Internal(err, "failed to list archives")
	}
	total, err := s.archives.Count(ctx)
	if err != nil {
		return nil, nil, false, appErrors.Internal(err, "failed to count archives")
	}
	if items == nil {
		items = []models.SemesterArchiveSummary{}
	}

	s.persistCache(ctx, key, archiveListPage{Items: items, Total: total})
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, false, nil
}

// Get returns the full archive and whether it came from cache.
func (s *SemesterArchiveService) Get(ctx context.Context, id string) (*models.SemesterArchive, bool, error) {
	id = strings.TrimSpace(id)
	if !isArchiveID(id) {
		return nil, false, archiveNotFound()
	}

	key := "archives:detail:" + id
	var cached models.SemesterArchive
	if s.tryCache(ctx, key, &cached) {
		return &cached, true, nil
	}

	archive, err := s.archives.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, archiveNotFound()
		}
		return nil, false, appErrors.Internal(err, "failed to load archive")
	}
	s.persistCache(ctx, key, archive)
	return archive, false, nil
}

// GetSection returns one named sub-collection of an archive.
func (s *SemesterArchiveService) GetSection(ctx context.Context, id, section string) (json.RawMessage, error) {
	name := models.ArchiveSection(strings.ToLower(strings.TrimSpace(section)))
	if !name.Valid() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown archive section %q", section))
	}
	id = strings.TrimSpace(id)
	if !isArchiveID(id) {
		return nil, archiveNotFound()
	}
	raw, err := s.archives.GetSection(ctx, id, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, archiveNotFound()
		}
		return nil, appErrors.Internal(err, "failed to load archive section")
	}
	return raw, nil
}

func (s *SemesterArchiveService) keepWallet(identity *models.AdminIdentity) string {
	if s.cfg.AdminAddress != "" {
		return s.cfg.AdminAddress
	}
	if identity != nil {
		return identity.Address
	}
	return ""
}

// tryCache reports a hit only when the entry decoded cleanly. Cache errors
// fall through to the database.
func (s *SemesterArchiveService) tryCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	return err == nil && hit
}

func (s *SemesterArchiveService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("archive cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *SemesterArchiveService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, archiveCachePattern); err != nil {
		s.logger.Warn("archive cache invalidation failed", zap.Error(err))
	}
}

func (s *SemesterArchiveService) emitAudit(ctx context.Context, identity *models.AdminIdentity, action string, resourceID *string, values interface{}) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   archiveResource,
		ResourceID: resourceID,
		RequestID:  requestid.FromContext(ctx),
	}
	if identity != nil {
		entry.Actor = identity.Address
	}
	if values != nil {
		if payload, err := json.Marshal(values); err == nil {
			entry.NewValues = payload
		}
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to create archive audit", zap.String("action", action), zap.Error(err))
	}
}

func archiveNotFound() error {
	return appErrors.Clone(appErrors.ErrNotFound, "archive not found")
}

func archiveNameTaken(name string) error {
	return appErrors.Clone(appErrors.ErrArchiveNameTaken, fmt.Sprintf("an archive named %q already exists", name))
}

func isArchiveID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// validationMessage turns the first validator failure into a readable sentence.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.ErrValidation.Message
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
