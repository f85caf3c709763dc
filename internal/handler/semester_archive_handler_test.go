package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critcoin/critcoin-api/internal/dto"
	"github.com/critcoin/critcoin-api/internal/models"
	"github.com/critcoin/critcoin-api/internal/service"
	appErrors "github.com/critcoin/critcoin-api/pkg/errors"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error map[string]interface{} `json:"error"`
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type fakeArchiveSrv struct {
	previewProof dto.AdminProof
	counts       *models.LiveCounts
	created      dto.CreateSemesterArchiveRequest
	cleared      *models.ClearedCounts
	summary      *models.SemesterArchiveSummary
	items        []models.SemesterArchiveSummary
	listQuery    dto.SemesterArchiveListQuery
	archive      *models.SemesterArchive
	section      json.RawMessage
	cacheHit     bool
	err          error
}

func (f *fakeArchiveSrv) Preview(_ context.Context, proof dto.AdminProof) (*models.LiveCounts, error) {
	f.previewProof = proof
	return f.counts, f.err
}

func (f *fakeArchiveSrv) Create(_ context.Context, req dto.CreateSemesterArchiveRequest) (*models.SemesterArchive, error) {
	f.created = req
	return f.archive, f.err
}

func (f *fakeArchiveSrv) ClearCurrent(context.Context, dto.ClearCurrentSemesterRequest) (*models.ClearedCounts, error) {
	return f.cleared, f.err
}

func (f *fakeArchiveSrv) Update(context.Context, dto.UpdateSemesterArchiveRequest) (*models.SemesterArchiveSummary, error) {
	return f.summary, f.err
}

func (f *fakeArchiveSrv) Delete(context.Context, dto.DeleteSemesterArchiveRequest) error {
	return f.err
}

func (f *fakeArchiveSrv) List(_ context.Context, query dto.SemesterArchiveListQuery) ([]models.SemesterArchiveSummary, *models.Pagination, bool, error) {
	f.listQuery = query
	if f.err != nil {
		return nil, nil, false, f.err
	}
	return f.items, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(f.items)}, f.cacheHit, nil
}

func (f *fakeArchiveSrv) Get(context.Context, string) (*models.SemesterArchive, bool, error) {
	return f.archive, f.cacheHit, f.err
}

func (f *fakeArchiveSrv) GetSection(context.Context, string, string) (json.RawMessage, error) {
	return f.section, f.err
}

type fakeExporter struct {
	file   *service.ArchiveExport
	err    error
	format string
}

func (f *fakeExporter) Export(_ context.Context, _, _, format string) (*service.ArchiveExport, error) {
	f.format = format
	return f.file, f.err
}

func TestSemesterArchiveHandlerCreate(t *testing.T) {
	srv := &fakeArchiveSrv{archive: &models.SemesterArchive{
		SemesterArchiveSummary: models.SemesterArchiveSummary{ID: "a-1", Name: "Fall 2024", ArchivedAt: time.Now()},
	}}
	h := NewSemesterArchiveHandler(srv, nil)

	body := []byte(`{"message":"{}","signature":"0xabc","adminWallet":"0x1","name":"Fall 2024","description":"first"}`)
	c, w := newGinContext(http.MethodPost, "/archive/create", body)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Fall 2024", srv.created.Name)
	assert.Equal(t, "0xabc", srv.created.Signature)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "a-1", env.Data["id"])
}

func TestSemesterArchiveHandlerCreateInvalidJSON(t *testing.T) {
	h := NewSemesterArchiveHandler(&fakeArchiveSrv{}, nil)
	c, w := newGinContext(http.MethodPost, "/archive/create", []byte(`{`))
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSemesterArchiveHandlerCreateForbidden(t *testing.T) {
	h := NewSemesterArchiveHandler(&fakeArchiveSrv{err: appErrors.Clone(appErrors.ErrInvalidSignature, "signer is not the admin")}, nil)
	c, w := newGinContext(http.MethodPost, "/archive/create", []byte(`{"name":"x"}`))
	h.Create(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "INVALID_ADMIN_SIGNATURE", env.Error["code"])
}

func TestSemesterArchiveHandlerPreviewReadsQuery(t *testing.T) {
	srv := &fakeArchiveSrv{counts: &models.LiveCounts{Profiles: 3, Projects: 2}}
	h := NewSemesterArchiveHandler(srv, nil)

	c, w := newGinContext(http.MethodGet, "/archive/preview?message=%257B%257D&signature=0xdead&adminWallet=0xbeef", nil)
	h.Preview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%7B%7D", srv.previewProof.Message)
	assert.Equal(t, "0xdead", srv.previewProof.Signature)
	assert.Equal(t, "0xbeef", srv.previewProof.AdminWallet)
	env := decodeEnvelope(t, w)
	assert.EqualValues(t, 3, env.Data["profiles"])
}

func TestSemesterArchiveHandlerClearCurrent(t *testing.T) {
	srv := &fakeArchiveSrv{cleared: &models.ClearedCounts{Profiles: 4, Comments: 9}}
	h := NewSemesterArchiveHandler(srv, nil)

	c, w := newGinContext(http.MethodPost, "/archive/clear-current", []byte(`{"confirmed":true}`))
	h.ClearCurrent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	deleted, ok := env.Data["deleted"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 4, deleted["profiles"])
	assert.EqualValues(t, 9, deleted["comments"])
}

func TestSemesterArchiveHandlerClearCurrentNeedsConfirmation(t *testing.T) {
	h := NewSemesterArchiveHandler(&fakeArchiveSrv{err: appErrors.ErrConfirmationRequired}, nil)
	c, w := newGinContext(http.MethodPost, "/archive/clear-current", []byte(`{}`))
	h.ClearCurrent(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSemesterArchiveHandlerDeleteNotFound(t *testing.T) {
	h := NewSemesterArchiveHandler(&fakeArchiveSrv{err: appErrors.Clone(appErrors.ErrNotFound, "archive not found")}, nil)
	c, w := newGinContext(http.MethodPost, "/archive/delete", []byte(`{"id":"missing"}`))
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSemesterArchiveHandlerListSetsCacheMeta(t *testing.T) {
	srv := &fakeArchiveSrv{items: []models.SemesterArchiveSummary{{ID: "a-1"}}, cacheHit: true}
	h := NewSemesterArchiveHandler(srv, nil)

	c, w := newGinContext(http.MethodGet, "/archive?page=2&pageSize=5", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, srv.listQuery.Page)
	assert.Equal(t, 5, srv.listQuery.PageSize)
	var env struct {
		Data []map[string]interface{} `json:"data"`
		Meta map[string]interface{}   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Data, 1)
	assert.Equal(t, true, env.Meta["cache_hit"])
}

func TestSemesterArchiveHandlerGetSection(t *testing.T) {
	srv := &fakeArchiveSrv{section: json.RawMessage(`[{"slot":1,"entries":[]}]`)}
	h := NewSemesterArchiveHandler(srv, nil)

	c, w := newGinContext(http.MethodGet, "/archive/a-1/leaderboard", nil)
	c.Params = gin.Params{{Key: "id", Value: "a-1"}, {Key: "section", Value: "leaderboard"}}
	h.GetSection(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"slot":1,"entries":[]}]}`, w.Body.String())
}

func TestSemesterArchiveHandlerExport(t *testing.T) {
	exp := &fakeExporter{file: &service.ArchiveExport{
		Filename:    "fall-2024-projects.csv",
		ContentType: "text/csv",
		Body:        []byte("title\nalpha\n"),
	}}
	h := NewSemesterArchiveHandler(&fakeArchiveSrv{}, exp)

	c, w := newGinContext(http.MethodGet, "/archive/a-1/projects/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "a-1"}, {Key: "section", Value: "projects"}}
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exp.format)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "fall-2024-projects.csv")
	assert.Equal(t, "title\nalpha\n", w.Body.String())
}

func TestSemesterArchiveHandlerExportDisabled(t *testing.T) {
	h := NewSemesterArchiveHandler(&fakeArchiveSrv{}, nil)
	c, w := newGinContext(http.MethodGet, "/archive/a-1/projects/export", nil)
	h.Export(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSemesterArchiveHandlerNilService(t *testing.T) {
	h := NewSemesterArchiveHandler(nil, nil)
	c, w := newGinContext(http.MethodGet, "/archive", nil)
	h.List(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSemesterArchiveRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeArchiveSrv{section: json.RawMessage(`[]`)}
	r := gin.New()
	NewSemesterArchiveHandler(srv, nil).RegisterRoutes(r.Group("/api"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/archive/a-1/profiles", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
