package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plm-registry-service/internal/adapters/primary/http/dto"
	"plm-registry-service/internal/core/domain"
	"plm-registry-service/internal/core/services"
	"plm-registry-service/internal/testutil"
)

type fixture struct {
	assemblies  *testutil.MockAssemblyRepo
	attachments *testutil.MockAttachmentRepo
	links       *testutil.MockLinkRepo
	router      *gin.Engine
}

func setupRouter(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		assemblies:  new(testutil.MockAssemblyRepo),
		attachments: new(testutil.MockAttachmentRepo),
		links:       new(testutil.MockLinkRepo),
	}
	registry := testutil.NewFakeRegistry()
	assemblySvc := services.NewAssemblyService(f.assemblies, f.attachments, f.links, registry, registry, testutil.PassthroughTx{})
	attachmentSvc := services.NewAttachmentService(f.attachments, registry, registry, testutil.PassthroughTx{})

	f.router = gin.New()
	New(assemblySvc, attachmentSvc).RegisterRoutes(f.router.Group("/api/v1/plm"))
	return f
}

func (f *fixture) do(method, path string, body any, userID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(headerUserID, userID)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func routerAssembly(t *testing.T, iteration int, state string) *domain.Assembly {
	t.Helper()
	id, err := domain.NewIdentity("P1", "A", iteration)
	require.NoError(t, err)
	a, err := domain.NewAssembly(id, "default", "letters", state, "Bracket", "Steel")
	require.NoError(t, err)
	return a
}

func TestGetAssembly(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 1, "InWork")
	f.assemblies.On("Get", mock.Anything, a.Identity).Return(a, nil)

	w := f.do(http.MethodGet, "/api/v1/plm/assemblies/P1/A/1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.AssemblyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "P1", resp.Reference)
	assert.Equal(t, "A", resp.Version)
	assert.Equal(t, 1, resp.Iteration)
	assert.False(t, resp.Reserved)
	assert.Equal(t, "InWork", resp.LifeCycleState)
}

func TestGetAssembly_NotFound(t *testing.T) {
	f := setupRouter(t)
	id, _ := domain.NewIdentity("P9", "A", 1)
	f.assemblies.On("Get", mock.Anything, id).Return(nil, domain.ErrAssemblyNotFound)

	w := f.do(http.MethodGet, "/api/v1/plm/assemblies/P9/A/1", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAssembly_BadIteration(t *testing.T) {
	f := setupRouter(t)
	w := f.do(http.MethodGet, "/api/v1/plm/assemblies/P1/A/one", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAssembly(t *testing.T) {
	f := setupRouter(t)
	f.assemblies.On("Create", mock.Anything, mock.AnythingOfType("*domain.Assembly")).Return(nil)

	w := f.do(http.MethodPost, "/api/v1/plm/assemblies", dto.CreateAssemblyRequest{
		Reference:         "P1",
		Version:           "A",
		LifeCycleTemplate: "default",
		VersionSchema:     "letters",
		Designation:       "Bracket",
		Material:          "Steel",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.AssemblyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// iteration defaults to 1, state to the template's initial
	assert.Equal(t, 1, resp.Iteration)
	assert.Equal(t, "InWork", resp.LifeCycleState)
}

func TestCreateAssembly_Conflict(t *testing.T) {
	f := setupRouter(t)
	f.assemblies.On("Create", mock.Anything, mock.AnythingOfType("*domain.Assembly")).Return(domain.ErrIdentityConflict)

	w := f.do(http.MethodPost, "/api/v1/plm/assemblies", dto.CreateAssemblyRequest{
		Reference:         "P1",
		Version:           "A",
		LifeCycleTemplate: "default",
		VersionSchema:     "letters",
		Designation:       "Bracket",
		Material:          "Steel",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateAssembly_MissingFields(t *testing.T) {
	f := setupRouter(t)
	w := f.do(http.MethodPost, "/api/v1/plm/assemblies", gin.H{"reference": "P1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReserveAssembly(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 1, "InWork")
	f.assemblies.On("GetForUpdate", mock.Anything, a.Identity).Return(a, nil)
	f.assemblies.On("Create", mock.Anything, mock.AnythingOfType("*domain.Assembly")).Return(nil)
	f.links.On("LinkedAttachments", mock.Anything, a.Identity).Return([]domain.Identity{}, nil)

	w := f.do(http.MethodPost, "/api/v1/plm/assemblies/P1/A/1/reserve", nil, "alice")
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.AssemblyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Iteration)
	assert.True(t, resp.Reserved)
	require.NotNil(t, resp.ReservedBy)
	assert.Equal(t, "alice", *resp.ReservedBy)
}

func TestReserveAssembly_NoUserHeader(t *testing.T) {
	f := setupRouter(t)
	w := f.do(http.MethodPost, "/api/v1/plm/assemblies/P1/A/1/reserve", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReserveAssembly_AlreadyReserved(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 2, "InWork")
	require.NoError(t, a.Reserve("alice"))
	f.assemblies.On("GetForUpdate", mock.Anything, a.Identity).Return(a, nil)

	w := f.do(http.MethodPost, "/api/v1/plm/assemblies/P1/A/2/reserve", nil, "bob")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateAssembly_ReservedByOther(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 2, "InWork")
	require.NoError(t, a.Reserve("alice"))
	f.assemblies.On("GetForUpdate", mock.Anything, a.Identity).Return(a, nil)

	w := f.do(http.MethodPatch, "/api/v1/plm/assemblies/P1/A/2", dto.UpdateAssemblyRequest{
		Designation: "Hinge",
		Material:    "Aluminium",
	}, "bob")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestFreeAssembly(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 2, "InWork")
	require.NoError(t, a.Reserve("alice"))
	f.assemblies.On("GetForUpdate", mock.Anything, a.Identity).Return(a, nil)
	f.assemblies.On("Update", mock.Anything, a).Return(nil)
	f.links.On("LinkedAttachments", mock.Anything, a.Identity).Return([]domain.Identity{}, nil)

	w := f.do(http.MethodPost, "/api/v1/plm/assemblies/P1/A/2/free", nil, "alice")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.AssemblyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Reserved)
	assert.Nil(t, resp.ReservedBy)
}

func TestSetAssemblyState(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 1, "InWork")
	f.assemblies.On("GetForUpdate", mock.Anything, a.Identity).Return(a, nil)
	f.assemblies.On("Update", mock.Anything, a).Return(nil)
	f.links.On("LinkedAttachments", mock.Anything, a.Identity).Return([]domain.Identity{}, nil)

	w := f.do(http.MethodPut, "/api/v1/plm/assemblies/P1/A/1/state", dto.SetStateRequest{State: "Released"}, "alice")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.AssemblyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Released", resp.LifeCycleState)
}

func TestSetAssemblyState_Unknown(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 1, "InWork")
	f.assemblies.On("GetForUpdate", mock.Anything, a.Identity).Return(a, nil)

	w := f.do(http.MethodPut, "/api/v1/plm/assemblies/P1/A/1/state", dto.SetStateRequest{State: "Frozen"}, "alice")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReviseAssembly(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 2, "Released")
	f.assemblies.On("GetForUpdate", mock.Anything, a.Identity).Return(a, nil)
	f.assemblies.On("Create", mock.Anything, mock.AnythingOfType("*domain.Assembly")).Return(nil)
	f.links.On("LinkedAttachments", mock.Anything, a.Identity).Return([]domain.Identity{}, nil)

	w := f.do(http.MethodPost, "/api/v1/plm/assemblies/P1/A/2/revise", nil, "alice")
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.AssemblyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "B", resp.Version)
	assert.Equal(t, 1, resp.Iteration)
	assert.Equal(t, "InWork", resp.LifeCycleState)
}

func TestReviseAssembly_NotFinal(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 1, "InWork")
	f.assemblies.On("GetForUpdate", mock.Anything, a.Identity).Return(a, nil)

	w := f.do(http.MethodPost, "/api/v1/plm/assemblies/P1/A/1/revise", nil, "alice")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLinkAttachment(t *testing.T) {
	f := setupRouter(t)
	f.links.On("Link", mock.Anything, "P1", "D1").Return(nil)

	w := f.do(http.MethodPost, "/api/v1/plm/assemblies/P1/links", dto.LinkAttachmentRequest{AttachmentReference: "D1"}, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLinkAttachment_Conflict(t *testing.T) {
	f := setupRouter(t)
	f.links.On("Link", mock.Anything, "P1", "D1").Return(domain.ErrLinkConflict)

	w := f.do(http.MethodPost, "/api/v1/plm/assemblies/P1/links", dto.LinkAttachmentRequest{AttachmentReference: "D1"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUnlinkAttachment_NotFound(t *testing.T) {
	f := setupRouter(t)
	f.links.On("Unlink", mock.Anything, "P1", "D1").Return(domain.ErrLinkNotFound)

	w := f.do(http.MethodDelete, "/api/v1/plm/assemblies/P1/links/D1", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAssemblyAttachments(t *testing.T) {
	f := setupRouter(t)
	a := routerAssembly(t, 1, "InWork")
	attID, _ := domain.NewIdentity("D1", "A", 2)
	att, err := domain.NewAttachment(attID, "default", "letters", "InWork", "Datasheet", "pdf")
	require.NoError(t, err)

	f.assemblies.On("Get", mock.Anything, a.Identity).Return(a, nil)
	f.links.On("LinkedAttachments", mock.Anything, a.Identity).Return([]domain.Identity{attID}, nil)
	f.attachments.On("Get", mock.Anything, attID).Return(att, nil)

	w := f.do(http.MethodGet, "/api/v1/plm/assemblies/P1/A/1/attachments", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListAttachmentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "D1", resp.Items[0].Reference)
}

func TestStoreUnavailable(t *testing.T) {
	f := setupRouter(t)
	id, _ := domain.NewIdentity("P1", "A", 1)
	f.assemblies.On("Get", mock.Anything, id).Return(nil, domain.ErrStoreUnavailable)

	w := f.do(http.MethodGet, "/api/v1/plm/assemblies/P1/A/1", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
