package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"daemon/internal/entity"
	"daemon/internal/usecase"
	"daemon/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDataUseCase is a mock implementation of DataUseCase
type MockDataUseCase struct {
	mock.Mock
}

func (m *MockDataUseCase) ResolveDirectTarget(identity entity.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockDataUseCase) ListEntries(endpointName, username string, identity entity.Identity, level entity.PrivacyLevel, limit, offset int) (*usecase.EntryPage, error) {
	args := m.Called(endpointName, username, identity, level, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.EntryPage), args.Error(1)
}

func (m *MockDataUseCase) GetEntry(endpointName, entryID string, identity entity.Identity, level entity.PrivacyLevel) (*usecase.EntryView, error) {
	args := m.Called(endpointName, entryID, identity, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.EntryView), args.Error(1)
}

func (m *MockDataUseCase) CreateEntry(endpointName string, identity entity.Identity, data map[string]interface{}) (*entity.DataEntry, error) {
	args := m.Called(endpointName, identity, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DataEntry), args.Error(1)
}

func (m *MockDataUseCase) UpdateEntry(endpointName, entryID string, identity entity.Identity, data map[string]interface{}) (*entity.DataEntry, error) {
	args := m.Called(endpointName, entryID, identity, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DataEntry), args.Error(1)
}

func (m *MockDataUseCase) DeleteEntry(endpointName, entryID string, identity entity.Identity) error {
	args := m.Called(endpointName, entryID, identity)
	return args.Error(0)
}

func (m *MockDataUseCase) ListPublicEndpoints() ([]*entity.Endpoint, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Endpoint), args.Error(1)
}

func (m *MockDataUseCase) ListPublicEntries(endpointName string, limit int) ([]map[string]interface{}, error) {
	args := m.Called(endpointName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]interface{}), args.Error(1)
}

var _ usecase.DataUseCase = (*MockDataUseCase)(nil)

func setupDataRouter(mockUseCase *MockDataUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewDataHandler(mockUseCase, logger.New())

	v1 := router.Group("/api/v1")
	v1.GET("/:endpoint", handler.ListDirect)
	v1.GET("/:endpoint/:id", handler.GetItem)
	v1.GET("/:endpoint/users/:username", handler.ListForUser)
	v1.GET("/users/:username/:endpoint", handler.LegacyListForUser)
	v1.POST("/:endpoint", handler.CreateEntry)
	v1.DELETE("/:endpoint/:id", handler.DeleteEntry)
	return router
}

func samplePage() *usecase.EntryPage {
	return &usecase.EntryPage{
		Endpoint: "ideas",
		Entries: []map[string]interface{}{
			{"id": "e1", "data": map[string]interface{}{"title": "Public idea"}},
		},
		Count: 1,
	}
}

func TestListForUser_OK(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("ListEntries", "ideas", "alice", entity.Identity{}, entity.PrivacyPublicFull, 50, 0).
		Return(samplePage(), nil)

	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/ideas/users/alice", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ideas", body["endpoint"])
	assert.Equal(t, "alice", body["user"])
	assert.Equal(t, float64(1), body["count"])
}

func TestLegacyRoute_RedirectsToCanonical(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/users/alice/ideas?level=business_card&limit=5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/api/v1/ideas/users/alice?level=business_card&limit=5", w.Header().Get("Location"))
}

func TestLegacyRoute_EquivalentAfterRedirect(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("ListEntries", "ideas", "alice", entity.Identity{}, entity.PrivacyBusinessCard, 50, 0).
		Return(samplePage(), nil)

	router := setupDataRouter(mockUseCase)

	// Canonical shape.
	canonical := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/ideas/users/alice?level=business_card", nil)
	router.ServeHTTP(canonical, req)
	assert.Equal(t, http.StatusOK, canonical.Code)

	// Legacy shape, following the redirect by hand.
	redirect := httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/users/alice/ideas?level=business_card", nil)
	router.ServeHTTP(redirect, req)
	assert.Equal(t, http.StatusMovedPermanently, redirect.Code)

	followed := httptest.NewRecorder()
	req, _ = http.NewRequest("GET", redirect.Header().Get("Location"), nil)
	router.ServeHTTP(followed, req)

	assert.Equal(t, http.StatusOK, followed.Code)
	assert.JSONEq(t, canonical.Body.String(), followed.Body.String())
}

func TestPrivacyLevelAlias_Equivalent(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("ListEntries", "ideas", "alice", entity.Identity{}, entity.PrivacyBusinessCard, 50, 0).
		Return(samplePage(), nil).Twice()

	router := setupDataRouter(mockUseCase)

	first := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/ideas/users/alice?level=business_card", nil)
	router.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/ideas/users/alice?privacy_level=business_card", nil)
	router.ServeHTTP(second, req)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	mockUseCase.AssertExpectations(t)
}

func TestListDirect_AmbiguousScope(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("ResolveDirectTarget", entity.Identity{}).
		Return("", usecase.ErrAmbiguousScope)

	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/ideas", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	detail := body["detail"].(map[string]interface{})
	assert.Equal(t, "/api/v1/{endpoint}/users/{username}", detail["pattern"])
	assert.Equal(t, "/api/v1/ideas/users/alice", detail["example"])
	assert.NotEmpty(t, detail["note"])
}

func TestListDirect_SingleUserMode(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("ResolveDirectTarget", entity.Identity{}).Return("alice", nil)
	mockUseCase.On("ListEntries", "ideas", "alice", entity.Identity{}, entity.PrivacyPublicFull, 50, 0).
		Return(samplePage(), nil)

	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/ideas", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetItem_NoVisibleContent(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("GetEntry", "ideas", "hidden-id", entity.Identity{}, entity.PrivacyPublicFull).
		Return(&usecase.EntryView{Endpoint: "ideas", Visible: false}, nil)

	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/ideas/hidden-id", nil)
	router.ServeHTTP(w, req)

	// Hidden entries are 200, not 404, so callers cannot probe existence.
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body["data"])
	assert.Equal(t, "No visible content available", body["detail"])
}

func TestGetItem_Visible(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("GetEntry", "ideas", "e1", entity.Identity{}, entity.PrivacyPublicFull).
		Return(&usecase.EntryView{
			Endpoint: "ideas",
			Data:     map[string]interface{}{"id": "e1", "data": map[string]interface{}{"title": "x"}},
			Visible:  true,
		}, nil)

	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/ideas/e1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "title")
}

func TestListDirect_InvalidSegment(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/bad.segment", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEntry_InvalidJSON(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/ideas", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEntry_Created(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("CreateEntry", "ideas", mock.AnythingOfType("entity.Identity"), mock.Anything).
		Return(&entity.DataEntry{ID: "e1", EndpointID: "ep1"}, nil)

	router := setupDataRouter(mockUseCase)

	body, _ := json.Marshal(map[string]interface{}{"title": "x"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/ideas", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDeleteEntry_Forbidden(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("DeleteEntry", "ideas", "e1", mock.AnythingOfType("entity.Identity")).
		Return(usecase.ErrForbidden)

	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/ideas/e1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetItem_StorageErrorIs500(t *testing.T) {
	mockUseCase := new(MockDataUseCase)
	mockUseCase.On("GetEntry", "ideas", "e1", entity.Identity{}, entity.PrivacyPublicFull).
		Return(nil, errors.New("failed to fetch entry: connection refused"))

	router := setupDataRouter(mockUseCase)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/ideas/e1", nil)
	router.ServeHTTP(w, req)

	// Storage failures are internal errors, never a business outcome.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
