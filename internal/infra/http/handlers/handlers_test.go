package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nickppf/nickppf-api/internal/entity"
	"github.com/nickppf/nickppf-api/internal/usecase"
)

type testServer struct {
	sheet   *MockLeadSheet
	cms     *MockOrderCMS
	content *MockContentReader
	handler http.Handler
}

type serverOptions struct {
	noSheet   bool
	syncToken string
	limit     int
	checks    map[string]Check
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	ts := &testServer{
		sheet:   new(MockLeadSheet),
		cms:     new(MockOrderCMS),
		content: new(MockContentReader),
	}

	var sheet usecase.LeadSheet = ts.sheet
	var cms usecase.OrderCMS = ts.cms
	if opts.noSheet {
		sheet = nil
	}
	if opts.limit == 0 {
		opts.limit = 100
	}

	submit := usecase.NewSubmitLeadUseCase(sheet, nil, nil)
	sync := usecase.NewSyncOrdersUseCase(sheet, cms, usecase.NewLocalClaimStore(time.Minute), "Үйлчлүүлэгч", "fallback-role", nil)
	sync.SheetMissing = []string{"GOOGLE_SHEET_ID"}
	content := usecase.NewContentService(ts.content, time.Minute, nil)

	ts.handler = NewRouter(RouterConfig{
		Contact: NewContactHandler(submit, NewRateLimiter(opts.limit, time.Minute), nil),
		Sync:    NewSyncHandler(sync, opts.syncToken, nil),
		Content: NewContentHandler(content, func(id string) string { return "https://cms.example.com/assets/" + id }, nil),
		Health:  NewHealthHandler("test", opts.checks),
	})
	return ts
}

func (ts *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ============ CONTACT ============

func TestContactWritesOneRowPerService(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	ts.sheet.On("AppendLead", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil).Twice()

	rec := ts.do(http.MethodPost, "/api/contact",
		`{"name":"Bold","phone":"99119911","services":["PPF","Tint"]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true}, decode(t, rec))
	ts.sheet.AssertNumberOfCalls(t, "AppendLead", 2)
}

func TestContactValidation(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	rec := ts.do(http.MethodPost, "/api/contact", `{"name":"Bold","phone":"","services":["PPF"]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields or services", decode(t, rec)["error"])
	ts.sheet.AssertNotCalled(t, "AppendLead", mock.Anything, mock.Anything)
}

func TestContactInvalidJSON(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	rec := ts.do(http.MethodPost, "/api/contact", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", decode(t, rec)["error"])
}

func TestContactWithoutSheetConfig(t *testing.T) {
	ts := newTestServer(t, serverOptions{noSheet: true})

	rec := ts.do(http.MethodPost, "/api/contact", `{"name":"Bold","phone":"9911","services":["PPF"]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server configuration error", decode(t, rec)["error"])
}

func TestContactAppendFailure(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	ts.sheet.On("AppendLead", mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))

	rec := ts.do(http.MethodPost, "/api/contact", `{"name":"Bold","phone":"9911","services":["PPF"]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Failed to submit form", body["error"])
	assert.Contains(t, body["details"], "quota exceeded")
}

func TestContactRateLimit(t *testing.T) {
	ts := newTestServer(t, serverOptions{limit: 1})
	ts.sheet.On("AppendLead", mock.Anything, mock.Anything).Return(nil)
	body := `{"name":"Bold","phone":"9911","services":["PPF"]}`

	first := ts.do(http.MethodPost, "/api/contact", body, "X-Forwarded-For", "203.0.113.7")
	second := ts.do(http.MethodPost, "/api/contact", body, "X-Forwarded-For", "203.0.113.7")
	other := ts.do(http.MethodPost, "/api/contact", body, "X-Forwarded-For", "198.51.100.1")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusOK, other.Code)
}

// ============ SYNC ============

func TestSyncRequiresToken(t *testing.T) {
	ts := newTestServer(t, serverOptions{syncToken: "s3cret"})
	ts.sheet.On("ListLeads", mock.Anything).Return([]*entity.Lead{}, nil)

	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, "/api/sync", "").Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, "/api/sync", "", "Authorization", "Bearer nope").Code)

	rec := ts.do(http.MethodGet, "/api/sync", "", "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["synced"])
	assert.NotContains(t, body, "errors")
}

func TestSyncCreatesOrders(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	lead := &entity.Lead{RowNumber: 2, ID: "id-1", Status: "Verified", Email: "Bold@Example.com", Service: "PPF"}

	ts.sheet.On("ListLeads", mock.Anything).Return([]*entity.Lead{lead}, nil)
	ts.cms.On("FindClientByEmail", mock.Anything, "bold@example.com").Return(&entity.Client{ID: "u-1"}, nil)
	ts.cms.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *entity.Order) bool {
		return o.SubmissionID == "id-1" && o.ClientID == "u-1"
	})).Return("77", nil)
	ts.sheet.On("SetOrderID", mock.Anything, lead, "77").Return(nil)

	rec := ts.do(http.MethodPost, "/api/sync", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["synced"])
	ts.cms.AssertExpectations(t)
	ts.sheet.AssertExpectations(t)
}

func TestSyncReportsRowErrors(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	lead := &entity.Lead{RowNumber: 2, ID: "id-1", Status: "verified"}

	ts.sheet.On("ListLeads", mock.Anything).Return([]*entity.Lead{lead}, nil)
	ts.cms.On("CreateOrder", mock.Anything, mock.Anything).Return("", errors.New("FORBIDDEN"))

	rec := ts.do(http.MethodPost, "/api/sync", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(0), body["synced"])
	rowErrors := body["errors"].([]any)
	require.Len(t, rowErrors, 1)
	assert.Equal(t, "id-1", rowErrors[0].(map[string]any)["id"])
}

func TestSyncWithoutConfig(t *testing.T) {
	ts := newTestServer(t, serverOptions{noSheet: true})

	rec := ts.do(http.MethodPost, "/api/sync", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	msg := decode(t, rec)["error"].(string)
	assert.True(t, strings.HasPrefix(msg, "Server configuration error: "))
	assert.Contains(t, msg, "GOOGLE_SHEET_ID")
}

func TestSyncLoadFailure(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	ts.sheet.On("ListLeads", mock.Anything).Return(nil, errors.New("403 forbidden"))

	rec := ts.do(http.MethodPost, "/api/sync", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Failed to execute sync", body["error"])
	assert.Contains(t, body["details"], "403 forbidden")
}

// ============ CONTENT ============

func TestCategories(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	ts.content.On("Items", mock.Anything, "Categories", mock.Anything, mock.Anything).
		Return(`[{"id":1,"name":"Film"}]`, nil).Once()

	rec := ts.do(http.MethodGet, "/api/categories", "")
	again := ts.do(http.MethodGet, "/api/categories", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, rec.Body.String(), again.Body.String())
	ts.content.AssertNumberOfCalls(t, "Items", 1)
}

func TestProductsDegradeToEmptyList(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	ts.content.On("Items", mock.Anything, "Products", mock.Anything, mock.Anything).
		Return(nil, errors.New("directus down"))

	rec := ts.do(http.MethodGet, "/api/products", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestArticleBySlugNotFound(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	ts.content.On("Items", mock.Anything, "news", mock.Anything, mock.Anything).Return(`[]`, nil)

	rec := ts.do(http.MethodGet, "/api/articles/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArticleBySlugCMSFailure(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	ts.content.On("Items", mock.Anything, "news", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	rec := ts.do(http.MethodGet, "/api/articles/ppf", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAssetRedirect(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	rec := ts.do(http.MethodGet, "/assets/abc-123", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://cms.example.com/assets/abc-123", rec.Header().Get("Location"))
}

// ============ HEALTH ============

func TestHealthDegraded(t *testing.T) {
	ts := newTestServer(t, serverOptions{checks: map[string]Check{
		"database": nil,
		"directus": func(context.Context) error { return errors.New("connection refused") },
		"sheets":   func(context.Context) error { return nil },
	}})

	rec := ts.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "degraded", body["status"])
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "not configured", deps["database"])
	assert.Equal(t, "healthy", deps["sheets"])
	assert.Contains(t, deps["directus"], "connection refused")
}

func TestHealthy(t *testing.T) {
	ts := newTestServer(t, serverOptions{checks: map[string]Check{"rabbitmq": nil}})

	rec := ts.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

// ============ RATE LIMITER ============

func TestRateLimiterWindowResets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.1.1.1"))

	now = now.Add(5 * time.Minute)
	rl.sweep()
	assert.Empty(t, rl.visitors)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(r))
}
