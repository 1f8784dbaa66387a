package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/internal/service"
	"github.com/KotFed0t/wealth_tax_helper/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, svc *MockService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	NewController(svc).Routes().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, &MockService{}, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_Echoed(t *testing.T) {
	svc := &MockService{}
	svc.On("ListDebts", mock.Anything).Return([]model.DebtPosition{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/debts", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()

	NewController(svc).Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListAssets_CategoryFilter(t *testing.T) {
	svc := &MockService{}
	asset := model.AssetPosition{
		ID:            "a1",
		Category:      model.CategoryCapitalClaims,
		Name:          "Tagesgeld",
		Quantity:      decimal.NewFromInt(1),
		UnitValue:     decimal.NewFromInt(5000),
		PositionValue: decimal.NewFromInt(5000),
	}
	svc.On("ListAssets", mock.Anything, mock.MatchedBy(func(c *model.Category) bool {
		return c != nil && *c == model.CategoryCapitalClaims
	})).Return([]model.AssetPosition{asset}, nil)

	rec := serve(t, svc, http.MethodGet, "/api/assets?category=claims", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0]["id"])
	// decimals travel as strings
	assert.Equal(t, "5000", got[0]["positionValue"])
	svc.AssertExpectations(t)
}

func TestListAssets_UnknownCategory(t *testing.T) {
	rec := serve(t, &MockService{}, http.MethodGet, "/api/assets?category=gold", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"category"`)
}

func TestAddAsset(t *testing.T) {
	svc := &MockService{}
	svc.On("AddAsset", mock.Anything, model.AssetDraft{
		Category:  "listed",
		Name:      "Siemens AG",
		Quantity:  "10",
		UnitValue: "180.5",
	}).Return(model.AssetPosition{ID: "new-id", Name: "Siemens AG"}, nil)

	rec := serve(t, svc, http.MethodPost, "/api/assets",
		`{"category":"listed","name":"Siemens AG","quantity":10,"unitValue":"180.5"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/assets/new-id", rec.Header().Get("Location"))
	svc.AssertExpectations(t)
}

func TestAddAsset_BadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"name":`},
		{"unknown field", `{"name":"x","color":"red"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}
			rec := serve(t, svc, http.MethodPost, "/api/assets", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "AddAsset", mock.Anything, mock.Anything)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	verr := &model.ValidationError{}
	verr.Add("quantity", "must not be negative")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", verr, http.StatusBadRequest, `"field":"quantity"`},
		{"not found", service.ErrNotFound, http.StatusNotFound, "not found"},
		{"publishing disabled", service.ErrPublishingDisabled, http.StatusServiceUnavailable, "disabled"},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}
			svc.On("UpdateDebt", mock.Anything, "d1", mock.Anything).Return(model.DebtPosition{}, tt.err)

			rec := serve(t, svc, http.MethodPut, "/api/debts/d1", `{"creditor":"Bank","faceAmount":"-1"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}

func TestDeleteAsset(t *testing.T) {
	svc := &MockService{}
	svc.On("DeleteAsset", mock.Anything, "a1").Return(nil)
	svc.On("DeleteAsset", mock.Anything, "missing").Return(service.ErrNotFound)

	assert.Equal(t, http.StatusNoContent, serve(t, svc, http.MethodDelete, "/api/assets/a1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, svc, http.MethodDelete, "/api/assets/missing", "").Code)
}

func TestGetCase_NotFound(t *testing.T) {
	svc := &MockService{}
	svc.On("GetCase", mock.Anything).Return(model.CaseData{}, service.ErrNotFound)

	rec := serve(t, svc, http.MethodGet, "/api/case", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculate(t *testing.T) {
	svc := &MockService{}
	svc.On("Calculate", mock.Anything).Return(model.TaxResult{
		Tax:           decimal.NewFromInt(5000),
		EffectiveRate: decimal.RequireFromString("0.333"),
	}, nil)

	rec := serve(t, svc, http.MethodPost, "/api/calculations", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "5000", got["tax"])
	assert.Equal(t, "0.333", got["effectiveRate"])
}

func TestMethodNotAllowed(t *testing.T) {
	rec := serve(t, &MockService{}, http.MethodPatch, "/api/case", "{}")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReport(t *testing.T) {
	svc := &MockService{}
	svc.On("Report", mock.Anything).Return([]byte("xlsx"), "Vermoegensteuer_2024-12-31.xlsx", nil)

	rec := serve(t, svc, http.MethodGet, "/api/report", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Vermoegensteuer_2024-12-31.xlsx")
	assert.Equal(t, "xlsx", rec.Body.String())
}

func TestPublishReport(t *testing.T) {
	svc := &MockService{}
	svc.On("PublishReport", mock.Anything).Return("https://drive.google.com/file/d/abc/view", nil)

	rec := serve(t, svc, http.MethodPost, "/api/report/publish", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"link":"https://drive.google.com/file/d/abc/view"}`, rec.Body.String())
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), Recover())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestID_Context(t *testing.T) {
	var got string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = utils.GetRequestIDFromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-123", got)
}
