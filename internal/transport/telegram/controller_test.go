package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/KotFed0t/wealth_tax_helper/data/session"
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

const chatID int64 = 42

// fakeContext implements the parts of tele.Context the controller touches.
type fakeContext struct {
	tele.Context
	msg    *tele.Message
	values map[string]any
	sent   []any
}

func newFakeContext(text, payload string) *fakeContext {
	return &fakeContext{
		msg:    &tele.Message{Text: text, Payload: payload, Chat: &tele.Chat{ID: chatID}},
		values: map[string]any{"rqID": "rq-1"},
	}
}

func (c *fakeContext) Chat() *tele.Chat { return c.msg.Chat }
func (c *fakeContext) Message() *tele.Message { return c.msg }
func (c *fakeContext) Get(key string) any { return c.values[key] }
func (c *fakeContext) Set(key string, val any) { c.values[key] = val }

func (c *fakeContext) Send(what any, _ ...any) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *fakeContext) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.sent)
	text, ok := c.sent[len(c.sent)-1].(string)
	require.True(t, ok, "last message is not text")
	return text
}

type MockService struct {
	mock.Mock
}

func (m *MockService) GetCase(ctx context.Context) (model.CaseData, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CaseData), args.Error(1)
}

func (m *MockService) ListAssets(ctx context.Context, category *model.Category) ([]model.AssetPosition, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]model.AssetPosition), args.Error(1)
}

func (m *MockService) AddAsset(ctx context.Context, draft model.AssetDraft) (model.AssetPosition, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(model.AssetPosition), args.Error(1)
}

func (m *MockService) DeleteAsset(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) ListDebts(ctx context.Context) ([]model.DebtPosition, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.DebtPosition), args.Error(1)
}

func (m *MockService) AddDebt(ctx context.Context, draft model.DebtDraft) (model.DebtPosition, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(model.DebtPosition), args.Error(1)
}

func (m *MockService) DeleteDebt(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) Calculate(ctx context.Context) (model.TaxResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.TaxResult), args.Error(1)
}

func (m *MockService) Summary(ctx context.Context) (model.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Summary), args.Error(1)
}

func (m *MockService) Report(ctx context.Context) ([]byte, string, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]byte)
	return b, args.String(1), args.Error(2)
}

func (m *MockService) PublishReport(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) GetSession(ctx context.Context, chatID int64) (model.Session, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *MockSession) SetSession(ctx context.Context, chatID int64, s model.Session) error {
	return m.Called(ctx, chatID, s).Error(0)
}

func TestController_AddAssetDialog(t *testing.T) {
	svc := &MockService{}
	sess := &MockSession{}
	ctrl := NewController(svc, sess)

	sess.On("SetSession", mock.Anything, chatID, model.Session{State: model.ExpectingAsset}).Return(nil).Once()
	c := newFakeContext("/add_asset", "")
	require.NoError(t, ctrl.InitAddAsset(c))
	assert.Contains(t, c.lastText(t), "Kategorie; Bezeichnung")

	sess.On("GetSession", mock.Anything, chatID).Return(model.Session{State: model.ExpectingAsset}, nil)
	svc.On("AddAsset", mock.Anything, mock.MatchedBy(func(d model.AssetDraft) bool {
		return d.Category == "claims" && d.Name == "Tagesgeld" && d.UnitValue == "5000"
	})).Return(model.AssetPosition{
		ID: "a1", Name: "Tagesgeld", Category: model.CategoryCapitalClaims,
		Quantity: decimal.NewFromInt(1), UnitValue: decimal.NewFromInt(5000),
	}, nil)
	svc.On("GetCase", mock.Anything).Return(model.CaseData{}, service.ErrNotFound)
	sess.On("SetSession", mock.Anything, chatID, model.Session{State: model.DefaultState}).Return(nil).Once()

	c = newFakeContext("claims; Tagesgeld; 1; 5000", "")
	require.NoError(t, ctrl.OnText(c))

	assert.Contains(t, c.lastText(t), "5.000,00 €")
	svc.AssertExpectations(t)
	sess.AssertExpectations(t)
}

func TestController_AddDebt_ValidationErrorKeepsDialog(t *testing.T) {
	svc := &MockService{}
	sess := &MockSession{}
	ctrl := NewController(svc, sess)

	verr := &model.ValidationError{}
	verr.Add("faceAmount", "must not be negative")

	sess.On("GetSession", mock.Anything, chatID).Return(model.Session{State: model.ExpectingDebt}, nil)
	svc.On("AddDebt", mock.Anything, mock.Anything).Return(model.DebtPosition{}, verr)

	c := newFakeContext("Bank; Darlehen; -5", "")
	require.NoError(t, ctrl.OnText(c))

	assert.Contains(t, c.lastText(t), "faceAmount: must not be negative")
	sess.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_OnText_NoDialog(t *testing.T) {
	sess := &MockSession{}
	sess.On("GetSession", mock.Anything, chatID).Return(model.Session{}, session.ErrNotFound)

	c := newFakeContext("hallo", "")
	require.NoError(t, NewController(&MockService{}, sess).OnText(c))

	assert.Contains(t, c.lastText(t), "/start")
}

func TestController_OnText_MalformedInput(t *testing.T) {
	svc := &MockService{}
	sess := &MockSession{}
	sess.On("GetSession", mock.Anything, chatID).Return(model.Session{State: model.ExpectingAsset}, nil)

	c := newFakeContext("nur ein Feld", "")
	require.NoError(t, NewController(svc, sess).OnText(c))

	assert.Contains(t, c.lastText(t), "Format nicht erkannt")
	svc.AssertNotCalled(t, "AddAsset", mock.Anything, mock.Anything)
}

func TestController_DeleteAsset(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		err     error
		want    string
	}{
		{name: "missing id", payload: "", want: "/delete_asset <ID>"},
		{name: "deleted", payload: "a1", want: "gelöscht"},
		{name: "unknown id", payload: "zz", err: service.ErrNotFound, want: "Keine Position"},
		{name: "store failure", payload: "a1", err: errors.New("boom"), want: internalErrMsg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockService{}
			if tt.payload != "" {
				svc.On("DeleteAsset", mock.Anything, tt.payload).Return(tt.err)
			}

			c := newFakeContext("/delete_asset "+tt.payload, tt.payload)
			require.NoError(t, NewController(svc, &MockSession{}).DeleteAsset(c))

			assert.Contains(t, c.lastText(t), tt.want)
		})
	}
}

func TestController_Calc(t *testing.T) {
	svc := &MockService{}
	svc.On("Calculate", mock.Anything).Return(model.TaxResult{
		Tax:           decimal.NewFromInt(5000),
		EffectiveRate: decimal.RequireFromString("0.333"),
		ValuationDate: "2024-12-31",
	}, nil)
	svc.On("GetCase", mock.Anything).Return(model.CaseData{Assessment: model.Assessment{Currency: "EUR"}}, nil)

	c := newFakeContext("/calc", "")
	require.NoError(t, NewController(svc, &MockSession{}).Calc(c))

	assert.Contains(t, c.lastText(t), "Vermögensteuer: 5.000,00 €")
}

func TestController_Assets_UnknownCategory(t *testing.T) {
	svc := &MockService{}

	c := newFakeContext("/assets gold", "gold")
	require.NoError(t, NewController(svc, &MockSession{}).Assets(c))

	assert.Contains(t, c.lastText(t), "Unbekannte Kategorie")
	svc.AssertNotCalled(t, "ListAssets", mock.Anything, mock.Anything)
}

func TestController_Report(t *testing.T) {
	svc := &MockService{}
	svc.On("Report", mock.Anything).Return([]byte("xlsx"), "Vermoegensteuer.xlsx", nil)

	c := newFakeContext("/report", "")
	require.NoError(t, NewController(svc, &MockSession{}).Report(c))

	require.Len(t, c.sent, 1)
	doc, ok := c.sent[0].(*tele.Document)
	require.True(t, ok)
	assert.Equal(t, "Vermoegensteuer.xlsx", doc.FileName)
}

func TestController_Publish_Disabled(t *testing.T) {
	svc := &MockService{}
	svc.On("PublishReport", mock.Anything).Return("", service.ErrPublishingDisabled)

	c := newFakeContext("/publish", "")
	require.NoError(t, NewController(svc, &MockSession{}).Publish(c))

	assert.Contains(t, c.lastText(t), "nicht eingerichtet")
}

func TestController_Cancel(t *testing.T) {
	tests := []struct {
		name   string
		setErr error
		want   string
	}{
		{name: "dialog reset", want: "abgebrochen"},
		{name: "session store failure", setErr: errors.New("redis down"), want: internalErrMsg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &MockSession{}
			sess.On("SetSession", mock.Anything, chatID, model.Session{State: model.DefaultState}).Return(tt.setErr)

			c := newFakeContext("/cancel", "")
			require.NoError(t, NewController(&MockService{}, sess).Cancel(c))

			assert.Contains(t, c.lastText(t), tt.want)
			sess.AssertExpectations(t)
		})
	}
}

func TestController_InitAddDebt_MentionsCancel(t *testing.T) {
	sess := &MockSession{}
	sess.On("SetSession", mock.Anything, chatID, model.Session{State: model.ExpectingDebt}).Return(nil)

	c := newFakeContext("/add_debt", "")
	require.NoError(t, NewController(&MockService{}, sess).InitAddDebt(c))

	assert.Contains(t, c.lastText(t), "/cancel")
}

func TestController_AddAsset_StateResetFailureSuggestsCancel(t *testing.T) {
	svc := &MockService{}
	sess := &MockSession{}

	sess.On("GetSession", mock.Anything, chatID).Return(model.Session{State: model.ExpectingAsset}, nil)
	svc.On("AddAsset", mock.Anything, mock.Anything).Return(model.AssetPosition{
		ID: "a1", Name: "Tagesgeld", Category: model.CategoryCapitalClaims,
		Quantity: decimal.NewFromInt(1), UnitValue: decimal.NewFromInt(5000),
	}, nil)
	svc.On("GetCase", mock.Anything).Return(model.CaseData{}, service.ErrNotFound)
	sess.On("SetSession", mock.Anything, chatID, model.Session{State: model.DefaultState}).Return(errors.New("redis down"))

	c := newFakeContext("claims; Tagesgeld; 1; 5000", "")
	require.NoError(t, NewController(svc, sess).OnText(c))

	text := c.lastText(t)
	assert.Contains(t, text, "5.000,00 €")
	assert.Contains(t, text, "/cancel")
}
