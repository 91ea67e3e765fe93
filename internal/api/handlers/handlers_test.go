package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finbot/internal/category"
	"github.com/dvloznov/finbot/internal/currency"
	"github.com/dvloznov/finbot/internal/ingest"
	"github.com/dvloznov/finbot/internal/message"
	"github.com/dvloznov/finbot/internal/storage"
)

type stubGateway struct {
	answer string
}

func (g *stubGateway) Classify(_ context.Context, _ string, _ []string, _ []category.Example) (string, error) {
	return g.answer, nil
}

type fixture struct {
	store    *storage.Memory
	resolver *category.Resolver
	svc      *ingest.Service
}

func newFixture() *fixture {
	store := storage.NewMemory()
	parser := message.NewParser(currency.NewConverter("RUB", currency.DefaultRates()))
	resolver := category.New(store.Cache(), category.NewDictionaryMatcher(category.DefaultKeywords()), &stubGateway{answer: "другое"})
	return &fixture{
		store:    store,
		resolver: resolver,
		svc:      ingest.NewService(parser, resolver, store),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestMessagesHandler_Ingest(t *testing.T) {
	f := newFixture()
	h := NewMessagesHandler(f.svc, nil, zerolog.Nop())

	rec := postJSON(t, h.Ingest, "/api/v1/messages", map[string]interface{}{
		"user_id": "u1",
		"text":    "500 кофе",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var tx storage.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tx))
	assert.Equal(t, "кафе", tx.Category)
	assert.Equal(t, "500", tx.Amount.String())
	assert.True(t, tx.IsExpense)
}

func TestMessagesHandler_IngestNotTransaction(t *testing.T) {
	f := newFixture()
	h := NewMessagesHandler(f.svc, nil, zerolog.Nop())

	rec := postJSON(t, h.Ingest, "/api/v1/messages", map[string]interface{}{
		"user_id": "u1",
		"text":    "привет как дела",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMessagesHandler_IngestValidation(t *testing.T) {
	f := newFixture()
	h := NewMessagesHandler(f.svc, nil, zerolog.Nop())

	rec := postJSON(t, h.Ingest, "/api/v1/messages", map[string]interface{}{
		"text": "500 кофе",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", bytes.NewReader([]byte("{not json")))
	rec = httptest.NewRecorder()
	h.Ingest(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessagesHandler_AsyncWithoutQueue(t *testing.T) {
	f := newFixture()
	h := NewMessagesHandler(f.svc, nil, zerolog.Nop())

	rec := postJSON(t, h.Ingest, "/api/v1/messages", map[string]interface{}{
		"user_id": "u1",
		"text":    "500 кофе",
		"async":   true,
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTransactionsHandler_ListAndDeleteLast(t *testing.T) {
	f := newFixture()
	_, err := f.svc.IngestText(context.Background(), "u1", "500 кофе")
	require.NoError(t, err)
	_, err = f.svc.IngestText(context.Background(), "u1", "300 такси")
	require.NoError(t, err)

	h := NewTransactionsHandler(f.store, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?user_id=u1", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Transactions []storage.Transaction `json:"transactions"`
		Count        int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Equal(t, 2, listResp.Count)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/last?user_id=u1", nil)
	rec = httptest.NewRecorder()
	h.DeleteLast(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/last?user_id=u2", nil)
	rec = httptest.NewRecorder()
	h.DeleteLast(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactionsHandler_ListRequiresUser(t *testing.T) {
	f := newFixture()
	h := NewTransactionsHandler(f.store, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionsHandler_Summary(t *testing.T) {
	f := newFixture()
	_, err := f.svc.IngestText(context.Background(), "u1", "500 кофе")
	require.NoError(t, err)
	_, err = f.svc.IngestText(context.Background(), "u1", "+10000 зарплата")
	require.NoError(t, err)

	h := NewTransactionsHandler(f.store, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary?user_id=u1&period=today", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Period  string          `json:"period"`
		Summary storage.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "today", resp.Period)
	assert.Equal(t, "500", resp.Summary.ExpenseTotal.String())
	assert.Equal(t, "10000", resp.Summary.IncomeTotal.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/summary?user_id=u1&period=quarter", nil)
	rec = httptest.NewRecorder()
	h.Summary(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoriesHandler_List(t *testing.T) {
	f := newFixture()
	h := NewCategoriesHandler(f.store, f.resolver, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?user_id=u1", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Categories []storage.Category `json:"categories"`
		Count      int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Count)
}

func TestCategoriesHandler_ListKindFilter(t *testing.T) {
	f := newFixture()
	h := NewCategoriesHandler(f.store, f.resolver, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?user_id=u1&kind=income", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Categories []storage.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Categories)
	for _, c := range resp.Categories {
		assert.False(t, c.IsExpense, "kind=income returns income categories only, got %q", c.Name)
	}
}

func TestCategoriesHandler_ListUnknownKind(t *testing.T) {
	f := newFixture()
	h := NewCategoriesHandler(f.store, f.resolver, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?user_id=u1&kind=savings", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoriesHandler_Correct(t *testing.T) {
	f := newFixture()
	h := NewCategoriesHandler(f.store, f.resolver, zerolog.Nop())

	rec := postJSON(t, h.Correct, "/api/v1/corrections", map[string]string{
		"user_id":  "u1",
		"label":    "перевод маме",
		"category": "подарки",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The correction now drives resolution.
	res := f.resolver.Resolve(context.Background(), "перевод маме", []string{"подарки", "кафе"}, nil)
	assert.Equal(t, "подарки", res.Category)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, category.SourceCache, res.Source)
}

func TestCategoriesHandler_CorrectUnknownCategory(t *testing.T) {
	f := newFixture()
	h := NewCategoriesHandler(f.store, f.resolver, zerolog.Nop())

	rec := postJSON(t, h.Correct, "/api/v1/corrections", map[string]string{
		"user_id":  "u1",
		"label":    "перевод маме",
		"category": "криптовалюта",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
