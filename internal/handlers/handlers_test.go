package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/CoderDill/chat-app-hedera/internal/ledger"
	"github.com/CoderDill/chat-app-hedera/internal/models"
	"github.com/CoderDill/chat-app-hedera/internal/reply"
	"github.com/CoderDill/chat-app-hedera/internal/store"
)

func TestMain(m *testing.M) {
	// bleve starts its analysis workers at package init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/blevesearch/bleve/index.AnalysisWorker"))
}

type fakeChat struct {
	received []string
	queries  []string
	ids      []string
	count    int64
	err      error
}

func (f *fakeChat) Ingest(ctx context.Context, message string) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.received = append(f.received, message)
	return &models.Message{ID: "0b6f3f5e-4a38-4a8a-9d55-5c1f1d3c1e20", Input: message, Reply: reply.SampleResponse}, nil
}

func (f *fakeChat) Search(ctx context.Context, query string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, query)
	return f.ids, nil
}

func (f *fakeChat) Count(ctx context.Context) (int64, error) {
	return f.count, f.err
}

type fakeIndex struct {
	store.IndexStore
	pingErr error
}

func (f fakeIndex) Ping(context.Context) error { return f.pingErr }
func (f fakeIndex) Driver() string             { return store.DriverSQLite }

type fakeLedger struct {
	ledger.Notifier
}

func (fakeLedger) Driver() string { return ledger.DriverLog }

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestChatQueryParam(t *testing.T) {
	svc := &fakeChat{}
	h := NewHandler(svc, fakeIndex{}, fakeLedger{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat?message="+url.QueryEscape("hello world testing"), nil)
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponse
	decode(t, rec, &resp)
	assert.Equal(t, reply.SampleResponse, resp.Response)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, []string{"hello world testing"}, svc.received)
}

func TestChatJSONBody(t *testing.T) {
	svc := &fakeChat{}
	h := NewHandler(svc, fakeIndex{}, fakeLedger{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"ping"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ping"}, svc.received)
}

func TestChatValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"missing", "/chat", "", http.StatusBadRequest},
		{"empty param", "/chat?message=", "", http.StatusBadRequest},
		{"empty json", "/chat", `{"message":""}`, http.StatusBadRequest},
		{"bad json", "/chat", `{"message":`, http.StatusBadRequest},
		{"too long", "/chat?message=" + strings.Repeat("a", MaxMessageBytes+1), "", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeChat{}
			h := NewHandler(svc, fakeIndex{}, fakeLedger{}, nil)

			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Chat(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, svc.received)
		})
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: timeout", ledger.ErrSubmission), http.StatusBadGateway},
		{fmt.Errorf("%w: 500", reply.ErrGeneration), http.StatusBadGateway},
		{fmt.Errorf("put: %w: dial tcp", store.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{store.ErrDuplicateKey, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeChat{err: tt.err}, fakeIndex{}, fakeLedger{}, nil)

			rec := httptest.NewRecorder()
			h.Chat(rec, httptest.NewRequest(http.MethodPost, "/chat?message=ping", nil))

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			decode(t, rec, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSearch(t *testing.T) {
	svc := &fakeChat{ids: []string{"a", "b"}}
	h := NewHandler(svc, fakeIndex{}, fakeLedger{}, nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/search?query=testing", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SearchResponse
	decode(t, rec, &resp)
	assert.Equal(t, []SearchResult{{ID: "a", Text: PlaceholderText}, {ID: "b", Text: PlaceholderText}}, resp.Messages)
	assert.Equal(t, []string{"testing"}, svc.queries)
}

func TestSearchEmptyResultIsArray(t *testing.T) {
	h := NewHandler(&fakeChat{}, fakeIndex{}, fakeLedger{}, nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/search?query=nothing", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messages":[]}`, rec.Body.String())
}

func TestSearchValidation(t *testing.T) {
	h := NewHandler(&fakeChat{}, fakeIndex{}, fakeLedger{}, nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/search?query="+strings.Repeat("x", MaxQueryBytes+1), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchUnavailable(t *testing.T) {
	h := NewHandler(&fakeChat{err: store.ErrStoreUnavailable}, fakeIndex{}, fakeLedger{}, nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/search?query=x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	h := NewHandler(&fakeChat{}, fakeIndex{}, fakeLedger{}, nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	decode(t, rec, &resp)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "pass", resp.Checks["index"].Status)
	assert.Equal(t, ledger.DriverLog, resp.Checks["ledger"].Message)
	assert.NotContains(t, resp.Checks, "redis")
}

func TestHealthDegraded(t *testing.T) {
	h := NewHandler(&fakeChat{}, fakeIndex{pingErr: store.ErrStoreUnavailable}, fakeLedger{}, nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	decode(t, rec, &resp)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "fail", resp.Checks["index"].Status)
}

func TestStats(t *testing.T) {
	h := NewHandler(&fakeChat{count: 7}, fakeIndex{}, fakeLedger{}, nil)

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_messages":7,"index_driver":"sqlite","ledger_driver":"log"}`, rec.Body.String())
}

func TestRoot(t *testing.T) {
	h := NewHandler(&fakeChat{}, fakeIndex{}, fakeLedger{}, nil)

	rec := httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RootResponse
	decode(t, rec, &resp)
	assert.Contains(t, resp.Endpoints, "POST /chat")
}
