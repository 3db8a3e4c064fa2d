package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beewise-preorder-go/internal/config"
	"beewise-preorder-go/internal/handlers"
	"beewise-preorder-go/internal/metrics"
	"beewise-preorder-go/internal/model"
	"beewise-preorder-go/internal/repository"
	"beewise-preorder-go/internal/server"
	"beewise-preorder-go/internal/service"
)

const testToken = "test-operator-token"

type memStore struct {
	mu      sync.Mutex
	nextID  uint
	records []model.Preorder
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*model.Preorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].Email == email {
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, nil
}

func (s *memStore) Create(_ context.Context, preorder *model.Preorder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].Email == preorder.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.nextID++
	preorder.ID = s.nextID
	s.records = append(s.records, *preorder)
	return nil
}

func (s *memStore) ListAll(_ context.Context) ([]model.Preorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Preorder, len(s.records))
	copy(out, s.records)
	sort.Slice(out, func(i, j int) bool {
		return out[i].SignupDate.After(out[j].SignupDate)
	})
	return out, nil
}

func (s *memStore) MarkNotified(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].Email == email {
			s.records[i].Notified = true
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := int64(len(s.records))
	s.records = nil
	return count, nil
}

type stubMailer struct {
	fail bool
}

func (m *stubMailer) Send(context.Context, string, string, string) (string, error) {
	if m.fail {
		return "", assert.AnError
	}
	return "<stub-id>", nil
}

func newTestRouter(store service.Store, mail *stubMailer) (*gin.Engine, *service.PreorderService) {
	svc := service.New(store, mail, metrics.NewMetrics(prometheus.NewRegistry()))
	h := handlers.NewHandlers(svc)
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Admin:  config.AdminConfig{Token: testToken},
	}
	return server.SetupRouter(h, cfg), svc
}

func doRequest(router *gin.Engine, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupReturnsCreated(t *testing.T) {
	store := &memStore{}
	router, svc := newTestRouter(store, &stubMailer{})

	w := doRequest(router, http.MethodPost, "/api/preorder", model.PreorderRequest{Email: "bee@hive.io"}, false)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp model.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)

	svc.DrainSends(2 * time.Second)
	record, err := store.FindByEmail(context.Background(), "bee@hive.io")
	require.NoError(t, err)
	assert.NotNil(t, record)
}

func TestSignupValidation(t *testing.T) {
	router, _ := newTestRouter(&memStore{}, &stubMailer{})

	// Empty email
	w := doRequest(router, http.MethodPost, "/api/preorder", model.PreorderRequest{Email: ""}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No body at all
	req := httptest.NewRequest(http.MethodPost, "/api/preorder", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupDuplicateReturnsConflict(t *testing.T) {
	store := &memStore{}
	router, svc := newTestRouter(store, &stubMailer{})

	w := doRequest(router, http.MethodPost, "/api/preorder", model.PreorderRequest{Email: "a@x.com"}, false)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/preorder", model.PreorderRequest{Email: " A@X.com "}, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "duplicate_email", resp.Error)

	svc.DrainSends(2 * time.Second)
}

func TestSignupSucceedsWhenMailerFails(t *testing.T) {
	store := &memStore{}
	router, svc := newTestRouter(store, &stubMailer{fail: true})

	w := doRequest(router, http.MethodPost, "/api/preorder", model.PreorderRequest{Email: "c@x.com"}, false)
	assert.Equal(t, http.StatusCreated, w.Code)

	svc.DrainSends(2 * time.Second)
	record, err := store.FindByEmail(context.Background(), "c@x.com")
	require.NoError(t, err)
	assert.NotNil(t, record)
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	router, _ := newTestRouter(&memStore{}, &stubMailer{})

	w := doRequest(router, http.MethodGet, "/api/admin/preorders", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/api/admin/send-notification", model.PreorderRequest{Email: "a@x.com"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/admin/preorders", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListPreordersNewestFirst(t *testing.T) {
	store := &memStore{}
	router, _ := newTestRouter(store, &stubMailer{})

	t1 := time.Now().UTC().Add(-time.Hour)
	t2 := time.Now().UTC()
	require.NoError(t, store.Create(context.Background(), &model.Preorder{Email: "a@x.com", SignupDate: t1}))
	require.NoError(t, store.Create(context.Background(), &model.Preorder{Email: "b@x.com", SignupDate: t2}))

	w := doRequest(router, http.MethodGet, "/api/admin/preorders", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Preorders, 2)
	assert.Equal(t, "b@x.com", resp.Preorders[0].Email)
	assert.Equal(t, "a@x.com", resp.Preorders[1].Email)
}

func TestSendNotification(t *testing.T) {
	store := &memStore{}
	router, _ := newTestRouter(store, &stubMailer{})

	require.NoError(t, store.Create(context.Background(), &model.Preorder{
		Email:      "a@x.com",
		SignupDate: time.Now().UTC(),
	}))

	w := doRequest(router, http.MethodPost, "/api/admin/send-notification", model.PreorderRequest{Email: "a@x.com"}, true)
	assert.Equal(t, http.StatusOK, w.Code)

	record, err := store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, record.Notified)
}

func TestSendNotificationValidation(t *testing.T) {
	router, _ := newTestRouter(&memStore{}, &stubMailer{})

	w := doRequest(router, http.MethodPost, "/api/admin/send-notification", model.PreorderRequest{Email: ""}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendNotificationFailure(t *testing.T) {
	store := &memStore{}
	router, _ := newTestRouter(store, &stubMailer{fail: true})

	require.NoError(t, store.Create(context.Background(), &model.Preorder{
		Email:      "a@x.com",
		SignupDate: time.Now().UTC(),
	}))

	w := doRequest(router, http.MethodPost, "/api/admin/send-notification", model.PreorderRequest{Email: "a@x.com"}, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "send_error", resp.Error)

	record, err := store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.False(t, record.Notified)
}

func TestClearPreorders(t *testing.T) {
	store := &memStore{}
	router, _ := newTestRouter(store, &stubMailer{})

	for _, email := range []string{"a@x.com", "b@x.com"} {
		require.NoError(t, store.Create(context.Background(), &model.Preorder{
			Email:      email,
			SignupDate: time.Now().UTC(),
		}))
	}

	w := doRequest(router, http.MethodDelete, "/api/admin/preorders", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ClearResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.RowsDeleted)

	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(&memStore{}, &stubMailer{})

	w := doRequest(router, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}
