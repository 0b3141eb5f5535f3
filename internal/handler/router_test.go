package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/atlant-cms/internal/app"
	"github.com/prn-tf/atlant-cms/internal/auth"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/mediator"
	"github.com/prn-tf/atlant-cms/internal/repository"
	"github.com/prn-tf/atlant-cms/internal/repository/memory"
	"github.com/prn-tf/atlant-cms/internal/service"
	"github.com/prn-tf/atlant-cms/internal/storage"
)

// testServer is a full HTTP stack over memory-backed services, with one
// registered editor account and its bearer token.
type testServer struct {
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	locks := lock.NewMemoryLocker()
	logger := zerolog.Nop()

	groupRepo := memory.New(repository.CertificateGroups())
	itemRepo := memory.New(repository.CertificateItems())
	certRepo := memory.New(repository.Certificates())
	portfolioRepo := memory.New(repository.Portfolios())

	backend, err := storage.NewLocal(t.TempDir(), "/media")
	require.NoError(t, err)

	services := app.Services{
		CertificateGroups: service.NewCertificateGroupService(groupRepo, certRepo, locks, logger),
		CertificateItems:  service.NewCertificateItemService(itemRepo, certRepo, locks, logger),
		Certificates:      service.NewCertificateService(certRepo, groupRepo, itemRepo, locks, logger),
		Members:           service.NewMemberService(memory.New(repository.Members()), locks, logger),
		News:              service.NewNewsService(memory.New(repository.News()), locks, logger),
		Portfolios:        service.NewPortfolioService(portfolioRepo, locks, logger),
		Products:          service.NewProductService(memory.New(repository.Products()), portfolioRepo, locks, logger),
		Reviews:           service.NewReviewService(memory.New(repository.Reviews()), locks, logger),
		SeoSettings:       service.NewSeoSettingsService(memory.New(repository.SeoSettings()), locks, logger),
		Submissions:       service.NewSubmissionService(memory.New(repository.Submissions()), locks, logger),
		Vacancies:         service.NewVacancyService(memory.New(repository.Vacancies()), locks, logger),
		Users:             service.NewUserService(memory.New(repository.Users()), locks, logger),
		Files:             service.NewFileService(backend, logger),
	}

	m := mediator.New(logger)
	require.NoError(t, app.Register(m, services))
	m.Freeze()

	tokens, err := auth.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), "atlant", time.Hour)
	require.NoError(t, err)

	editor, err := services.Users.Register(t.Context(), "editor@atlant.example", "correct-horse", "Редактор")
	require.NoError(t, err)
	token, err := tokens.Issue(editor)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Mediator: m,
		Tokens:   tokens,
		Logger:   logger,
	})

	return &testServer{handler: router.Handler(), token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	s := newTestServer(t)

	body := map[string]any{"name": "Иванов", "position": "Директор"}

	rec := s.do(t, http.MethodPost, "/api/v1/admin/members", body, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/members", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestNewsLifecycle(t *testing.T) {
	s := newTestServer(t)

	create := map[string]any{
		"category": "Компания",
		"title":    "Запуск новой линии",
		"slug":     "new-line",
	}
	rec := s.do(t, http.MethodPost, "/api/v1/admin/news", create, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID   uuid.UUID `json:"id"`
		Slug string    `json:"slug"`
	}
	decodeInto(t, rec, &created)
	require.Equal(t, "new-line", created.Slug)

	// Same slug again conflicts.
	rec = s.do(t, http.MethodPost, "/api/v1/admin/news", create, true)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Public read by slug, no token.
	rec = s.do(t, http.MethodGet, "/api/v1/news/new-line", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	// Public read by id.
	rec = s.do(t, http.MethodGet, "/api/v1/news/"+created.ID.String(), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	// Public list.
	rec = s.do(t, http.MethodGet, "/api/v1/news", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Items []json.RawMessage `json:"items"`
		Total int64             `json:"total"`
	}
	decodeInto(t, rec, &listed)
	require.Equal(t, int64(1), listed.Total)
	require.Len(t, listed.Items, 1)

	// Update preserves the id.
	update := map[string]any{
		"category": "Компания",
		"title":    "Запуск второй линии",
		"slug":     "new-line",
	}
	rec = s.do(t, http.MethodPut, "/api/v1/admin/news/"+created.ID.String(), update, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated struct {
		ID    uuid.UUID `json:"id"`
		Title string    `json:"title"`
	}
	decodeInto(t, rec, &updated)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Запуск второй линии", updated.Title)

	// Delete, then 404.
	rec = s.do(t, http.MethodDelete, "/api/v1/admin/news/"+created.ID.String(), nil, true)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/news/"+created.ID.String(), nil, false)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)

	// Bad slug is a 400 from domain validation.
	rec := s.do(t, http.MethodPost, "/api/v1/admin/news", map[string]any{
		"category": "Компания",
		"title":    "Без слага",
		"slug":     "Плохой Слаг",
	}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown body fields are rejected.
	rec = s.do(t, http.MethodPost, "/api/v1/admin/members", map[string]any{
		"name":     "Иванов",
		"position": "Директор",
		"bogus":    true,
	}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductReferenceErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/admin/products", map[string]any{
		"category":   "Насосы",
		"name":       "Насос центробежный",
		"slug":       "pump",
		"portfolios": []string{uuid.NewString()},
	}, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error    string `json:"error"`
		Resource string `json:"resource"`
	}
	decodeInto(t, rec, &resp)
	require.NotEmpty(t, resp.Resource)
}

func TestPublicSubmission(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/submissions", map[string]any{
		"form_type": "callback",
		"name":      "Иван Иванов",
		"phone":     "+7 900 000-00-00",
	}, false)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Unknown form types never reach storage.
	rec = s.do(t, http.MethodPost, "/api/v1/submissions", map[string]any{
		"form_type": "spam",
		"name":      "Иван Иванов",
	}, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Submissions are only readable by editors.
	rec = s.do(t, http.MethodGet, "/api/v1/admin/submissions", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Total int64 `json:"total"`
	}
	decodeInto(t, rec, &listed)
	require.Equal(t, int64(1), listed.Total)
}

func TestSeoLookup(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/admin/seo-settings", map[string]any{
		"page_path": "/about",
		"page_name": "О компании",
		"title":     "О компании Атлант",
		"is_active": true,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/seo-settings/lookup?path=/about", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var settings struct {
		PagePath string `json:"page_path"`
		Title    string `json:"title"`
	}
	decodeInto(t, rec, &settings)
	require.Equal(t, "/about", settings.PagePath)

	rec = s.do(t, http.MethodGet, "/api/v1/seo-settings/lookup?path=/missing", nil, false)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/seo-settings/lookup", nil, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemberOrdering(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/admin/members", map[string]any{
		"name":     "Иванов",
		"position": "Директор",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	decodeInto(t, rec, &created)

	rec = s.do(t, http.MethodPatch, "/api/v1/admin/members/"+created.ID.String()+"/order",
		map[string]any{"order": 3}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated struct {
		Order int `json:"order"`
	}
	decodeInto(t, rec, &updated)
	require.Equal(t, 3, updated.Order)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "editor@atlant.example",
		"password": "correct-horse",
	}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeInto(t, rec, &login)
	require.NotEmpty(t, login.Token)
	require.Equal(t, "editor@atlant.example", login.User.Email)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "editor@atlant.example",
		"password": "wrong",
	}, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The issued token works on the admin surface.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	me := httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
}
