package handlers_test

import (
	"KVideo/internal/auth"
	"KVideo/internal/config"
	"KVideo/internal/handlers"
	"KVideo/internal/model"
	"KVideo/internal/repo"
	"KVideo/internal/service"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, id int64, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockUserDataRepo struct{ mock.Mock }

func (m *mockUserDataRepo) GetValue(ctx context.Context, userID int64, key string) (string, error) {
	args := m.Called(ctx, userID, key)
	return args.String(0), args.Error(1)
}

func (m *mockUserDataRepo) SetValue(ctx context.Context, userID int64, key, value string) error {
	args := m.Called(ctx, userID, key, value)
	return args.Error(0)
}

func (m *mockUserDataRepo) DeleteAll(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ repo.UserDataRepository = (*mockUserDataRepo)(nil)

// --- Helpers ---
func newTestRouter(t *testing.T, ur repo.UserRepository, dr repo.UserDataRepository) http.Handler {
	t.Helper()
	cfg := &config.Config{AuthSecret: testSecret}
	logger := zap.NewNop().Sugar()

	userSvc := service.NewUserService(ur, dr)
	dataSvc := service.NewUserDataService(dr)
	resolver := auth.NewResolver(ur)
	tokens := auth.NewTokenService(cfg.AuthSecret)

	h := handlers.NewHandler(userSvc, dataSvc, resolver, tokens, logger, cfg)
	return h.Router
}

func addAuthCookie(t *testing.T, req *http.Request, u *model.User) {
	t.Helper()
	token, err := auth.NewTokenService(testSecret).Issue(u)
	assert.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
}

func jsonReq(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// --- Tests ---
func TestAuth_Login(t *testing.T) {
	m := new(mockUserRepo)
	router := newTestRouter(t, m, &mockUserDataRepo{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	t.Run("ok sets cookie and returns user", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByUsername", mock.Anything, "alice").Return(&model.User{ID: 2, Username: "alice", PasswordHash: string(hash)}, nil).Once()

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, jsonReq(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`))

		assert.Equal(t, http.StatusOK, rr.Code)
		hasCookie := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == auth.CookieName && c.Value != "" {
				hasCookie = true
				assert.True(t, c.HttpOnly)
				assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			}
		}
		assert.True(t, hasCookie, "Set-Cookie kvideo_token expected")

		var body struct {
			User auth.AuthUser `json:"user"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, int64(2), body.User.ID)
		m.AssertExpectations(t)
	})

	t.Run("unauthorized on bad password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByUsername", mock.Anything, "alice").Return(&model.User{ID: 2, Username: "alice", PasswordHash: string(hash)}, nil).Once()

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, jsonReq(http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		m.AssertExpectations(t)
	})

	t.Run("bad request on missing fields", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, jsonReq(http.MethodPost, "/auth/login", `{"username":"alice"}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuth_Me(t *testing.T) {
	m := new(mockUserRepo)
	router := newTestRouter(t, m, &mockUserDataRepo{})

	t.Run("fresh row wins over token claims", func(t *testing.T) {
		m.ExpectedCalls = nil
		// в токене премиум выключен, в БД уже включён — отдаём свежее
		m.On("GetUserByID", mock.Anything, int64(5)).Return(&model.User{ID: 5, Username: "bob", DisablePremium: false}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		addAuthCookie(t, req, &model.User{ID: 5, Username: "bob"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			User auth.AuthUser `json:"user"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, int64(5), body.User.ID)
		assert.False(t, body.User.DisablePremium)
		m.AssertExpectations(t)
	})

	t.Run("deleted user gets 401 despite valid token", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, int64(5)).Return((*model.User)(nil), gorm.ErrRecordNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		addAuthCookie(t, req, &model.User{ID: 5, Username: "bob"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		m.AssertExpectations(t)
	})

	t.Run("no session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuth_ChangePassword(t *testing.T) {
	m := new(mockUserRepo)
	router := newTestRouter(t, m, &mockUserDataRepo{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.DefaultCost)
	user := &model.User{ID: 4, Username: "dave", PasswordHash: string(hash)}

	t.Run("ok", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, int64(4)).Return(user, nil).Twice()
		m.On("UpdateUser", mock.Anything, int64(4), mock.Anything).Return(nil).Once()

		req := jsonReq(http.MethodPut, "/auth/password", `{"currentPassword":"oldpass","newPassword":"newpass1"}`)
		addAuthCookie(t, req, user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		m.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, int64(4)).Return(user, nil).Twice()

		req := jsonReq(http.MethodPut, "/auth/password", `{"currentPassword":"nope","newPassword":"newpass1"}`)
		addAuthCookie(t, req, user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		m.AssertExpectations(t)
	})

	t.Run("short new password", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByID", mock.Anything, int64(4)).Return(user, nil).Once()

		req := jsonReq(http.MethodPut, "/auth/password", `{"currentPassword":"oldpass","newPassword":"123"}`)
		addAuthCookie(t, req, user)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		m.AssertExpectations(t)
	})
}

func TestAuth_Logout(t *testing.T) {
	m := new(mockUserRepo)
	router := newTestRouter(t, m, &mockUserDataRepo{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	addAuthCookie(t, req, &model.User{ID: 1, Username: "alice"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "cookie must be cleared on logout")
}
