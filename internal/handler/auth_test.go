package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/userdesk/backend/internal/config"
	"github.com/userdesk/backend/internal/model"
	"github.com/userdesk/backend/internal/service"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	for _, existing := range r.users {
		if existing.Login == user.Login {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	saved := *user
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	r.users[saved.ID] = &saved
	out := saved
	return &out, nil
}

func (r *fakeUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	for _, user := range r.users {
		if user.Login == login {
			out := *user
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if user, ok := r.users[id]; ok {
		out := *user
		return &out, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	existing, ok := r.users[user.ID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	existing.Name = user.Name
	existing.PasswordHash = user.PasswordHash
	existing.UpdatedAt = time.Now()
	out := *existing
	return &out, nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) UserExists(ctx context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.AuthConfig{JWTSecret: "test-secret", TokenTTL: "1h", BcryptCost: "4"}
	repo := newFakeUserRepo()

	tokens, err := service.NewTokenService(cfg)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	authService, err := service.NewAuthService(repo, tokens, cfg)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	userService, err := service.NewUserService(repo, cfg)
	if err != nil {
		t.Fatalf("NewUserService: %v", err)
	}

	r := gin.New()
	authHandler := NewAuthHandler(authService)
	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	userHandler := NewUserHandler(userService)
	users := r.Group("/users")
	users.Use(AuthMiddleware(authService))
	users.GET("", userHandler.List)
	users.GET("/currentUser", userHandler.CurrentUser)
	users.GET("/id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, login, password, role string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "Test " + login,
		"login":    login,
		"password": password,
		"role":     role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", login, w.Code, w.Body.String())
	}
	var resp model.RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.User.ID
}

func loginUser(t *testing.T, r *gin.Engine, login, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"login": login, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", login, w.Code, w.Body.String())
	}
	var resp model.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" || resp.Type != "Bearer" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
	return resp.Token
}

func TestRegisterLoginScenario(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "John Silva",
		"login":    "johnsilva",
		"password": "mypassword123",
		"role":     "USER",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var created model.RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.User.Login != "johnsilva" {
		t.Fatalf("expected login johnsilva, got %q", created.User.Login)
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"login": "johnsilva", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}

	token := loginUser(t, r, "johnsilva", "mypassword123")

	w = doJSON(t, r, http.MethodGet, "/users/currentUser", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from currentUser, got %d (%s)", w.Code, w.Body.String())
	}
	var me model.UserView
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.Login != "johnsilva" {
		t.Fatalf("expected caller johnsilva, got %q", me.Login)
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "J",
		"login":    "ab",
		"password": "123",
		"role":     "ROOT",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp model.ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"name", "login", "password", "role"} {
		if _, ok := resp.Errors[field]; !ok {
			t.Fatalf("expected violation for %q, got %v", field, resp.Errors)
		}
	}
}

func TestRegisterDuplicateConflict(t *testing.T) {
	r, _ := newTestRouter(t)
	registerUser(t, r, "johnsilva", "mypassword123", "USER")

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "John Again",
		"login":    "johnsilva",
		"password": "otherpassword",
		"role":     "USER",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestRegisterMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
