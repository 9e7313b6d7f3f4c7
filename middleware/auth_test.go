package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquaserve-backend/models"
	"aquaserve-backend/store"
	"aquaserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUserStore struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserStore) CreateUser(context.Context, *models.User) error { return nil }

func (s *stubUserStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func (s *stubUserStore) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (s *stubUserStore) ListUsers(context.Context, store.UserFilter) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserStore) UpdateUser(context.Context, *models.User) error { return nil }
func (s *stubUserStore) DeleteUser(context.Context, uuid.UUID) error    { return nil }

func (s *stubUserStore) CountActiveOrders(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func protectedRouter(users store.UserStore, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/protected", Auth(users), handler)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthReReadsUserFromStore(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{ID: uuid.New(), Role: models.RoleEmployee, IsActive: true}
	users := &stubUserStore{users: map[uuid.UUID]*models.User{user.ID: user}}

	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := protectedRouter(users, func(c *gin.Context) {
		got := CurrentUser(c)
		if got == nil || got.ID != user.ID {
			t.Error("current user not set from store")
		}
		c.Status(http.StatusOK)
	})

	if w := get(r, token); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	r := protectedRouter(&stubUserStore{}, func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := get(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsMalformedBearerPrefix(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{ID: uuid.New(), Role: models.RoleEmployee, IsActive: true}
	users := &stubUserStore{users: map[uuid.UUID]*models.User{user.ID: user}}

	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := protectedRouter(users, func(c *gin.Context) { c.Status(http.StatusOK) })

	// No space after the scheme; must not be sliced as if it were valid
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "BearerX"+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for a malformed scheme", w.Code)
	}
}

func TestAuthRejectsDeactivatedUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// Deactivation takes effect on the next request even with a valid token
	user := &models.User{ID: uuid.New(), Role: models.RoleEmployee, IsActive: false}
	users := &stubUserStore{users: map[uuid.UUID]*models.User{user.ID: user}}

	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := protectedRouter(users, func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := get(r, token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsDeletedUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateToken(uuid.NewString())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := protectedRouter(&stubUserStore{}, func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := get(r, token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }

	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		SetCurrentUser(c, &models.User{ID: uuid.New(), Role: models.RoleEmployee, IsActive: true})
	}, AdminOnly(), handler)
	r.GET("/admin2", func(c *gin.Context) {
		SetCurrentUser(c, &models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true})
	}, AdminOnly(), handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("employee status = %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin2", nil))
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
}
