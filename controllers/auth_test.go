package controllers

import (
	"net/http"
	"testing"
	"time"

	"aquaserve-backend/models"
	"aquaserve-backend/store"
	"aquaserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func authRouter(users *fakeUserStore, actor *models.User) *gin.Engine {
	r := gin.New()
	controller := NewAuthController(users)
	r.POST("/auth/login", controller.Login)
	group := r.Group("", asUser(actor))
	group.POST("/auth/register", controller.Register)
	group.GET("/auth/me", controller.Me)
	return r
}

func hashedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:       uuid.New(),
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Password: hash,
		Role:     models.RoleEmployee,
		IsActive: true,
	}
}

func TestLoginIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := hashedUser(t, "correct-horse")
	var saved *models.User
	users := &fakeUserStore{
		getUserByEmail: func(email string) (*models.User, error) {
			if email != user.Email {
				return nil, store.ErrNotFound
			}
			return user, nil
		},
		updateUser: func(u *models.User) error { saved = u; return nil },
	}
	r := authRouter(users, nil)

	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    "  Ravi@Example.com ",
		"password": "correct-horse",
	})
	wantStatus(t, w, http.StatusOK)

	env := decodeResponse(t, w)
	if !env.Success {
		t.Fatal("login response not successful")
	}
	if saved == nil || saved.LastLogin == nil {
		t.Error("lastLogin was not recorded")
	} else if time.Since(*saved.LastLogin) > time.Minute {
		t.Errorf("lastLogin = %v, want recent", saved.LastLogin)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := hashedUser(t, "correct-horse")
	inactive := hashedUser(t, "correct-horse")
	inactive.IsActive = false

	tests := []struct {
		name     string
		email    string
		password string
		lookup   *models.User
	}{
		{"unknown email", "nobody@example.com", "whatever", nil},
		{"wrong password", user.Email, "wrong-horse", user},
		{"disabled account", inactive.Email, "correct-horse", inactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUserStore{
				getUserByEmail: func(email string) (*models.User, error) {
					if tt.lookup == nil {
						return nil, store.ErrNotFound
					}
					return tt.lookup, nil
				},
			}
			r := authRouter(users, nil)

			w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
				"email":    tt.email,
				"password": tt.password,
			})
			wantStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	existing := hashedUser(t, "whatever")
	users := &fakeUserStore{
		getUserByEmail: func(email string) (*models.User, error) { return existing, nil },
		createUser: func(user *models.User) error {
			t.Fatal("duplicate email must not be registered")
			return nil
		},
	}
	r := authRouter(users, adminUser())

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"name":     "Second Ravi",
		"email":    existing.Email,
		"password": "long-enough-pass",
		"role":     "employee",
	})
	wantStatus(t, w, http.StatusConflict)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	var created *models.User
	users := &fakeUserStore{
		createUser: func(user *models.User) error { created = user; return nil },
	}
	r := authRouter(users, adminUser())

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"name":     "New Tech",
		"email":    " Tech@Example.COM ",
		"password": "long-enough-pass",
		"role":     "employee",
	})
	wantStatus(t, w, http.StatusCreated)

	if created.Email != "tech@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", created.Email)
	}
	if !created.IsActive {
		t.Error("new users should start active")
	}
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	users := &fakeUserStore{
		createUser: func(user *models.User) error {
			t.Fatal("invalid email must not be registered")
			return nil
		},
	}
	r := authRouter(users, adminUser())

	for _, email := range []string{"not-an-email", "missing@tld", "two words@example.com"} {
		w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
			"name":     "New Tech",
			"email":    email,
			"password": "long-enough-pass",
			"role":     "employee",
		})
		wantStatus(t, w, http.StatusBadRequest)
	}
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	users := &fakeUserStore{
		getUserByEmail: func(email string) (*models.User, error) {
			t.Fatal("invalid email must not reach the store")
			return nil, nil
		},
	}
	r := authRouter(users, nil)

	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    "not-an-email",
		"password": "whatever",
	})
	wantStatus(t, w, http.StatusBadRequest)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	r := authRouter(&fakeUserStore{}, adminUser())

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"name":     "New Tech",
		"email":    "tech@example.com",
		"password": "short",
		"role":     "employee",
	})
	wantStatus(t, w, http.StatusBadRequest)
}

func TestMeReturnsActingUser(t *testing.T) {
	actor := adminUser()
	r := authRouter(&fakeUserStore{}, actor)

	w := doJSON(t, r, http.MethodGet, "/auth/me", nil)
	wantStatus(t, w, http.StatusOK)
}
