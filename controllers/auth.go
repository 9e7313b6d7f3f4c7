package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"aquaserve-backend/middleware"
	"aquaserve-backend/models"
	"aquaserve-backend/store"
	"aquaserve-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	users store.UserStore
}

func NewAuthController(users store.UserStore) *AuthController {
	return &AuthController{users: users}
}

// Email format is checked after trim+lowercase normalization, not with a
// binding tag; a tag would reject padded input before it can be normalized.
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin employee"`
}

func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.ValidateEmail(email) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	user, err := a.users.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is disabled")
		return
	}

	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := a.users.UpdateUser(c.Request.Context(), user); err != nil {
		// Login still succeeds if the timestamp write fails
		utils.RespondWithData(c, http.StatusOK, "Login successful", gin.H{"token": token, "user": user})
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// Register creates a new user account. Admin-only.
func (a *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.ValidateEmail(email) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	if _, err := a.users.GetUserByEmail(c.Request.Context(), email); err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    email,
		Phone:    input.Phone,
		Password: input.Password, // hashed in BeforeCreate hook
		Role:     input.Role,
		IsActive: true,
	}

	if err := a.users.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.RespondWithError(c, http.StatusConflict, "Email already registered")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "User registered", user)
}

func (a *AuthController) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", user)
}
