package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/userdesk/backend/internal/model"
	"github.com/userdesk/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary User registration
// @Description Creates a new user in the system
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "New user data"
// @Success 201 {object} model.RegisterResponse
// @Failure 400 {object} model.ValidationErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.RegisterResponse{
		Message: "User created successfully",
		User:    user.View(),
	})
}

// Login godoc
// @Summary User login
// @Description Authenticates user and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		Type:  "Bearer",
		User: model.LoginUser{
			Login: user.Login,
			Name:  user.Name,
			Role:  user.Role,
		},
	})
}
