package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/userdesk/backend/internal/model"
	"github.com/userdesk/backend/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CurrentUser godoc
// @Summary Get current user
// @Description Returns the authenticated caller's record
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserView
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /users/currentUser [get]
func (h *UserHandler) CurrentUser(c *gin.Context) {
	caller := GetAuthUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.svc.CurrentUser(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.View())
}

// GetByID godoc
// @Summary Get user by ID
// @Description Returns the user with the given ID; callers may read their own record, admins any record
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id query string true "User ID"
// @Success 200 {object} model.UserView
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /users/id [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	caller := GetAuthUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	user, err := h.svc.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.View())
}

// Update godoc
// @Summary Update user
// @Description Updates name and/or password; blank fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body model.UpdateUserRequest true "Fields to update"
// @Success 200 {object} model.UserView
// @Failure 400 {object} model.ValidationErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	caller := GetAuthUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.Update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.View())
}

// Delete godoc
// @Summary Delete user
// @Description Admin only; deleting your own account is rejected
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.StatusResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	caller := GetAuthUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}

// List godoc
// @Summary List users
// @Description Admin only
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserView
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	caller := GetAuthUser(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	users, err := h.svc.List(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	views := make([]model.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	c.JSON(http.StatusOK, views)
}
