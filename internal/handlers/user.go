package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/planwell/task-planner-api/internal/dto"
	apierrors "github.com/planwell/task-planner-api/internal/errors"
	"github.com/planwell/task-planner-api/internal/middleware"
	"github.com/planwell/task-planner-api/internal/services"
)

// UserHandler serves user preference reads and writes.
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// GetUser returns a user's profile and preferences.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser stores the user's arrangement-strategy preference.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Arrange *int `json:"Arrange"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Arrange != nil {
		if err := h.authService.UpdateArrange(userID, *req.Arrange); err != nil {
			respondAuthError(c, err)
			return
		}
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetArrange returns only the stored arrangement preference.
func (h *UserHandler) GetArrange(c *gin.Context) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Arrange": user.Arrange,
	})
}

// requireSubject resolves the :id path parameter and rejects requests whose
// session belongs to a different user.
func requireSubject(c *gin.Context) (string, bool) {
	subjectID := c.Param("id")
	if subjectID == "" {
		apierrors.BadRequest(c, "User ID is required")
		return "", false
	}

	sessionUser, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return "", false
	}
	if sessionUser != subjectID {
		apierrors.Forbidden(c, "")
		return "", false
	}

	return subjectID, true
}
