package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/planwell/task-planner-api/internal/constants"
	"github.com/planwell/task-planner-api/internal/database"
	apierrors "github.com/planwell/task-planner-api/internal/errors"
	"github.com/planwell/task-planner-api/internal/models"
)

// RequireTaskAccess checks that the task exists and that the current user is
// one of its members, then stores the task in the request context. Both
// failure modes return 404 so task existence is not leaked.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID := c.Param("id")
		if taskID == "" {
			apierrors.BadRequest(c, "Task ID is required")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Members").
			Preload("Creator").
			Where("id = ?", taskID).
			First(&task).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		var member models.TaskMember
		err := database.GetDB().
			Where("task_id = ? AND user_id = ?", taskID, userID).
			First(&member).Error
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task stored by RequireTaskAccess.
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}

	task, ok := value.(models.Task)
	return task, ok
}
