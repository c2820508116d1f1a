package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/planwell/task-planner-api/internal/errors"
	"github.com/planwell/task-planner-api/internal/services"
)

// ScheduleHandler serves the arrangement endpoint.
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// GetSchedule returns the user's unfinished leaf task IDs in recommended
// order. ?alg= selects the strategy; omitted, the user's stored preference
// applies.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}

	alg := 0
	if algStr := c.Query("alg"); algStr != "" {
		parsed, err := strconv.Atoi(algStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid alg parameter")
			return
		}
		alg = parsed
	}

	taskIDs, err := h.scheduleService.Arrange(userID, alg)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": taskIDs,
	})
}
