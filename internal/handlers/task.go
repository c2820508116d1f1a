package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planwell/task-planner-api/internal/dto"
	apierrors "github.com/planwell/task-planner-api/internal/errors"
	"github.com/planwell/task-planner-api/internal/middleware"
	"github.com/planwell/task-planner-api/internal/repository"
	"github.com/planwell/task-planner-api/internal/services"
	"github.com/planwell/task-planner-api/internal/utils"
)

// TaskHandler serves task CRUD, membership, completion toggles, and the
// filtered task views.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task, optionally under a parent.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		TaskName     string    `json:"TaskName" binding:"required"`
		TaskDetail   string    `json:"TaskDetail" binding:"required"`
		EndTime      time.Time `json:"EndTime" binding:"required"`
		ExpectedTime int64     `json:"ExpectedTime" binding:"required"`
		Penalty      int       `json:"Penalty" binding:"required"`
		Member       []string  `json:"Member"`
		Parent       *string   `json:"Parent"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Name:         req.TaskName,
		Detail:       req.TaskDetail,
		EndTime:      req.EndTime,
		ExpectedTime: req.ExpectedTime,
		Penalty:      req.Penalty,
		CreatorID:    userID,
		ParentID:     req.Parent,
		Members:      req.Member,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns the task loaded by RequireTaskAccess.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task": dto.ToTaskDTO(task),
	})
}

// UpdateTask applies a partial update to the mutable task fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		TaskName     *string    `json:"TaskName"`
		TaskDetail   *string    `json:"TaskDetail"`
		EndTime      *time.Time `json:"EndTime"`
		ExpectedTime *int64     `json:"ExpectedTime"`
		Penalty      *int       `json:"Penalty"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.UpdateTask(task.ID, services.UpdateTaskInput{
		Name:         req.TaskName,
		Detail:       req.TaskDetail,
		EndTime:      req.EndTime,
		ExpectedTime: req.ExpectedTime,
		Penalty:      req.Penalty,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task. Refused while the task still has children.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// AddMember enrols a user on the task. Idempotent.
func (h *TaskHandler) AddMember(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type AddMemberRequest struct {
		UserID string `json:"UserID" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.AddMember(task.ID, req.UserID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member added successfully",
	})
}

// FinishTask marks the task finished for a member.
func (h *TaskHandler) FinishTask(c *gin.Context) {
	h.toggleCompletion(c, true)
}

// UnfinishTask reopens the task for a member.
func (h *TaskHandler) UnfinishTask(c *gin.Context) {
	h.toggleCompletion(c, false)
}

func (h *TaskHandler) toggleCompletion(c *gin.Context, finished bool) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type ToggleRequest struct {
		UserID string `json:"UserID" binding:"required"`
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var err error
	if finished {
		err = h.taskService.SetFinished(task.ID, req.UserID)
	} else {
		err = h.taskService.SetUnfinished(task.ID, req.UserID)
	}
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated",
	})
}

// ListRootTasks returns the user's root tasks (no parent).
func (h *TaskHandler) ListRootTasks(c *gin.Context) {
	h.listView(c, true, false, nil)
}

// ListLeafTasks returns the user's leaf tasks (no children).
func (h *TaskHandler) ListLeafTasks(c *gin.Context) {
	h.listView(c, false, true, nil)
}

// ListFinishedRootTasks returns root tasks the user has finished.
func (h *TaskHandler) ListFinishedRootTasks(c *gin.Context) {
	finished := true
	h.listView(c, true, false, &finished)
}

// ListFinishedLeafTasks returns leaf tasks the user has finished.
func (h *TaskHandler) ListFinishedLeafTasks(c *gin.Context) {
	finished := true
	h.listView(c, false, true, &finished)
}

func (h *TaskHandler) listView(c *gin.Context, roots, leaves bool, finished *bool) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, _, err := h.taskService.ListTasks(services.TaskViewInput{
		UserID:     userID,
		OnlyRoots:  roots,
		OnlyLeaves: leaves,
		Finished:   finished,
		Sort:       repository.TaskSort(c.DefaultQuery("sort", string(repository.SortByDeadline))),
		Page:       params.Page,
		PageSize:   params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrDetailRequired),
		errors.Is(err, services.ErrEndTimeRequired),
		errors.Is(err, services.ErrExpectedTimeInvalid),
		errors.Is(err, services.ErrPenaltyOutOfRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPenaltyMismatch),
		errors.Is(err, services.ErrTaskHasChildren):
		apierrors.Inconsistent(c, err.Error())
	case errors.Is(err, services.ErrNotTaskMember):
		apierrors.NotMember(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrParentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
