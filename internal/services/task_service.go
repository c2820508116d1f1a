package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planwell/task-planner-api/internal/constants"
	"github.com/planwell/task-planner-api/internal/models"
	"github.com/planwell/task-planner-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrParentNotFound      = errors.New("parent task not found")
	ErrNameRequired        = errors.New("task name is required")
	ErrDetailRequired      = errors.New("task detail is required")
	ErrEndTimeRequired     = errors.New("end time is required")
	ErrExpectedTimeInvalid = errors.New("expected time must be positive")
	ErrPenaltyOutOfRange   = errors.New("penalty must be between 1 and 10")
	ErrPenaltyMismatch     = errors.New("penalty must equal the parent task's penalty")
	ErrTaskHasChildren     = errors.New("task still has child tasks")
	ErrNotTaskMember       = errors.New("user is not a member of the task")
)

// TaskService owns the task forest: creation with penalty inheritance,
// membership edges, per-member completion, and the filtered views the
// client screens read.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name         string
	Detail       string
	EndTime      time.Time
	ExpectedTime int64
	Penalty      int
	CreatorID    string
	ParentID     *string
	// Members are additional user IDs to enrol besides the creator.
	Members []string
}

// UpdateTaskInput represents input for updating a task. Only the listed
// fields are mutable; reparenting is out of contract.
type UpdateTaskInput struct {
	Name         *string
	Detail       *string
	EndTime      *time.Time
	ExpectedTime *int64
	Penalty      *int
}

// TaskViewInput selects one of the filtered task views for a user.
type TaskViewInput struct {
	UserID     string
	OnlyRoots  bool
	OnlyLeaves bool
	// Finished narrows to tasks the user has (or has not) finished when
	// non-nil; nil returns the user's full view.
	Finished *bool
	Sort     repository.TaskSort
	Page     int
	PageSize int
}

// CreateTask validates the field rules and the parent-penalty invariant,
// creates the task with the creator enrolled as an unfinished member, and
// backfills any extra members. Member backfill is an at-least-once loop of
// idempotent adds: a partial failure leaves a recoverable state, never a
// half-written task.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Detail == "" {
		return nil, ErrDetailRequired
	}
	if input.EndTime.IsZero() {
		return nil, ErrEndTimeRequired
	}
	if input.ExpectedTime <= 0 {
		return nil, ErrExpectedTimeInvalid
	}
	if input.Penalty < constants.MinPenalty || input.Penalty > constants.MaxPenalty {
		return nil, ErrPenaltyOutOfRange
	}

	if _, err := s.userRepo.FindByID(input.CreatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find creator: %w", err)
	}

	if input.ParentID != nil {
		parent, err := s.taskRepo.FindByID(*input.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to find parent task: %w", err)
		}
		if parent.Penalty != input.Penalty {
			return nil, ErrPenaltyMismatch
		}
	}

	task := &models.Task{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Detail:       input.Detail,
		EndTime:      input.EndTime,
		ExpectedTime: input.ExpectedTime,
		Penalty:      input.Penalty,
		Status:       constants.TaskStatusOn,
		ParentID:     input.ParentID,
		CreatorID:    input.CreatorID,
	}

	creator := models.TaskMember{
		UserID:     input.CreatorID,
		Unfinished: true,
	}

	if err := s.taskRepo.Create(task, []models.TaskMember{creator}); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	for _, userID := range uniqueStrings(input.Members) {
		if userID == input.CreatorID {
			continue
		}
		if err := s.addMemberWithRetry(task.ID, userID); err != nil {
			return nil, fmt.Errorf("failed to enrol member %s: %w", userID, err)
		}
	}

	return s.taskRepo.FindByID(task.ID, "Members", "Creator")
}

// GetTask returns a task with its membership rows.
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Members", "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial field update. A penalty edit is re-checked
// against a live parent and refused while live children carry a different
// penalty, so the subtree invariant survives edits.
func (s *TaskService) UpdateTask(taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		task.Name = *input.Name
	}
	if input.Detail != nil {
		task.Detail = *input.Detail
	}
	if input.EndTime != nil {
		task.EndTime = *input.EndTime
	}
	if input.ExpectedTime != nil {
		if *input.ExpectedTime <= 0 {
			return nil, ErrExpectedTimeInvalid
		}
		task.ExpectedTime = *input.ExpectedTime
	}
	if input.Penalty != nil && *input.Penalty != task.Penalty {
		if *input.Penalty < constants.MinPenalty || *input.Penalty > constants.MaxPenalty {
			return nil, ErrPenaltyOutOfRange
		}
		if err := s.checkPenaltyConsistency(task, *input.Penalty); err != nil {
			return nil, err
		}
		task.Penalty = *input.Penalty
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Members", "Creator")
}

// DeleteTask removes a task. Deletion is refused while live children exist;
// membership rows and the task's meetings go with it.
func (s *TaskService) DeleteTask(taskID string) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	children, err := s.taskRepo.CountChildren(taskID)
	if err != nil {
		return fmt.Errorf("failed to count children: %w", err)
	}
	if children > 0 {
		return ErrTaskHasChildren
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AddMember enrols a user on a task. Adding an existing member is a no-op
// success; a new member starts unfinished.
func (s *TaskService) AddMember(taskID, userID string) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	member := &models.TaskMember{
		TaskID:     taskID,
		UserID:     userID,
		Unfinished: true,
	}
	if err := s.taskRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// SetFinished marks the task finished for the user. Idempotent; only
// members may toggle.
func (s *TaskService) SetFinished(taskID, userID string) error {
	return s.setUnfinished(taskID, userID, false)
}

// SetUnfinished reopens the task for the user. Idempotent; only members may
// toggle.
func (s *TaskService) SetUnfinished(taskID, userID string) error {
	return s.setUnfinished(taskID, userID, true)
}

func (s *TaskService) setUnfinished(taskID, userID string, unfinished bool) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.taskRepo.FindMember(taskID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotTaskMember
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if err := s.taskRepo.SetMemberUnfinished(taskID, userID, unfinished); err != nil {
		return fmt.Errorf("failed to update completion state: %w", err)
	}

	return nil
}

// ListTasks returns one of the filtered views over the user's tasks.
func (s *TaskService) ListTasks(input TaskViewInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		MemberID:   input.UserID,
		OnlyRoots:  input.OnlyRoots,
		OnlyLeaves: input.OnlyLeaves,
		Finished:   input.Finished,
		Sort:       input.Sort,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

func (s *TaskService) checkPenaltyConsistency(task *models.Task, penalty int) error {
	if task.ParentID != nil {
		parent, err := s.taskRepo.FindByID(*task.ParentID)
		if err == nil && parent.Penalty != penalty {
			return ErrPenaltyMismatch
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find parent task: %w", err)
		}
	}

	withChildren, err := s.taskRepo.FindByID(task.ID, "Children")
	if err != nil {
		return fmt.Errorf("failed to load children: %w", err)
	}
	for _, child := range withChildren.Children {
		if child.Penalty != penalty {
			return ErrPenaltyMismatch
		}
	}

	return nil
}

func (s *TaskService) addMemberWithRetry(taskID, userID string) error {
	var err error
	for attempt := 0; attempt < constants.MemberBackfillRetries; attempt++ {
		if err = s.AddMember(taskID, userID); err == nil {
			return nil
		}
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrTaskNotFound) {
			return err
		}
	}
	return err
}

// uniqueStrings removes duplicate values while keeping first-seen order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
