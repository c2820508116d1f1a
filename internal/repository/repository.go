package repository

import (
	"github.com/planwell/task-planner-api/internal/models"
)

// TaskSort selects the presentation order for task views.
type TaskSort string

const (
	// SortByDeadline orders by ascending end time, ties broken by
	// ascending expected time, then ID.
	SortByDeadline TaskSort = "deadline"
	// SortByExpectedTime orders by ascending expected time, ties broken
	// by ascending end time, then ID.
	SortByExpectedTime TaskSort = "expectedTime"
)

// TaskFilter holds filtering options for task views. All views are scoped to
// one member user.
type TaskFilter struct {
	MemberID string
	// OnlyRoots keeps tasks with no parent; OnlyLeaves keeps tasks with no
	// live children. The two partitions are independent.
	OnlyRoots  bool
	OnlyLeaves bool
	// Finished filters on the member's unfinished flag when non-nil.
	Finished *bool
	Sort     TaskSort
	Page     int
	PageSize int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task and its initial membership rows atomically
	Create(task *models.Task, members []models.TaskMember) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// List retrieves a filtered task view with its total count
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists task field changes
	Update(task *models.Task) error

	// Delete soft deletes a task together with its membership rows and
	// meetings
	Delete(id string) error

	// CountChildren counts the live children of a task
	CountChildren(id string) (int64, error)

	// AddMember adds a membership row, resurrecting a soft-deleted one
	AddMember(member *models.TaskMember) error

	// FindMember finds a specific membership row
	FindMember(taskID, userID string) (*models.TaskMember, error)

	// SetMemberUnfinished flips the unfinished flag on a membership row
	SetMemberUnfinished(taskID, userID string, unfinished bool) error

	// ListMembers lists the live membership rows of a task
	ListMembers(taskID string) ([]models.TaskMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// UpdateArrange persists a user's arrangement-strategy preference
	UpdateArrange(id string, arrange int) error
}

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(meeting *models.Meeting) error

	// FindByID finds a meeting by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Meeting, error)

	// ListByUserID lists meetings whose owning task has the user as a
	// member, ordered by start time
	ListByUserID(userID string, page, pageSize int) ([]models.Meeting, int64, error)

	// Update persists meeting field changes
	Update(meeting *models.Meeting) error

	// Delete soft deletes a meeting
	Delete(id string) error
}
