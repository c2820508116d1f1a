package repository

import (
	"github.com/planwell/task-planner-api/internal/database"
	"github.com/planwell/task-planner-api/internal/models"
	"github.com/planwell/task-planner-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and its initial membership rows in one transaction
func (r *GormTaskRepository) Create(task *models.Task, members []models.TaskMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		for i := range members {
			members[i].TaskID = task.ID
		}
		if len(members) == 0 {
			return nil
		}
		return tx.Create(&members).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves a filtered task view with its total count. Ordering is a
// presentation concern: it never writes, and ties always fall back to the ID
// so the result does not depend on storage iteration order.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	memberQuery := r.db.Model(&models.TaskMember{}).
		Select("1").
		Where("task_members.task_id = tasks.id").
		Where("task_members.user_id = ?", filter.MemberID).
		Where("task_members.deleted_at IS NULL")
	if filter.Finished != nil {
		memberQuery = memberQuery.Where("task_members.unfinished = ?", !*filter.Finished)
	}

	query := r.db.Model(&models.Task{}).Where("EXISTS (?)", memberQuery)

	if filter.OnlyRoots {
		query = query.Where("tasks.parent_id IS NULL")
	}
	if filter.OnlyLeaves {
		query = query.Where("NOT EXISTS (SELECT 1 FROM tasks children WHERE children.parent_id = tasks.id AND children.deleted_at IS NULL)")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	switch filter.Sort {
	case SortByExpectedTime:
		listQuery = listQuery.Order("tasks.expected_time ASC, tasks.end_time ASC, tasks.id ASC")
	default:
		listQuery = listQuery.Order("tasks.end_time ASC, tasks.expected_time ASC, tasks.id ASC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Members").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists task field changes
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task together with its membership rows and meetings
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskMember{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.Meeting{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Task{}).Error
	})
}

// CountChildren counts the live children of a task
func (r *GormTaskRepository) CountChildren(id string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

// AddMember adds a membership row, resurrecting a soft-deleted one so the
// operation stays idempotent
func (r *GormTaskRepository) AddMember(member *models.TaskMember) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(member).Error
}

// FindMember finds a specific membership row
func (r *GormTaskRepository) FindMember(taskID, userID string) (*models.TaskMember, error) {
	var member models.TaskMember
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// SetMemberUnfinished flips the unfinished flag on a membership row
func (r *GormTaskRepository) SetMemberUnfinished(taskID, userID string, unfinished bool) error {
	return r.db.Model(&models.TaskMember{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Update("unfinished", unfinished).Error
}

// ListMembers lists the live membership rows of a task
func (r *GormTaskRepository) ListMembers(taskID string) ([]models.TaskMember, error) {
	var members []models.TaskMember
	if err := r.db.Where("task_id = ?", taskID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
