package repository

import (
	"github.com/planwell/task-planner-api/internal/database"
	"github.com/planwell/task-planner-api/internal/models"
	"github.com/planwell/task-planner-api/internal/utils"
	"gorm.io/gorm"
)

// GormMeetingRepository is a GORM implementation of MeetingRepository
type GormMeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new MeetingRepository
func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &GormMeetingRepository{db: db}
}

// Create creates a new meeting
func (r *GormMeetingRepository) Create(meeting *models.Meeting) error {
	return r.db.Create(meeting).Error
}

// FindByID finds a meeting by ID with optional preloading
func (r *GormMeetingRepository) FindByID(id string, preload ...string) (*models.Meeting, error) {
	var meeting models.Meeting
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&meeting).Error; err != nil {
		return nil, err
	}

	return &meeting, nil
}

// ListByUserID lists meetings whose owning task has the user as a member,
// ordered by start time
func (r *GormMeetingRepository) ListByUserID(userID string, page, pageSize int) ([]models.Meeting, int64, error) {
	var meetings []models.Meeting

	memberQuery := r.db.Model(&models.TaskMember{}).
		Select("1").
		Where("task_members.task_id = meetings.task_id").
		Where("task_members.user_id = ?", userID).
		Where("task_members.deleted_at IS NULL")

	query := r.db.Model(&models.Meeting{}).Where("EXISTS (?)", memberQuery)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("meetings.start_time ASC, meetings.id ASC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  pageSize,
			Offset: (page - 1) * pageSize,
		}))
	}

	if err := listQuery.Find(&meetings).Error; err != nil {
		return nil, 0, err
	}

	return meetings, total, nil
}

// Update persists meeting field changes
func (r *GormMeetingRepository) Update(meeting *models.Meeting) error {
	return r.db.Save(meeting).Error
}

// Delete soft deletes a meeting
func (r *GormMeetingRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Meeting{}).Error
}
