package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planwell/task-planner-api/internal/models"
	"github.com/planwell/task-planner-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMeetingNotFound        = errors.New("meeting not found")
	ErrMeetingNameRequired    = errors.New("meeting name is required")
	ErrStartTimeRequired      = errors.New("start time is required")
	ErrMeetingDurationInvalid = errors.New("duration must be positive")
)

// MeetingService handles meeting CRUD. Every meeting belongs to exactly one
// task; deleting a meeting never touches the task.
type MeetingService struct {
	meetingRepo repository.MeetingRepository
	taskRepo    repository.TaskRepository
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(meetingRepo repository.MeetingRepository, taskRepo repository.TaskRepository) *MeetingService {
	return &MeetingService{
		meetingRepo: meetingRepo,
		taskRepo:    taskRepo,
	}
}

// CreateMeetingInput represents input for creating a meeting
type CreateMeetingInput struct {
	TaskID    string
	Name      string
	Detail    string
	StartTime time.Time
	Duration  int64
}

// UpdateMeetingInput represents input for updating a meeting
type UpdateMeetingInput struct {
	Name      *string
	Detail    *string
	StartTime *time.Time
	Duration  *int64
}

// CreateMeeting creates a meeting under an existing task.
func (s *MeetingService) CreateMeeting(input CreateMeetingInput) (*models.Meeting, error) {
	if input.Name == "" {
		return nil, ErrMeetingNameRequired
	}
	if input.StartTime.IsZero() {
		return nil, ErrStartTimeRequired
	}
	if input.Duration <= 0 {
		return nil, ErrMeetingDurationInvalid
	}

	if _, err := s.taskRepo.FindByID(input.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	meeting := &models.Meeting{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Detail:    input.Detail,
		StartTime: input.StartTime,
		Duration:  input.Duration,
		TaskID:    input.TaskID,
	}

	if err := s.meetingRepo.Create(meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	return meeting, nil
}

// GetMeeting retrieves a meeting by ID.
func (s *MeetingService) GetMeeting(id string) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}

	return meeting, nil
}

// UpdateMeeting applies a partial field update.
func (s *MeetingService) UpdateMeeting(id string, input UpdateMeetingInput) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrMeetingNameRequired
		}
		meeting.Name = *input.Name
	}
	if input.Detail != nil {
		meeting.Detail = *input.Detail
	}
	if input.StartTime != nil {
		meeting.StartTime = *input.StartTime
	}
	if input.Duration != nil {
		if *input.Duration <= 0 {
			return nil, ErrMeetingDurationInvalid
		}
		meeting.Duration = *input.Duration
	}

	if err := s.meetingRepo.Update(meeting); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}

	return meeting, nil
}

// DeleteMeeting removes a meeting. The owning task is untouched.
func (s *MeetingService) DeleteMeeting(id string) error {
	if _, err := s.meetingRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMeetingNotFound
		}
		return fmt.Errorf("failed to find meeting: %w", err)
	}

	if err := s.meetingRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}

	return nil
}

// ListMeetings lists the meetings attached to tasks the user is a member of.
func (s *MeetingService) ListMeetings(userID string, page, pageSize int) ([]models.Meeting, int64, error) {
	meetings, total, err := s.meetingRepo.ListByUserID(userID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}

	return meetings, total, nil
}
