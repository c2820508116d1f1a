package services

import (
	"fmt"

	"github.com/planwell/task-planner-api/internal/constants"
	"github.com/planwell/task-planner-api/internal/repository"
	"github.com/planwell/task-planner-api/internal/scheduler"
)

// ScheduleService computes recommended work orders over a user's eligible
// tasks. Eligible means: a leaf, and still unfinished for that user.
type ScheduleService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *ScheduleService {
	return &ScheduleService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// Arrange returns the user's unfinished leaf task IDs in recommended order.
// alg selects the strategy; 0 falls back to the user's stored preference.
// The result is deterministic for an unchanged task snapshot.
func (s *ScheduleService) Arrange(userID string, alg int) ([]string, error) {
	if alg == 0 {
		user, err := s.userRepo.FindByID(userID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		alg = user.Arrange
	}
	if alg < constants.StrategyTardiness || alg > constants.StrategyShortest {
		alg = constants.DefaultStrategy
	}

	unfinished := false
	tasks, _, err := s.taskRepo.List(repository.TaskFilter{
		MemberID:   userID,
		OnlyLeaves: true,
		Finished:   &unfinished,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible tasks: %w", err)
	}

	jobs := make([]scheduler.Job, len(tasks))
	for i, t := range tasks {
		jobs[i] = scheduler.Job{
			ID:           t.ID,
			ExpectedTime: t.ExpectedTime,
			EndTime:      t.EndTime.Unix(),
			Penalty:      t.Penalty,
		}
	}

	return scheduler.Arrange(jobs, alg), nil
}
