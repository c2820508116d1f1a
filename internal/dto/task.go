package dto

import (
	"time"

	"github.com/planwell/task-planner-api/internal/models"
)

// TaskDTO represents a task in API responses. Member holds every enrolled
// user; UnfinishedMember is the subset that still has the task open, so a
// user is "finished" exactly when they appear in the first list but not the
// second.
type TaskDTO struct {
	TaskID           string    `json:"TaskID"`
	TaskName         string    `json:"TaskName"`
	TaskDetail       string    `json:"TaskDetail"`
	EndTime          time.Time `json:"EndTime"`
	ExpectedTime     int64     `json:"ExpectedTime"`
	Penalty          int       `json:"Penalty"`
	Status           string    `json:"Status"`
	Parent           *string   `json:"Parent"`
	Member           []string  `json:"Member"`
	UnfinishedMember []string  `json:"UnfinishedMember"`
	CreatedTime      time.Time `json:"CreatedTime"`
}

// TaskListResponse wraps the task views the client screens read.
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// ToTaskDTO converts a Task model (with Members preloaded) to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		TaskID:           task.ID,
		TaskName:         task.Name,
		TaskDetail:       task.Detail,
		EndTime:          task.EndTime,
		ExpectedTime:     task.ExpectedTime,
		Penalty:          task.Penalty,
		Status:           task.Status,
		Parent:           task.ParentID,
		Member:           []string{},
		UnfinishedMember: []string{},
		CreatedTime:      task.CreatedAt,
	}

	for _, m := range task.Members {
		dto.Member = append(dto.Member, m.UserID)
		if m.Unfinished {
			dto.UnfinishedMember = append(dto.UnfinishedMember, m.UserID)
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to the list envelope
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{Tasks: items}
}
