package dto

import (
	"time"

	"github.com/planwell/task-planner-api/internal/models"
)

// MeetingDTO represents a meeting in API responses.
type MeetingDTO struct {
	MeetingID     string    `json:"MeetingID"`
	MeetingName   string    `json:"MeetingName"`
	MeetingDetail string    `json:"MeetingDetail"`
	StartTime     time.Time `json:"StartTime"`
	Duration      int64     `json:"Duration"`
	TaskID        string    `json:"TaskID"`
}

// MeetingListResponse wraps the meeting list the client reads.
type MeetingListResponse struct {
	Meetings []MeetingDTO `json:"meetings"`
}

// ToMeetingDTO converts a Meeting model to MeetingDTO
func ToMeetingDTO(meeting models.Meeting) MeetingDTO {
	return MeetingDTO{
		MeetingID:     meeting.ID,
		MeetingName:   meeting.Name,
		MeetingDetail: meeting.Detail,
		StartTime:     meeting.StartTime,
		Duration:      meeting.Duration,
		TaskID:        meeting.TaskID,
	}
}

// ToMeetingListResponse converts a slice of meetings to the list envelope
func ToMeetingListResponse(meetings []models.Meeting) MeetingListResponse {
	items := make([]MeetingDTO, len(meetings))
	for i, meeting := range meetings {
		items[i] = ToMeetingDTO(meeting)
	}

	return MeetingListResponse{Meetings: items}
}
