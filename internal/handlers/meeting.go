package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planwell/task-planner-api/internal/dto"
	apierrors "github.com/planwell/task-planner-api/internal/errors"
	"github.com/planwell/task-planner-api/internal/services"
	"github.com/planwell/task-planner-api/internal/utils"
)

// MeetingHandler serves meeting CRUD and the per-user meeting list.
type MeetingHandler struct {
	meetingService *services.MeetingService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(meetingService *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
	}
}

// CreateMeeting creates a meeting under an existing task.
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	type CreateMeetingRequest struct {
		TaskID        string    `json:"TaskID" binding:"required"`
		MeetingName   string    `json:"MeetingName" binding:"required"`
		MeetingDetail string    `json:"MeetingDetail"`
		StartTime     time.Time `json:"StartTime" binding:"required"`
		Duration      int64     `json:"Duration" binding:"required"`
	}

	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	meeting, err := h.meetingService.CreateMeeting(services.CreateMeetingInput{
		TaskID:    req.TaskID,
		Name:      req.MeetingName,
		Detail:    req.MeetingDetail,
		StartTime: req.StartTime,
		Duration:  req.Duration,
	})
	if err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMeetingDTO(*meeting))
}

// GetMeeting returns a meeting by ID.
func (h *MeetingHandler) GetMeeting(c *gin.Context) {
	meeting, err := h.meetingService.GetMeeting(c.Param("id"))
	if err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meeting": dto.ToMeetingDTO(*meeting),
	})
}

// UpdateMeeting applies a partial update to a meeting.
func (h *MeetingHandler) UpdateMeeting(c *gin.Context) {
	type UpdateMeetingRequest struct {
		MeetingName   *string    `json:"MeetingName"`
		MeetingDetail *string    `json:"MeetingDetail"`
		StartTime     *time.Time `json:"StartTime"`
		Duration      *int64     `json:"Duration"`
	}

	var req UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	meeting, err := h.meetingService.UpdateMeeting(c.Param("id"), services.UpdateMeetingInput{
		Name:      req.MeetingName,
		Detail:    req.MeetingDetail,
		StartTime: req.StartTime,
		Duration:  req.Duration,
	})
	if err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingDTO(*meeting))
}

// DeleteMeeting removes a meeting; the owning task is untouched.
func (h *MeetingHandler) DeleteMeeting(c *gin.Context) {
	if err := h.meetingService.DeleteMeeting(c.Param("id")); err != nil {
		respondMeetingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Meeting deleted successfully",
	})
}

// ListMeetings lists meetings for the tasks the user belongs to.
func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	userID, ok := requireSubject(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	meetings, _, err := h.meetingService.ListMeetings(userID, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch meetings")
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingListResponse(meetings))
}

func respondMeetingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMeetingNameRequired),
		errors.Is(err, services.ErrStartTimeRequired),
		errors.Is(err, services.ErrMeetingDurationInvalid):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMeetingNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
