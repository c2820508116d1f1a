package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planwell/task-planner-api/internal/constants"
	"github.com/planwell/task-planner-api/internal/database"
	"github.com/planwell/task-planner-api/internal/dto"
	"github.com/planwell/task-planner-api/internal/models"
	"github.com/planwell/task-planner-api/internal/repository"
	"github.com/planwell/task-planner-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MeetingHandlerTestSuite defines the test suite for MeetingHandler
type MeetingHandlerTestSuite struct {
	suite.Suite
	db             *gorm.DB
	handler        *MeetingHandler
	authService    *services.AuthService
	taskService    *services.TaskService
	meetingService *services.MeetingService
}

// SetupTest runs before each test
func (suite *MeetingHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskMember{},
		&models.Meeting{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	meetingRepo := repository.NewMeetingRepository(suite.db)
	suite.authService = services.NewAuthService(userRepo)
	suite.taskService = services.NewTaskService(taskRepo, userRepo)
	suite.meetingService = services.NewMeetingService(meetingRepo, taskRepo)
	suite.handler = NewMeetingHandler(suite.meetingService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *MeetingHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *MeetingHandlerTestSuite) createTestUser(username string) *models.User {
	user, err := suite.authService.Signup(services.SignupInput{
		Username: username,
		Password: "supersecret",
	})
	suite.Require().NoError(err)
	return user
}

func (suite *MeetingHandlerTestSuite) createTestTask(name, creatorID string) *models.Task {
	task, err := suite.taskService.CreateTask(services.CreateTaskInput{
		Name:         name,
		Detail:       "Test Detail",
		EndTime:      time.Now().Add(48 * time.Hour),
		ExpectedTime: 3600,
		Penalty:      5,
		CreatorID:    creatorID,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *MeetingHandlerTestSuite) createTestMeeting(name, taskID string, start time.Time) *models.Meeting {
	meeting, err := suite.meetingService.CreateMeeting(services.CreateMeetingInput{
		TaskID:    taskID,
		Name:      name,
		Detail:    "Weekly sync",
		StartTime: start,
		Duration:  1800,
	})
	suite.Require().NoError(err)
	return meeting
}

func (suite *MeetingHandlerTestSuite) createAuthContext(method, url string, body []byte, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *MeetingHandlerTestSuite) TestCreateMeeting_Success() {
	user := suite.createTestUser("organizer")
	task := suite.createTestTask("Project", user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"TaskID":        task.ID,
		"MeetingName":   "Kickoff",
		"MeetingDetail": "First session",
		"StartTime":     time.Now().Add(2 * time.Hour).Format(time.RFC3339),
		"Duration":      3600,
	})

	c, w := suite.createAuthContext("POST", "/meetings", body, user.ID)
	suite.handler.CreateMeeting(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.MeetingDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(suite.T(), response.MeetingID)
	assert.Equal(suite.T(), "Kickoff", response.MeetingName)
	assert.Equal(suite.T(), task.ID, response.TaskID)
}

func (suite *MeetingHandlerTestSuite) TestCreateMeeting_UnknownTask() {
	user := suite.createTestUser("organizer")

	body, _ := json.Marshal(map[string]interface{}{
		"TaskID":      "no-such-task",
		"MeetingName": "Orphan",
		"StartTime":   time.Now().Add(2 * time.Hour).Format(time.RFC3339),
		"Duration":    3600,
	})

	c, w := suite.createAuthContext("POST", "/meetings", body, user.ID)
	suite.handler.CreateMeeting(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *MeetingHandlerTestSuite) TestCreateMeeting_MissingFields() {
	user := suite.createTestUser("organizer")
	task := suite.createTestTask("Project", user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"TaskID":      task.ID,
		"MeetingName": "No schedule",
	})

	c, w := suite.createAuthContext("POST", "/meetings", body, user.ID)
	suite.handler.CreateMeeting(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *MeetingHandlerTestSuite) TestGetMeeting_Success() {
	user := suite.createTestUser("organizer")
	task := suite.createTestTask("Project", user.ID)
	meeting := suite.createTestMeeting("Standup", task.ID, time.Now().Add(time.Hour))

	c, w := suite.createAuthContext("GET", "/meetings/"+meeting.ID, nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: meeting.ID}}
	suite.handler.GetMeeting(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Meeting dto.MeetingDTO `json:"meeting"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), meeting.ID, response.Meeting.MeetingID)
	assert.Equal(suite.T(), "Standup", response.Meeting.MeetingName)
}

func (suite *MeetingHandlerTestSuite) TestGetMeeting_NotFound() {
	user := suite.createTestUser("organizer")

	c, w := suite.createAuthContext("GET", "/meetings/missing", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	suite.handler.GetMeeting(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *MeetingHandlerTestSuite) TestUpdateMeeting_Partial() {
	user := suite.createTestUser("organizer")
	task := suite.createTestTask("Project", user.ID)
	meeting := suite.createTestMeeting("Standup", task.ID, time.Now().Add(time.Hour))

	body, _ := json.Marshal(map[string]interface{}{
		"MeetingName": "Retro",
	})

	c, w := suite.createAuthContext("PUT", "/meetings/"+meeting.ID, body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: meeting.ID}}
	suite.handler.UpdateMeeting(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.MeetingDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Retro", response.MeetingName)
	assert.Equal(suite.T(), meeting.Detail, response.MeetingDetail)
	assert.Equal(suite.T(), meeting.Duration, response.Duration)
}

func (suite *MeetingHandlerTestSuite) TestDeleteMeeting_KeepsTask() {
	user := suite.createTestUser("organizer")
	task := suite.createTestTask("Project", user.ID)
	meeting := suite.createTestMeeting("Standup", task.ID, time.Now().Add(time.Hour))

	c, w := suite.createAuthContext("DELETE", "/meetings/"+meeting.ID, nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: meeting.ID}}
	suite.handler.DeleteMeeting(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	_, err := suite.meetingService.GetMeeting(meeting.ID)
	assert.ErrorIs(suite.T(), err, services.ErrMeetingNotFound)

	// The owning task survives its meetings.
	var stored models.Task
	assert.NoError(suite.T(), suite.db.Where("id = ?", task.ID).First(&stored).Error)
}

func (suite *MeetingHandlerTestSuite) TestListMeetings_FilteredByMembership() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")

	aliceTask := suite.createTestTask("Alice task", alice.ID)
	bobTask := suite.createTestTask("Bob task", bob.ID)

	first := suite.createTestMeeting("First", aliceTask.ID, time.Now().Add(time.Hour))
	second := suite.createTestMeeting("Second", aliceTask.ID, time.Now().Add(3*time.Hour))
	suite.createTestMeeting("Other", bobTask.ID, time.Now().Add(2*time.Hour))

	c, w := suite.createAuthContext("GET", "/users/"+alice.ID+"/meetings", nil, alice.ID)
	c.Params = gin.Params{{Key: "id", Value: alice.ID}}
	suite.handler.ListMeetings(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.MeetingListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Meetings, 2)

	// Ordered by start time.
	assert.Equal(suite.T(), first.ID, response.Meetings[0].MeetingID)
	assert.Equal(suite.T(), second.ID, response.Meetings[1].MeetingID)
}

func (suite *MeetingHandlerTestSuite) TestListMeetings_Paginates() {
	user := suite.createTestUser("organizer")
	task := suite.createTestTask("Project", user.ID)

	for i := 0; i < 3; i++ {
		suite.createTestMeeting("Session", task.ID, time.Now().Add(time.Duration(i+1)*time.Hour))
	}

	c, w := suite.createAuthContext("GET", "/users/"+user.ID+"/meetings?page=1&limit=2", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: user.ID}}
	suite.handler.ListMeetings(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response dto.MeetingListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Meetings, 2)

	c, w = suite.createAuthContext("GET", "/users/"+user.ID+"/meetings?page=2&limit=2", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: user.ID}}
	suite.handler.ListMeetings(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Meetings, 1)
}

func TestMeetingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MeetingHandlerTestSuite))
}
