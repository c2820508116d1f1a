package dto

import (
	"github.com/planwell/task-planner-api/internal/models"
)

// UserDTO represents a user in API responses. Field names follow the wire
// format the mobile client reads.
type UserDTO struct {
	UserID   string `json:"UserID"`
	UserName string `json:"UserName"`
	Arrange  int    `json:"Arrange"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		UserID:   user.ID,
		UserName: user.Username,
		Arrange:  user.Arrange,
	}
}
