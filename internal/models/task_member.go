package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskMember is the (task, user) membership edge. A member with
// Unfinished == true still has the task open; "finished" is the absence
// from the unfinished set, not a field on the task itself.
type TaskMember struct {
	TaskID     string         `gorm:"type:varchar(36);primarykey" json:"task_id"`
	UserID     string         `gorm:"type:varchar(36);primarykey" json:"user_id"`
	Unfinished bool           `gorm:"not null;default:true" json:"unfinished"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
