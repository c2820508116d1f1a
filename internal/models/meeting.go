package models

import (
	"time"

	"gorm.io/gorm"
)

type Meeting struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Detail    string         `gorm:"type:text" json:"detail"`
	StartTime time.Time      `gorm:"not null" json:"start_time"`
	Duration  int64          `gorm:"not null" json:"duration"`
	TaskID    string         `gorm:"type:varchar(36);not null;index" json:"task_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
