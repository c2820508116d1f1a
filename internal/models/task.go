package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID           string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Detail       string         `gorm:"type:text" json:"detail"`
	EndTime      time.Time      `gorm:"not null" json:"end_time"`
	ExpectedTime int64          `gorm:"not null" json:"expected_time"`
	Penalty      int            `gorm:"not null" json:"penalty"`
	Status       string         `gorm:"type:varchar(20);not null;default:'On'" json:"status"`
	ParentID     *string        `gorm:"type:varchar(36);index" json:"parent_id"`
	CreatorID    string         `gorm:"type:varchar(36);not null" json:"creator_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Parent   *Task        `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Task       `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Creator  User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members  []TaskMember `gorm:"foreignKey:TaskID" json:"members,omitempty"`
}

// IsRoot reports whether the task has no parent. Independent of IsLeaf.
func (t *Task) IsRoot() bool {
	return t.ParentID == nil
}
