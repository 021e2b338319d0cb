package model

import (
	"time"
)

type Task struct {
	TaskID      string     `firestore:"taskid" gorm:"primaryKey;size:36"`
	CreatedBy   string     `firestore:"createdby" gorm:"index;size:36;not null"`
	Name        string     `firestore:"name" gorm:"not null"`
	DateTime    time.Time  `firestore:"datetime" gorm:"index"`
	Deadline    *time.Time `firestore:"deadline" gorm:"index"`
	PriorityID  string     `firestore:"priorityid" gorm:"index;size:36"`
	CategoryIDs []string   `firestore:"categoryids" gorm:"serializer:json"`
	Completed   bool       `firestore:"completed"`
	CreatedAt   time.Time  `firestore:"createdat"`
	UpdatedAt   time.Time  `firestore:"updatedat"`
}

func (Task) TableName() string {
	return "tasks"
}

// HasCategory reports whether the task already references categoryID.
func (t *Task) HasCategory(categoryID string) bool {
	for _, id := range t.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
