package model

import "time"

type Category struct {
	CategoryID string    `firestore:"categoryid" gorm:"primaryKey;size:36"`
	CreatedBy  string    `firestore:"createdby" gorm:"uniqueIndex:idx_category_owner_name;size:36;not null"`
	Name       string    `firestore:"name" gorm:"uniqueIndex:idx_category_owner_name;not null"`
	Emoji      string    `firestore:"emoji,omitempty"`
	CreatedAt  time.Time `firestore:"createdat"`
	UpdatedAt  time.Time `firestore:"updatedat"`
}

func (Category) TableName() string {
	return "categories"
}
