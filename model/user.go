package model

import "time"

type User struct {
	UserID       string    `firestore:"userid" gorm:"primaryKey;size:36"`
	Username     string    `firestore:"username" gorm:"uniqueIndex;size:64;not null"`
	Email        string    `firestore:"email" gorm:"uniqueIndex;size:254;not null"`
	Password     string    `firestore:"password" gorm:"not null"`
	IsFromGoogle bool      `firestore:"isfromgoogle"`
	GoogleID     string    `firestore:"googleid,omitempty" gorm:"index;size:64"`
	Avatar       string    `firestore:"avatar,omitempty"`
	CreatedAt    time.Time `firestore:"createdat"`
	UpdatedAt    time.Time `firestore:"updatedat"`
}

func (User) TableName() string {
	return "users"
}
