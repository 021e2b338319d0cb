package model

import "time"

// PriorityColors is the palette a priority color is drawn from.
var PriorityColors = []string{
	"#f74242",
	"#1cfbad",
	"#1a8afa",
	"#f8f8f8",
	"#d27cf7",
	"#fa9828",
	"#f7d61b",
	"#f750b7",
}

const DefaultPriorityColor = "#f74242"

type Priority struct {
	PriorityID string    `firestore:"priorityid" gorm:"primaryKey;size:36"`
	CreatedBy  string    `firestore:"createdby" gorm:"uniqueIndex:idx_priority_owner_name;size:36;not null"`
	Name       string    `firestore:"name" gorm:"uniqueIndex:idx_priority_owner_name;not null"`
	Color      string    `firestore:"color" gorm:"size:7;not null"`
	CreatedAt  time.Time `firestore:"createdat"`
	UpdatedAt  time.Time `firestore:"updatedat"`
}

func (Priority) TableName() string {
	return "priorities"
}

func IsPaletteColor(color string) bool {
	for _, c := range PriorityColors {
		if c == color {
			return true
		}
	}
	return false
}
