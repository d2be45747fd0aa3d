package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Wedding struct {
	gorm.Model
	WeddingName string         `json:"weddingName" gorm:"not null"`
	WeddingDate *time.Time     `json:"weddingDate"`
	Venue       string         `json:"venue"`
	Theme       string         `json:"theme"`
	Settings    datatypes.JSON `json:"settings"`
	Users       []*User        `json:"users,omitempty" gorm:"many2many:wedding_users;"`
}

// HasUser reports whether the given user is associated with this wedding.
func (w *Wedding) HasUser(userID uint) bool {
	for _, u := range w.Users {
		if u != nil && u.ID == userID {
			return true
		}
	}
	return false
}
