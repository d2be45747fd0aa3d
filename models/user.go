package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string     `json:"email" gorm:"uniqueIndex;not null"`
	Password string     `json:"-"`
	IsAdmin  bool       `json:"isAdmin"`
	IsVenue  bool       `json:"isVenue"`
	Weddings []*Wedding `json:"weddings,omitempty" gorm:"many2many:wedding_users;"`
}
