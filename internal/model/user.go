package model

import (
	"time"
)

type UserRole string

const (
	Staff   UserRole = "staff"
	Manager UserRole = "manager"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"size:100;unique;not null" json:"email"`
	Password   string    `gorm:"size:100;not null" json:"-"`
	Role       UserRole  `gorm:"type:enum('staff','manager','admin');default:'staff'" json:"role"`
	PracticeID uint      `gorm:"index;not null" json:"practiceId"`
	Practice   *Practice `gorm:"foreignKey:PracticeID" json:"practice,omitempty"`
	Disabled   bool      `gorm:"default:false" json:"disabled"`
	LastLogin  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
