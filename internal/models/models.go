package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var Roles = []string{RoleUser, RoleAdmin}

var Categories = []string{
	"handbag",
	"backpack",
	"crossbody",
	"tote",
	"clutch",
	"messenger",
	"duffel",
	"laptop",
}

func ValidRole(role string) bool {
	return slices.Contains(Roles, role)
}

func ValidCategory(category string) bool {
	return slices.Contains(Categories, category)
}

type Bag struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Name        string    `gorm:"size:100;not null"             json:"name"`
	Description string    `gorm:"size:1000;not null"            json:"description"`
	Price       float64   `gorm:"not null;index"                json:"price"`
	Category    string    `gorm:"size:32;not null;index"        json:"category"`
	Image       string    `gorm:"not null"                      json:"image"`
	Stock       int       `gorm:"not null;default:0"            json:"stock"`
	CreatedAt   time.Time `gorm:"index"                         json:"createdAt"`
	UpdatedAt   time.Time `                                     json:"updatedAt"`
}

func (b *Bag) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"        json:"id"`
	Name         string    `gorm:"size:50;not null"            json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"                    json:"-"`
	Role         string    `gorm:"size:16;not null;default:user;index" json:"role"`
	CreatedAt    time.Time `gorm:"index"                       json:"createdAt"`
	UpdatedAt    time.Time `                                   json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
