package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrUserAlreadyExist = errors.New("user already exist")

// GormRepo backs both the catalog and the account services with one pool.
type GormRepo struct {
	DB *gorm.DB
}
