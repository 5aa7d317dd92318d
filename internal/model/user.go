package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a cashier or manager account tied to one shop
type User struct {
	BaseModel
	Username string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username" validate:"required"`
	Password string    `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName string    `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	Type     string    `gorm:"type:varchar(50)" json:"type" validate:"required"` // cashier, manager
	ShopID   uuid.UUID `gorm:"type:uuid;not null;index" json:"shop_id" validate:"uuid_required"`
	Shop     *Shop     `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
