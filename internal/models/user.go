// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	FullName          string     `json:"full_name" gorm:"size:255;not null"`
	Email             string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash      string     `json:"-" gorm:"size:255;not null"`
	Role              UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'client'"`
	EmailConfirmedAt  *time.Time `json:"email_confirmed_at"`
	ConfirmationToken string     `json:"-" gorm:"size:64;index"`
	ResetToken        string     `json:"-" gorm:"size:64;index"`
	ResetTokenExpires *time.Time `json:"-"`
	LastLoginAt       *time.Time `json:"last_login_at"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CreatorID"`
	Bids     []Bid     `json:"bids,omitempty" gorm:"foreignKey:UpholstererID"`
	Sessions []Session `json:"sessions,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) EmailConfirmed() bool {
	return u.EmailConfirmedAt != nil
}
