package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:254" json:"email"`
	Username     string    `gorm:"uniqueIndex;not null;size:150" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// RevokedToken records a refresh token that may no longer be exchanged.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"`
	JTI       string    `gorm:"column:jti;uniqueIndex;not null;size:36"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}
