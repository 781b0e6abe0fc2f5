package model

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Admin        bool      `gorm:"not null;default:false"`
	RegisteredOn time.Time `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
