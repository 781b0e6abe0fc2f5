package model

import "time"

// 失効済みtokenの記録。token文字列の完全一致で照合する。
type BlacklistToken struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	Token         string    `json:"-" gorm:"not null;uniqueIndex"`
	ExpiresAt     time.Time `json:"expiresAt" gorm:"not null;index"`
	BlacklistedOn time.Time `json:"blacklistedOn" gorm:"not null"`
}
