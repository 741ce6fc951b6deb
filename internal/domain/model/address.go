package model

import "time"

// ユーザーの住所（1ユーザー1件）
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;uniqueIndex" json:"user_id"`

	Street string `gorm:"type:varchar(255)" json:"street"`
	City   string `gorm:"type:varchar(100)" json:"city"`
	State  string `gorm:"type:varchar(50)" json:"state"`

	//位置（任意）。距離順の並び替えにだけ使う
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
