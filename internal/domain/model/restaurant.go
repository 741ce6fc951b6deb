package model

import "time"

type Restaurant struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64   `gorm:"not null;index" json:"user_id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Email       string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber *string `gorm:"type:varchar(20);uniqueIndex" json:"phone_number"`

	//有効化コードのsha256（ユーザーと同じ仕組み）
	HashedVerificationCode *string `gorm:"type:varchar(200);index" json:"-"`
	IsActive               bool    `gorm:"not null;default:false" json:"is_active"`

	OpeningHours    string `gorm:"type:varchar(5);not null;default:'07:00'" json:"opening_hours"`
	ClosingHours    string `gorm:"type:varchar(5);not null;default:'21:00'" json:"closing_hours"`
	DaysOfOperation string `gorm:"type:varchar(100);not null;default:'monday to sunday'" json:"days_of_operation"`

	Deleted bool `gorm:"not null;default:false" json:"-"`
	Block   bool `gorm:"not null;default:false" json:"-"`

	Location *Location `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 公開してよい状態か（有効化済みで削除・ブロックされていない）
func (r *Restaurant) Available() bool {
	return r.IsActive && !r.Deleted && !r.Block
}
