package model

import "time"

type User struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string  `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName    string  `gorm:"type:varchar(255);not null" json:"last_name"`
	Email       string  `gorm:"type:varchar(225);uniqueIndex;not null" json:"email"`
	PhoneNumber *string `gorm:"type:varchar(20);uniqueIndex" json:"phone_number"`

	//ベンダー（レストラン運営者）かどうか
	IsVendor bool `gorm:"not null;default:false" json:"is_vendor"`

	//現在有効な認証コードのsha256。発行のたびに上書き（1ユーザー1つだけ）
	HashedVerificationCode *string `gorm:"type:varchar(200);index" json:"-"`

	IsVerified bool `gorm:"not null;default:false" json:"is_verified"`
	IsActive   bool `gorm:"not null;default:false" json:"is_active"`

	//論理削除・ブロック。行は消さない
	Deleted bool `gorm:"not null;default:false" json:"-"`
	Block   bool `gorm:"not null;default:false" json:"-"`

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// 削除済みまたはブロック中
func (u *User) Suspended() bool {
	return u.Deleted || u.Block
}
