package model

import "time"

// カートの1行。(user, menu item)で1行だけ
type CartLine struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_cart_lines_user_item" json:"user_id"`
	MenuItemID int64     `gorm:"not null;uniqueIndex:idx_cart_lines_user_item" json:"menu_item_id"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
