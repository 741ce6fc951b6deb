package model

import "time"

type OrderStatus int

const (
	OrderStatusPlaced     OrderStatus = 1
	OrderStatusPreparing  OrderStatus = 2
	OrderStatusDispatched OrderStatus = 3
	OrderStatusCompleted  OrderStatus = 4
)

// これ未満のステータスならユーザーがキャンセルできる
const OrderCancelThreshold = OrderStatusDispatched

func (s OrderStatus) Valid() bool {
	return s >= OrderStatusPlaced && s <= OrderStatusCompleted
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPlaced:
		return "PLACED"
	case OrderStatusPreparing:
		return "PREPARING"
	case OrderStatusDispatched:
		return "DISPATCHED"
	case OrderStatusCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// カート1行から作る注文。作成後に価格は変えない
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//同じ注文操作で作られた注文に共通のID
	Reference string `gorm:"type:varchar(36);not null;index" json:"reference"`

	UserID       int64  `gorm:"not null;index" json:"user_id"`
	MenuItemID   int64  `gorm:"not null;index" json:"menu_item_id"`
	RestaurantID int64  `gorm:"not null;index" json:"restaurant_id"`
	ItemName     string `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity     int64  `gorm:"not null" json:"quantity"`

	//item.price * quantity（注文時点）
	Price int64 `gorm:"not null" json:"price"`

	Status    OrderStatus `gorm:"not null;default:1;index" json:"status"`
	Delivered bool        `gorm:"not null;default:false" json:"delivered"`
	PaidFor   bool        `gorm:"not null;default:false" json:"paid_for"`
	Cancel    bool        `gorm:"not null;default:false;index" json:"cancel"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ユーザーがまだキャンセルできる状態か
func (o *Order) Cancelable() bool {
	return !o.Cancel && !o.PaidFor && !o.Delivered && o.Status < OrderCancelThreshold
}
