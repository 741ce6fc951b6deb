package model

import (
	"encoding/json"
	"time"
)

type AuditAction string

const (
	//レストランが注文を更新した
	AuditActionUpdateOrder AuditAction = "UPDATE_ORDER"
	//ユーザーが注文をキャンセルした
	AuditActionCancelOrder AuditAction = "CANCEL_ORDER"
	//アカウント削除
	AuditActionDeleteAccount AuditAction = "DELETE_ACCOUNT"
	//レストラン削除
	AuditActionDeleteRestaurant AuditAction = "DELETE_RESTAURANT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder      AuditResourceType = "order"
	AuditResourceUser       AuditResourceType = "user"
	AuditResourceRestaurant AuditResourceType = "restaurant"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// 監査ログ用のJSON。失敗したら空文字
func AuditSnapshot(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
