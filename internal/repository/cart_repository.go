package repository

import (
	"context"

	"bellyfied/internal/domain/model"
)

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	// 注文確定用。読んだ行はtxの終わりまでロック
	LockByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	// 同一アイテムは数量をプラス
	AddQuantity(ctx context.Context, userID int64, menuItemID int64, addQty int64) error
	FindLine(ctx context.Context, userID int64, menuItemID int64) (model.CartLine, error)
	UpdateQuantity(ctx context.Context, userID int64, menuItemID int64, qty int64) error
	DeleteLine(ctx context.Context, userID int64, menuItemID int64) error
	// 指定した行だけ削除し、削除した行数を返す
	DeleteLines(ctx context.Context, userID int64, lineIDs []int64) (int64, error)
	//削除した行数を返す
	ClearByUserID(ctx context.Context, userID int64) (int64, error)
}
