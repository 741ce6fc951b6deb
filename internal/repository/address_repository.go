package repository

import (
	"bellyfied/internal/domain/model"
	"context"
)

// ユーザー住所の窓口
type AddressRepository interface {
	//無ければErrNotFound
	FindByUserID(ctx context.Context, userID int64) (model.Address, error)

	//user_idで作成または更新
	Upsert(ctx context.Context, address model.Address) (model.Address, error)
}
