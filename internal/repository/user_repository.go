package repository

import (
	"bellyfied/internal/domain/model"
	"context"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email/phone重複はErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。無ければErrNotFound
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//認証コードのhashで一件取得。複数ヒットはErrMultipleMatches
	FindByVerificationHash(ctx context.Context, hash string) (*model.User, error)
	//columnsに指定した列だけ更新する。認証コードのhashとblockはここでは書かない
	Update(ctx context.Context, user *model.User, columns ...string) error
	//認証コードのhashを上書き
	SetVerificationHash(ctx context.Context, userID int64, hash string) error
	//exceptID以外で使われているか
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error)
}
