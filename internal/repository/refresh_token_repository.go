package repository

import (
	"bellyfied/internal/domain/model"
	"context"
	"time"
)

// リフレッシュトークンの保存・取得・失効・削除
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	//無ければErrNotFound
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	//未失効のときだけrevoked_atをセット。既に失効ならErrNotFound
	Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error
	DeleteAllByUserID(ctx context.Context, userID int64) error
}
