package usecase

import (
	"context"
	"errors"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"
)

// 認証コードの発行・検証（auth.VerificationEngineが実装）
type CodeIssuer interface {
	IssueForUser(ctx context.Context, user *model.User) (string, error)
	IssueForRestaurant(ctx context.Context, r *model.Restaurant) (string, error)
	ValidateRestaurant(ctx context.Context, code string) (*model.Restaurant, error)
}

// 退会時にrefreshトークンを全部消す
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID int64) error
}

// 一覧のページ情報
type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func pageOf(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// repositoryのErrNotFoundを404にする
func notFound(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}
