package repository

import "errors"

var (
	// 対象が存在しない（usecaseで404などに変換する）
	ErrNotFound = errors.New("not found")
	// unique制約違反
	ErrDuplicate = errors.New("duplicate")
	// 1件のはずの検索で複数件ヒットした
	ErrMultipleMatches = errors.New("multiple matches")
)
