// Package gate は保護された操作の前に通す順番付きのチェック。
// 先に失敗したチェックの理由がそのまま返る。
package gate

import (
	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
)

// チェックに渡すもの。Restaurantは所有チェックのときだけ
type Request struct {
	User       *model.User
	Restaurant *model.Restaurant
}

type Check func(Request) error

// 前から順に実行し、最初のエラーで止まる
type Pipeline []Check

func (p Pipeline) Evaluate(req Request) error {
	for _, check := range p {
		if err := check(req); err != nil {
			return err
		}
	}
	return nil
}

// 後ろにチェックを足した新しいPipeline
func (p Pipeline) Then(checks ...Check) Pipeline {
	out := make(Pipeline, 0, len(p)+len(checks))
	out = append(out, p...)
	return append(out, checks...)
}

var (
	// 登録・ログインコード要求・コード検証・再送（未認証でも通す）
	Public = Pipeline{NotSuspended}
	// ログイン済みの一般操作
	Member = Pipeline{NotSuspended, Verified}
	// ベンダー操作
	VendorOnly = Member.Then(Vendor)
	// 特定レストランの操作
	RestaurantOwner = VendorOnly.Then(OwnsRestaurant)
)

const (
	MsgSuspended     = "account blocked/deleted"
	MsgNotVerified   = "account not verified"
	MsgNotVendor     = "not authorized"
	MsgNotOwner      = "you do not own this restaurant"
	MsgNotAuthorized = "authentication required"
)

func NotSuspended(req Request) error {
	if req.User == nil {
		return apperr.AuthenticationFailed(MsgNotAuthorized)
	}
	if req.User.Suspended() {
		return apperr.Forbidden(MsgSuspended)
	}
	return nil
}

func Verified(req Request) error {
	if !req.User.IsVerified {
		return apperr.Forbidden(MsgNotVerified)
	}
	return nil
}

func Vendor(req Request) error {
	if !req.User.IsVendor {
		return apperr.Forbidden(MsgNotVendor)
	}
	return nil
}

func OwnsRestaurant(req Request) error {
	if req.Restaurant == nil || req.Restaurant.UserID != req.User.ID {
		return apperr.Forbidden(MsgNotOwner)
	}
	return nil
}
