package auth

import (
	"context"
	"errors"
	"strings"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/repository"
)

// 会員登録の入力
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

// メール・電話番号の正規化（validatorパッケージが実装）
type ContactNormalizer interface {
	NormalizeEmail(email string) string
	NormalizePhone(raw string) (string, error)
}

var (
	ErrEmailAlreadyExists = apperr.Conflict("a user with this email already exists")
	ErrPhoneAlreadyExists = apperr.Conflict("a user with this phone number already exists")
	ErrInvalidPhone       = apperr.InvalidField("phone_number", "enter a valid phone number")
)

// 未認証・無効で作り、コードを送る。vendor=trueでベンダー登録
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput, vendor bool) (*model.User, error) {
	email := u.contacts.NormalizeEmail(in.Email)

	var phone *string
	if strings.TrimSpace(in.PhoneNumber) != "" {
		p, err := u.contacts.NormalizePhone(in.PhoneNumber)
		if err != nil {
			return nil, ErrInvalidPhone
		}
		phone = &p
	}

	//重複チェック
	taken, err := u.users.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailAlreadyExists
	}
	if phone != nil {
		taken, err := u.users.PhoneTaken(ctx, *phone, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPhoneAlreadyExists
		}
	}

	user := &model.User{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       email,
		PhoneNumber: phone,
		IsVendor:    vendor,
	}
	if err := u.users.Create(ctx, user); err != nil {
		//同時登録でunique制約に当たった
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	if _, err := u.codes.IssueForUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
