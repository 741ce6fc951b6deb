package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/rand"
	"strconv"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/metrics"
	"bellyfied/internal/repository"
)

// コードの用途（メールの件名が変わる）
type CodePurpose string

const (
	PurposeAccount    CodePurpose = "account"
	PurposeRestaurant CodePurpose = "restaurant"
)

var (
	ErrEmptyCode   = apperr.InvalidField("verification_code", "verification code is required")
	ErrInvalidCode = apperr.AuthenticationFailed("invalid verification code. please try again")
)

// メール送信。失敗しても呼び出し元には返さない
type CodeSender interface {
	SendCode(ctx context.Context, purpose CodePurpose, email string, code string)
}

type CodeGenerator interface {
	Generate() string
}

// 1000〜9999
type RandomCodeGenerator struct{}

func (RandomCodeGenerator) Generate() string {
	return GenerateCode()
}

func GenerateCode() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}

// sha256のhex
func HashCode(code string) (string, error) {
	if code == "" {
		return "", ErrEmptyCode
	}
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:]), nil
}

// コードの発行と検証。ユーザーとレストランで同じ仕組み
type VerificationEngine struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	gen         CodeGenerator
	sender      CodeSender
}

func NewVerificationEngine(
	users repository.UserRepository,
	restaurants repository.RestaurantRepository,
	gen CodeGenerator,
	sender CodeSender,
) *VerificationEngine {
	return &VerificationEngine{
		users:       users,
		restaurants: restaurants,
		gen:         gen,
		sender:      sender,
	}
}

// 新しいコードで上書きしてメールを送る。返したコードはレスポンスに載せない
func (e *VerificationEngine) IssueForUser(ctx context.Context, user *model.User) (string, error) {
	code, hash, err := e.next()
	if err != nil {
		return "", err
	}
	if err := e.users.SetVerificationHash(ctx, user.ID, hash); err != nil {
		return "", err
	}
	user.HashedVerificationCode = &hash

	metrics.CodeIssued(string(PurposeAccount))
	e.sender.SendCode(ctx, PurposeAccount, user.Email, code)
	return code, nil
}

// 有効化コードはレストランのメールに送る
func (e *VerificationEngine) IssueForRestaurant(ctx context.Context, r *model.Restaurant) (string, error) {
	code, hash, err := e.next()
	if err != nil {
		return "", err
	}
	if err := e.restaurants.SetVerificationHash(ctx, r.ID, hash); err != nil {
		return "", err
	}
	r.HashedVerificationCode = &hash

	metrics.CodeIssued(string(PurposeRestaurant))
	e.sender.SendCode(ctx, PurposeRestaurant, r.Email, code)
	return code, nil
}

func (e *VerificationEngine) next() (string, string, error) {
	code := e.gen.Generate()
	hash, err := HashCode(code)
	if err != nil {
		return "", "", err
	}
	return code, hash, nil
}

// hashの完全一致で探す。成功してもhashは消さない（再利用できてしまう）
func (e *VerificationEngine) ValidateUser(ctx context.Context, code string) (*model.User, error) {
	hash, err := HashCode(code)
	if err != nil {
		return nil, err
	}
	u, err := e.users.FindByVerificationHash(ctx, hash)
	//同じコードを持つ他のアカウントがいたらどちらとも決めない
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrMultipleMatches) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (e *VerificationEngine) ValidateRestaurant(ctx context.Context, code string) (*model.Restaurant, error) {
	hash, err := HashCode(code)
	if err != nil {
		return nil, err
	}
	r, err := e.restaurants.FindByVerificationHash(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrMultipleMatches) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}
