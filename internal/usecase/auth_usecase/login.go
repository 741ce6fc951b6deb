package auth

import (
	"context"
	"errors"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/gate"
	"bellyfied/internal/repository"
)

var (
	ErrUserNotFound    = apperr.NotFound("user not found")
	ErrAlreadyVerified = apperr.BadRequest("user is already verified")
)

// コード認証の結果
type VerifyOutput struct {
	User    model.User
	Session Session
}

// 登録・ログイン・コード検証・トークン操作
type AuthUsecase struct {
	users    repository.UserRepository
	codes    *VerificationEngine
	sessions *SessionIssuer
	contacts ContactNormalizer
	clock    Clock
}

// DI
func NewAuthUsecase(
	users repository.UserRepository,
	codes *VerificationEngine,
	sessions *SessionIssuer,
	contacts ContactNormalizer,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		codes:    codes,
		sessions: sessions,
		contacts: contacts,
		clock:    clock,
	}
}

func (u *AuthUsecase) findByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := u.users.FindByEmail(ctx, u.contacts.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// 認証済みユーザーにログインコードを送る
func (u *AuthUsecase) RequestLoginCode(ctx context.Context, email string) (*model.User, error) {
	user, err := u.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := gate.Member.Evaluate(gate.Request{User: user}); err != nil {
		return nil, err
	}

	if _, err := u.codes.IssueForUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// 未認証ユーザーにだけ再送する
func (u *AuthUsecase) ResendCode(ctx context.Context, email string) (*model.User, error) {
	user, err := u.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := gate.Public.Evaluate(gate.Request{User: user}); err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}

	if _, err := u.codes.IssueForUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// コードが合えば認証済み・有効にしてトークンを返す
func (u *AuthUsecase) Verify(ctx context.Context, code string, userAgent string) (VerifyOutput, error) {
	user, err := u.codes.ValidateUser(ctx, code)
	if err != nil {
		return VerifyOutput{}, err
	}
	if err := gate.Public.Evaluate(gate.Request{User: user}); err != nil {
		return VerifyOutput{}, err
	}

	now := u.clock.Now()
	user.IsVerified = true
	user.IsActive = true
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user, "is_verified", "is_active", "last_login_at"); err != nil {
		return VerifyOutput{}, err
	}

	session, err := u.sessions.IssueSession(ctx, user, userAgent)
	if err != nil {
		return VerifyOutput{}, err
	}
	return VerifyOutput{User: *user, Session: session}, nil
}

// 削除・ブロックされたユーザーには再発行しない
func (u *AuthUsecase) Refresh(ctx context.Context, refresh string) (RefreshResult, error) {
	res, err := u.sessions.Refresh(ctx, refresh)
	if err != nil {
		return RefreshResult{}, err
	}

	user, err := u.users.FindByID(ctx, res.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return RefreshResult{}, ErrInvalidToken
	}
	if err != nil {
		return RefreshResult{}, err
	}
	if err := gate.Public.Evaluate(gate.Request{User: user}); err != nil {
		return RefreshResult{}, err
	}
	return res, nil
}

func (u *AuthUsecase) Logout(ctx context.Context, refresh string) error {
	return u.sessions.Revoke(ctx, refresh)
}

// accessトークンからユーザーを引く（middlewareから使う）
func (u *AuthUsecase) Authenticate(ctx context.Context, rawAccess string) (*model.User, error) {
	userID, err := u.sessions.ParseAccessToken(rawAccess)
	if err != nil {
		return nil, err
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
