package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"
	auth "bellyfied/internal/usecase/auth_usecase"
)

// /users/me の業務ロジック
type UserUsecase struct {
	users     repo.UserRepository
	addresses repo.AddressRepository
	audit     repo.AuditLogRepository
	codes     CodeIssuer
	sessions  SessionRevoker
	contacts  auth.ContactNormalizer
}

func NewUserUsecase(
	users repo.UserRepository,
	addresses repo.AddressRepository,
	audit repo.AuditLogRepository,
	codes CodeIssuer,
	sessions SessionRevoker,
	contacts auth.ContactNormalizer,
) *UserUsecase {
	return &UserUsecase{
		users:     users,
		addresses: addresses,
		audit:     audit,
		codes:     codes,
		sessions:  sessions,
		contacts:  contacts,
	}
}

type Profile struct {
	User    model.User     `json:"user"`
	Address *model.Address `json:"address"`
}

// 名前の部分更新。nilは変更しない
type UpdateDetailsInput struct {
	FirstName *string
	LastName  *string
}

// 住所の部分更新。nilは変更しない
type AddressInput struct {
	Street    *string
	City      *string
	State     *string
	Latitude  *float64
	Longitude *float64
}

func (u *UserUsecase) Me(ctx context.Context, user *model.User) (Profile, error) {
	out := Profile{User: *user}

	addr, err := u.addresses.FindByUserID(ctx, user.ID)
	if err == nil {
		out.Address = &addr
		return out, nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return out, nil
	}
	return Profile{}, err
}

// メール変更。新しいアドレスにコードを送り、未認証に戻す
func (u *UserUsecase) UpdateEmail(ctx context.Context, user *model.User, email string) (*model.User, error) {
	email = u.contacts.NormalizeEmail(email)
	if email == "" {
		return nil, apperr.InvalidField("email", "email cannot be null or empty")
	}

	taken, err := u.users.EmailTaken(ctx, email, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("this email is already in use by another user")
	}

	user.Email = email
	user.IsVerified = false
	if err := u.users.Update(ctx, user, "email", "is_verified"); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Conflict("this email is already in use by another user")
		}
		return nil, err
	}

	if _, err := u.codes.IssueForUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) UpdatePhone(ctx context.Context, user *model.User, phone string) (*model.User, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, apperr.InvalidField("phone_number", "phone number cannot be null or empty")
	}
	normalized, err := u.contacts.NormalizePhone(phone)
	if err != nil {
		return nil, auth.ErrInvalidPhone
	}

	taken, err := u.users.PhoneTaken(ctx, normalized, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("this phone number is already in use by another user")
	}

	user.PhoneNumber = &normalized
	if err := u.users.Update(ctx, user, "phone_number"); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Conflict("this phone number is already in use by another user")
		}
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) UpdateDetails(ctx context.Context, user *model.User, in UpdateDetailsInput) (*model.User, error) {
	if in.FirstName != nil && strings.TrimSpace(*in.FirstName) != "" {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil && strings.TrimSpace(*in.LastName) != "" {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if err := u.users.Update(ctx, user, "first_name", "last_name"); err != nil {
		return nil, err
	}
	return user, nil
}

// 無ければ作る。あれば指定された項目だけ上書き
func (u *UserUsecase) UpsertAddress(ctx context.Context, user *model.User, in AddressInput) (model.Address, error) {
	addr, err := u.addresses.FindByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return model.Address{}, err
	}
	addr.UserID = user.ID

	if in.Street != nil && *in.Street != "" {
		addr.Street = *in.Street
	}
	if in.City != nil && *in.City != "" {
		addr.City = *in.City
	}
	if in.State != nil && *in.State != "" {
		addr.State = *in.State
	}
	if in.Latitude != nil {
		addr.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		addr.Longitude = in.Longitude
	}

	return u.addresses.Upsert(ctx, addr)
}

// 論理削除。行は残し、refreshトークンは全部消す
func (u *UserUsecase) Delete(ctx context.Context, user *model.User) error {
	before := model.AuditSnapshot(map[string]interface{}{"deleted": user.Deleted, "is_active": user.IsActive})

	user.Deleted = true
	user.IsVerified = false
	user.IsActive = false
	if err := u.users.Update(ctx, user, "deleted", "is_verified", "is_active"); err != nil {
		return err
	}

	if err := u.sessions.RevokeAll(ctx, user.ID); err != nil {
		return err
	}

	return u.audit.Create(ctx, model.AuditLog{
		ActorUserID:  user.ID,
		Action:       model.AuditActionDeleteAccount,
		ResourceType: model.AuditResourceUser,
		ResourceID:   user.ID,
		BeforeJSON:   before,
		AfterJSON:    model.AuditSnapshot(map[string]interface{}{"deleted": true, "is_active": false}),
		CreatedAt:    time.Now(),
	})
}
