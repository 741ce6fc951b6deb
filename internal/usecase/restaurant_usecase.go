package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/gate"
	repo "bellyfied/internal/repository"
	auth "bellyfied/internal/usecase/auth_usecase"
)

var (
	ErrRestaurantEmailExists = apperr.Conflict("a restaurant with this email already exists")
	ErrRestaurantPhoneExists = apperr.Conflict("a restaurant with this phone number already exists")
	ErrRestaurantNotFound    = apperr.NotFound("restaurant not found")
	ErrInvalidCoordinates    = apperr.BadRequest("lat and lng must be valid coordinates")
)

// nearbyの件数上限
const nearbyLimit = 20

type RestaurantUsecase struct {
	restaurants repo.RestaurantRepository
	audit       repo.AuditLogRepository
	owners      *gate.Restaurants
	codes       CodeIssuer
	contacts    auth.ContactNormalizer
}

func NewRestaurantUsecase(
	restaurants repo.RestaurantRepository,
	audit repo.AuditLogRepository,
	owners *gate.Restaurants,
	codes CodeIssuer,
	contacts auth.ContactNormalizer,
) *RestaurantUsecase {
	return &RestaurantUsecase{
		restaurants: restaurants,
		audit:       audit,
		owners:      owners,
		codes:       codes,
		contacts:    contacts,
	}
}

type CreateRestaurantInput struct {
	Name            string
	Description     string
	Email           string
	PhoneNumber     string
	OpeningHours    string
	ClosingHours    string
	DaysOfOperation string
}

// 部分更新。nilと空文字は変更しない
type UpdateRestaurantInput struct {
	Name            *string
	Description     *string
	OpeningHours    *string
	ClosingHours    *string
	DaysOfOperation *string
}

type LocationInput struct {
	Street    *string
	City      *string
	State     *string
	Latitude  *float64
	Longitude *float64
}

type RestaurantPage struct {
	Restaurants []model.Restaurant `json:"restaurants"`
	PageInfo
}

// 無効状態で作り、レストランのメールに有効化コードを送る
func (u *RestaurantUsecase) Create(ctx context.Context, owner *model.User, in CreateRestaurantInput) (*model.Restaurant, error) {
	if err := gate.VendorOnly.Evaluate(gate.Request{User: owner}); err != nil {
		return nil, err
	}

	email := u.contacts.NormalizeEmail(in.Email)
	taken, err := u.restaurants.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrRestaurantEmailExists
	}

	var phone *string
	if strings.TrimSpace(in.PhoneNumber) != "" {
		p, err := u.contacts.NormalizePhone(in.PhoneNumber)
		if err != nil {
			return nil, auth.ErrInvalidPhone
		}
		taken, err := u.restaurants.PhoneTaken(ctx, p, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrRestaurantPhoneExists
		}
		phone = &p
	}

	r := &model.Restaurant{
		UserID:          owner.ID,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Email:           email,
		PhoneNumber:     phone,
		OpeningHours:    in.OpeningHours,
		ClosingHours:    in.ClosingHours,
		DaysOfOperation: in.DaysOfOperation,
	}
	//未指定ならDBのデフォルトと同じ値
	if r.OpeningHours == "" {
		r.OpeningHours = "07:00"
	}
	if r.ClosingHours == "" {
		r.ClosingHours = "21:00"
	}
	if r.DaysOfOperation == "" {
		r.DaysOfOperation = "monday to sunday"
	}

	if err := u.restaurants.Create(ctx, r); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrRestaurantEmailExists
		}
		return nil, err
	}

	if _, err := u.codes.IssueForRestaurant(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// 有効化コードで有効にする。持ち主のベンダーだけ
func (u *RestaurantUsecase) Activate(ctx context.Context, owner *model.User, code string) (*model.Restaurant, error) {
	if err := gate.VendorOnly.Evaluate(gate.Request{User: owner}); err != nil {
		return nil, err
	}

	r, err := u.codes.ValidateRestaurant(ctx, code)
	if err != nil {
		return nil, err
	}
	if r.Deleted {
		return nil, ErrRestaurantNotFound
	}
	if err := gate.RestaurantOwner.Evaluate(gate.Request{User: owner, Restaurant: r}); err != nil {
		return nil, err
	}

	r.IsActive = true
	if err := u.restaurants.Update(ctx, r, "is_active"); err != nil {
		return nil, err
	}
	return r, nil
}

// 自分のレストラン（削除済み以外）
func (u *RestaurantUsecase) Mine(ctx context.Context, owner *model.User) ([]model.Restaurant, error) {
	if err := gate.VendorOnly.Evaluate(gate.Request{User: owner}); err != nil {
		return nil, err
	}
	return u.restaurants.ListByOwner(ctx, owner.ID)
}

func (u *RestaurantUsecase) Update(ctx context.Context, owner *model.User, id int64, in UpdateRestaurantInput) (*model.Restaurant, error) {
	r, err := u.owners.RequireActiveOwner(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	setIfPresent(&r.Name, in.Name)
	setIfPresent(&r.Description, in.Description)
	setIfPresent(&r.OpeningHours, in.OpeningHours)
	setIfPresent(&r.ClosingHours, in.ClosingHours)
	setIfPresent(&r.DaysOfOperation, in.DaysOfOperation)

	if err := u.restaurants.Update(ctx, r, "name", "description", "opening_hours", "closing_hours", "days_of_operation"); err != nil {
		return nil, err
	}
	return r, nil
}

func (u *RestaurantUsecase) UpsertLocation(ctx context.Context, owner *model.User, id int64, in LocationInput) (model.Location, error) {
	r, err := u.owners.RequireActiveOwner(ctx, owner, id)
	if err != nil {
		return model.Location{}, err
	}

	loc := model.Location{RestaurantID: r.ID}
	if r.Location != nil {
		loc = *r.Location
	}
	setIfPresent(&loc.Street, in.Street)
	setIfPresent(&loc.City, in.City)
	setIfPresent(&loc.State, in.State)
	if in.Latitude != nil {
		loc.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		loc.Longitude = in.Longitude
	}
	if loc.Latitude != nil && (*loc.Latitude < -90 || *loc.Latitude > 90) {
		return model.Location{}, apperr.InvalidField("latitude", "must be between -90 and 90")
	}
	if loc.Longitude != nil && (*loc.Longitude < -180 || *loc.Longitude > 180) {
		return model.Location{}, apperr.InvalidField("longitude", "must be between -180 and 180")
	}

	return u.restaurants.UpsertLocation(ctx, loc)
}

// 論理削除
func (u *RestaurantUsecase) Delete(ctx context.Context, owner *model.User, id int64) error {
	r, err := u.owners.RequireOwner(ctx, owner, id)
	if err != nil {
		return err
	}

	before := model.AuditSnapshot(map[string]interface{}{"deleted": r.Deleted, "is_active": r.IsActive})
	r.Deleted = true
	r.IsActive = false
	if err := u.restaurants.Update(ctx, r, "deleted", "is_active"); err != nil {
		return err
	}

	return u.audit.Create(ctx, model.AuditLog{
		ActorUserID:  owner.ID,
		Action:       model.AuditActionDeleteRestaurant,
		ResourceType: model.AuditResourceRestaurant,
		ResourceID:   r.ID,
		BeforeJSON:   before,
		AfterJSON:    model.AuditSnapshot(map[string]interface{}{"deleted": true, "is_active": false}),
		CreatedAt:    time.Now(),
	})
}

// 公開中のレストラン一覧。qがあれば名前・説明で検索
func (u *RestaurantUsecase) List(ctx context.Context, page, limit int, q string) (RestaurantPage, error) {
	page, limit = pageOf(page, limit)
	items, total, err := u.restaurants.ListAvailable(ctx, repo.RestaurantListQuery{
		Page:  page,
		Limit: limit,
		Q:     strings.TrimSpace(q),
	})
	if err != nil {
		return RestaurantPage{}, err
	}
	return RestaurantPage{
		Restaurants: items,
		PageInfo:    PageInfo{Page: page, Limit: limit, Total: total},
	}, nil
}

// 公開中のものだけ返す
func (u *RestaurantUsecase) Detail(ctx context.Context, id int64) (*model.Restaurant, error) {
	r, err := u.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "restaurant not found")
	}
	if !r.Available() {
		return nil, ErrRestaurantNotFound
	}
	return r, nil
}

func (u *RestaurantUsecase) Nearby(ctx context.Context, lat, lng float64) ([]model.Restaurant, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidCoordinates
	}
	return u.restaurants.ListNearby(ctx, lat, lng, nearbyLimit)
}

func setIfPresent(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}
