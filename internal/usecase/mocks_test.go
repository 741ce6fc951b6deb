package usecase_test

import (
	"context"
	"errors"
	"strings"

	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// WithinTxの中で渡すreposを固定する
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders      repo.OrderRepository
	carts       repo.CartRepository
	menu        repo.MenuRepository
	restaurants repo.RestaurantRepository
	audit       repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository           { return r.orders }
func (r *TxReposMock) Carts() repo.CartRepository             { return r.carts }
func (r *TxReposMock) Menu() repo.MenuRepository              { return r.menu }
func (r *TxReposMock) Restaurants() repo.RestaurantRepository { return r.restaurants }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository     { return r.audit }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) CreateBulk(ctx context.Context, orders []model.Order) error {
	args := m.Called(ctx, orders)
	for i := range orders {
		orders[i].ID = int64(i + 1)
	}
	return args.Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListByRestaurantID(ctx context.Context, restaurantID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, restaurantID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) UpdateFulfilment(ctx context.Context, orderID int64, f repo.OrderFulfilment) error {
	return m.Called(ctx, orderID, f).Error(0)
}

func (m *OrderRepoMock) MarkCanceled(ctx context.Context, orderID int64, userID int64) (bool, error) {
	args := m.Called(ctx, orderID, userID)
	return args.Bool(0), args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]model.CartLine)
	return lines, args.Error(1)
}

func (m *CartRepoMock) LockByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]model.CartLine)
	return lines, args.Error(1)
}

func (m *CartRepoMock) DeleteLines(ctx context.Context, userID int64, lineIDs []int64) (int64, error) {
	args := m.Called(ctx, userID, lineIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartRepoMock) AddQuantity(ctx context.Context, userID int64, menuItemID int64, addQty int64) error {
	return m.Called(ctx, userID, menuItemID, addQty).Error(0)
}

func (m *CartRepoMock) FindLine(ctx context.Context, userID int64, menuItemID int64) (model.CartLine, error) {
	panic("not used in usecase tests")
}

func (m *CartRepoMock) UpdateQuantity(ctx context.Context, userID int64, menuItemID int64, qty int64) error {
	return m.Called(ctx, userID, menuItemID, qty).Error(0)
}

func (m *CartRepoMock) DeleteLine(ctx context.Context, userID int64, menuItemID int64) error {
	return m.Called(ctx, userID, menuItemID).Error(0)
}

func (m *CartRepoMock) ClearByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MenuRepoMock struct{ mock.Mock }

func (m *MenuRepoMock) FindItemByID(ctx context.Context, id int64) (model.MenuItem, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(model.MenuItem)
	return it, args.Error(1)
}

func (m *MenuRepoMock) ListItems(ctx context.Context, q repo.MenuListQuery) ([]model.MenuItem, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MenuRepoMock) CreateItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	args := m.Called(ctx, item)
	it, _ := args.Get(0).(model.MenuItem)
	return it, args.Error(1)
}

func (m *MenuRepoMock) UpdateItem(ctx context.Context, item model.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MenuRepoMock) SoftDeleteItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MenuRepoMock) FindCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *MenuRepoMock) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *MenuRepoMock) EnsureCategory(ctx context.Context, name string) (model.Category, error) {
	panic("not used in usecase tests")
}

type RestaurantRepoMock struct{ mock.Mock }

func (m *RestaurantRepoMock) Create(ctx context.Context, r *model.Restaurant) error {
	args := m.Called(ctx, r)
	if r.ID == 0 {
		r.ID = 10
	}
	return args.Error(0)
}

func (m *RestaurantRepoMock) FindByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*model.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepoMock) FindByVerificationHash(ctx context.Context, hash string) (*model.Restaurant, error) {
	panic("not used in usecase tests")
}

func (m *RestaurantRepoMock) SetVerificationHash(ctx context.Context, id int64, hash string) error {
	panic("not used in usecase tests")
}

func (m *RestaurantRepoMock) Update(ctx context.Context, r *model.Restaurant, columns ...string) error {
	return m.Called(ctx, r, columns).Error(0)
}

func (m *RestaurantRepoMock) UpsertLocation(ctx context.Context, loc model.Location) (model.Location, error) {
	args := m.Called(ctx, loc)
	l, _ := args.Get(0).(model.Location)
	return l, args.Error(1)
}

func (m *RestaurantRepoMock) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	args := m.Called(ctx, email, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *RestaurantRepoMock) PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error) {
	args := m.Called(ctx, phone, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *RestaurantRepoMock) ListAvailable(ctx context.Context, q repo.RestaurantListQuery) ([]model.Restaurant, int64, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]model.Restaurant)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *RestaurantRepoMock) ListByOwner(ctx context.Context, ownerID int64) ([]model.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]model.Restaurant)
	return list, args.Error(1)
}

func (m *RestaurantRepoMock) ListNearby(ctx context.Context, lat float64, lng float64, limit int) ([]model.Restaurant, error) {
	args := m.Called(ctx, lat, lng, limit)
	list, _ := args.Get(0).([]model.Restaurant)
	return list, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in usecase tests")
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in usecase tests")
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	panic("not used in usecase tests")
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used in usecase tests")
}

func (m *UserRepoMock) FindByVerificationHash(ctx context.Context, hash string) (*model.User, error) {
	panic("not used in usecase tests")
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User, columns ...string) error {
	return m.Called(ctx, user, columns).Error(0)
}

func (m *UserRepoMock) SetVerificationHash(ctx context.Context, userID int64, hash string) error {
	panic("not used in usecase tests")
}

func (m *UserRepoMock) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	args := m.Called(ctx, email, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error) {
	args := m.Called(ctx, phone, exceptID)
	return args.Bool(0), args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Address, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Upsert(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

// =====================
// auth側の差し替え
// =====================

type CodeIssuerMock struct{ mock.Mock }

func (m *CodeIssuerMock) IssueForUser(ctx context.Context, user *model.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *CodeIssuerMock) IssueForRestaurant(ctx context.Context, r *model.Restaurant) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func (m *CodeIssuerMock) ValidateRestaurant(ctx context.Context, code string) (*model.Restaurant, error) {
	args := m.Called(ctx, code)
	r, _ := args.Get(0).(*model.Restaurant)
	return r, args.Error(1)
}

type SessionRevokerMock struct{ mock.Mock }

func (m *SessionRevokerMock) RevokeAll(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

// 小文字化だけ。+で始まらない番号はエラー
type plainContacts struct{}

func (plainContacts) NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (plainContacts) NormalizePhone(raw string) (string, error) {
	if !strings.HasPrefix(raw, "+") {
		return "", errors.New("bad phone")
	}
	return raw, nil
}

// =====================
// fixtures
// =====================

func member(id int64) *model.User {
	return &model.User{ID: id, FirstName: "Ada", LastName: "Obi", Email: "ada@example.com", IsVerified: true, IsActive: true}
}

func vendor(id int64) *model.User {
	u := member(id)
	u.IsVendor = true
	return u
}

func activeRestaurant(id, ownerID int64) *model.Restaurant {
	return &model.Restaurant{ID: id, UserID: ownerID, Name: "Mama Put", Email: "mama@example.com", IsActive: true}
}

func ptr[T any](v T) *T { return &v }
