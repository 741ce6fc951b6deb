package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"

	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if user.ID == 0 {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByVerificationHash(ctx context.Context, hash string) (*model.User, error) {
	args := m.Called(ctx, hash)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User, columns ...string) error {
	return m.Called(ctx, user, columns).Error(0)
}

func (m *UserRepoMock) SetVerificationHash(ctx context.Context, userID int64, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}

func (m *UserRepoMock) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	args := m.Called(ctx, email, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error) {
	args := m.Called(ctx, phone, exceptID)
	return args.Bool(0), args.Error(1)
}

type RestaurantRepoMock struct {
	mock.Mock
	repo.RestaurantRepository
}

func (m *RestaurantRepoMock) SetVerificationHash(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *RestaurantRepoMock) FindByVerificationHash(ctx context.Context, hash string) (*model.Restaurant, error) {
	args := m.Called(ctx, hash)
	r, _ := args.Get(0).(*model.Restaurant)
	return r, args.Error(1)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *RefreshTokenRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	t, _ := args.Get(0).(*model.RefreshToken)
	return t, args.Error(1)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	return m.Called(ctx, tokenID, revokedAt).Error(0)
}

func (m *RefreshTokenRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

// 決まったコードを順に返す
type fixedCodes struct {
	codes []string
	i     int
}

func (f *fixedCodes) Generate() string {
	c := f.codes[f.i%len(f.codes)]
	f.i++
	return c
}

type sentCode struct {
	Purpose CodePurpose
	Email   string
	Code    string
}

type captureSender struct {
	mu   sync.Mutex
	sent []sentCode
}

func (s *captureSender) SendCode(_ context.Context, purpose CodePurpose, email string, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentCode{Purpose: purpose, Email: email, Code: code})
}

func (s *captureSender) last() sentCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (g *seqID) NewID() string {
	g.n++
	return strings.Repeat("0", 35) + string(rune('0'+g.n%10))
}

type plainContacts struct{}

func (plainContacts) NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (plainContacts) NormalizePhone(raw string) (string, error) {
	if !strings.HasPrefix(raw, "+") {
		return "", errBadPhone
	}
	return raw, nil
}
