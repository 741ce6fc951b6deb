package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = apperr.AuthenticationFailed("token is invalid or expired")

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// handlerがJSONにして返す
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// 再発行の結果
type RefreshResult struct {
	UserID      int64  `json:"-"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// access(JWT)とrefresh(ランダム値)を発行する。
// refreshはhashだけDBに保存し、revoked_atで失効させる
type SessionIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	tokens     repository.RefreshTokenRepository
	idGen      IDGenerator
	clock      Clock
}

func NewSessionIssuer(
	secret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	tokens repository.RefreshTokenRepository,
	idGen IDGenerator,
	clock Clock,
) *SessionIssuer {
	return &SessionIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tokens:     tokens,
		idGen:      idGen,
		clock:      clock,
	}
}

func (s *SessionIssuer) IssueSession(ctx context.Context, user *model.User, userAgent string) (Session, error) {
	now := s.clock.Now()

	access, err := s.signAccess(user.ID, now)
	if err != nil {
		return Session{}, err
	}

	//RefreshToken生成
	plain, err := generateSecureToken(32)
	if err != nil {
		return Session{}, err
	}

	if len(userAgent) > 255 {
		userAgent = userAgent[:255]
	}
	rt := &model.RefreshToken{
		ID:        s.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hashToken(plain),
		UserAgent: userAgent,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, rt); err != nil {
		return Session{}, err
	}

	return Session{
		AccessToken:  access,
		RefreshToken: plain,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

// claimsはsub/iat/expだけ
func (s *SessionIssuer) signAccess(userID int64, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// 署名・アルゴリズム・期限だけ見る。ユーザーの状態はgateで見る
func (s *SessionIssuer) ParseAccessToken(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || token == nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// 失効済み・不明・空はErrInvalidToken
func (s *SessionIssuer) Revoke(ctx context.Context, refresh string) error {
	rt, err := s.lookup(ctx, refresh)
	if err != nil {
		return err
	}
	if rt.RevokedAt != nil {
		return ErrInvalidToken
	}

	if err := s.tokens.Revoke(ctx, rt.ID, s.clock.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// 生きているrefreshから新しいaccessを作る
func (s *SessionIssuer) Refresh(ctx context.Context, refresh string) (RefreshResult, error) {
	rt, err := s.lookup(ctx, refresh)
	if err != nil {
		return RefreshResult{}, err
	}

	now := s.clock.Now()
	if rt.RevokedAt != nil || !now.Before(rt.ExpiresAt) {
		return RefreshResult{}, ErrInvalidToken
	}

	access, err := s.signAccess(rt.UserID, now)
	if err != nil {
		return RefreshResult{}, err
	}
	return RefreshResult{
		UserID:      rt.UserID,
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.accessTTL.Seconds()),
	}, nil
}

// 退会時など
func (s *SessionIssuer) RevokeAll(ctx context.Context, userID int64) error {
	return s.tokens.DeleteAllByUserID(ctx, userID)
}

func (s *SessionIssuer) lookup(ctx context.Context, refresh string) (*model.RefreshToken, error) {
	if refresh == "" {
		return nil, ErrInvalidToken
	}
	rt, err := s.tokens.FindByTokenHash(ctx, hashToken(refresh))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func generateSecureToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", fmt.Errorf("bytesLen must be positive")
	}

	// ランダムなバイト列を作る（OSが持つ安全な乱数）
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
