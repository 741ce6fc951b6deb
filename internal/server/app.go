package server

import (
	"time"

	"bellyfied/internal/config"
	"bellyfied/internal/gate"
	"bellyfied/internal/handler"
	"bellyfied/internal/infra/mailer"
	infraRepo "bellyfied/internal/infra/repository"
	"bellyfied/internal/middleware"
	"bellyfied/internal/usecase"
	auth "bellyfied/internal/usecase/auth_usecase"
	"bellyfied/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const mailTimeout = 30 * time.Second

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// 組み立てに必要なもの
type Deps struct {
	Config config.Config
	Log    *logrus.Logger
	DB     *gorm.DB
	Mail   mailer.Sender
}

type App struct {
	Echo   *echo.Echo
	Mailer *mailer.CodeMailer
}

// Repository → usecase → handler の順にDIしてechoを返す
func Build(d Deps) (*App, error) {
	cfg := d.Config

	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, err
	}

	//Repository（GORM実装）
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	addressRepo := infraRepo.NewAddressGormRepository(d.DB)
	restaurantRepo := infraRepo.NewRestaurantGormRepository(d.DB)
	menuRepo := infraRepo.NewMenuGormRepository(d.DB)
	cartRepo := infraRepo.NewCartGormRepository(d.DB)
	orderRepo := infraRepo.NewOrderGormRepository(d.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(d.DB)
	rtRepo := infraRepo.NewRefreshTokenRepository(d.DB)
	txm := infraRepo.NewTxManagerGorm(d.DB)

	v := validator.New(cfg.PhoneRegion)
	codeMailer := mailer.NewCodeMailer(d.Mail, d.Log, mailTimeout)

	//認証まわり
	codes := auth.NewVerificationEngine(userRepo, restaurantRepo, auth.RandomCodeGenerator{}, codeMailer)
	sessions := auth.NewSessionIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, rtRepo, uuidGenerator{}, realClock{})
	authUC := auth.NewAuthUsecase(userRepo, codes, sessions, v, realClock{})

	owners := gate.NewRestaurants(restaurantRepo)

	//Usecase
	userUC := usecase.NewUserUsecase(userRepo, addressRepo, auditRepo, codes, sessions, v)
	restaurantUC := usecase.NewRestaurantUsecase(restaurantRepo, auditRepo, owners, codes, v)
	menuUC := usecase.NewMenuUsecase(menuRepo, restaurantRepo, owners)
	cartUC := usecase.NewCartUsecase(cartRepo, menuRepo, restaurantRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, restaurantRepo)
	restaurantOrderUC := usecase.NewRestaurantOrderUsecase(txm, orderRepo, owners)

	limiter := middleware.NewRateLimiter(cfg.CodeRateLimit, cfg.CodeRateBurst, d.Log)

	//Handler
	h := Handlers{
		Auth:            handler.NewAuthHandler(authUC, limiter),
		User:            handler.NewUserHandler(userUC),
		Restaurant:      handler.NewRestaurantHandler(restaurantUC),
		Menu:            handler.NewMenuHandler(menuUC),
		Cart:            handler.NewCartHandler(cartUC),
		Order:           handler.NewOrderHandler(orderUC),
		RestaurantOrder: handler.NewRestaurantOrderHandler(restaurantOrderUC),
		System:          handler.NewSystemHandler(sqlDB),
	}

	return &App{
		Echo:   New(d.Log, v, authUC, h),
		Mailer: codeMailer,
	}, nil
}
