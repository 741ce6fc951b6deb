package db

import (
	"fmt"

	"bellyfied/internal/config"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/infra/logging"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectはDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config, log *logrus.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         logging.NewGormLogger(log),
		TranslateError: true,
	}

	switch cfg.DBDriver {
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, gcfg)
	case "postgres":
		return gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
	default:
		return nil, fmt.Errorf("unknown db driver: %s", cfg.DBDriver)
	}
}

// sqliteは外部キーを明示的に有効にする
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{TranslateError: true}
	}
	dsn := path + "?_pragma=foreign_keys(1)"
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}
	gdb, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, err
	}

	//in-memoryは接続ごとに別DBになるので1本に絞る
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

// 全テーブルを作成・更新
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.Restaurant{},
		&model.Location{},
		&model.Category{},
		&model.MenuItem{},
		&model.CartLine{},
		&model.Order{},
		&model.RefreshToken{},
		&model.AuditLog{},
	)
}

// 起動時に入れるカテゴリ
var DefaultCategories = []string{
	"Breakfast",
	"Rice",
	"Soups",
	"Swallow",
	"Grills",
	"Snacks",
	"Drinks",
	"Desserts",
}

// カテゴリを名前で作成（あれば何もしない）
func SeedCategories(gdb *gorm.DB, names []string) error {
	for _, name := range names {
		c := model.Category{Name: name}
		if err := gdb.Where("name = ?", name).FirstOrCreate(&c).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}
	return nil
}
