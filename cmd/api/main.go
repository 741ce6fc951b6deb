package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bellyfied/internal/config"
	"bellyfied/internal/infra/db"
	"bellyfied/internal/infra/logging"
	"bellyfied/internal/infra/mailer"
	"bellyfied/internal/server"

	"github.com/sirupsen/logrus"
)

func main() {
	//.envは無くてもよい
	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	//DB接続
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("migrate")
	}
	if err := db.SeedCategories(gormDB, db.DefaultCategories); err != nil {
		log.WithError(err).Fatal("seed categories")
	}

	//メール送信
	var sender mailer.Sender = mailer.NewLogSender(log)
	if cfg.MailDriver == "log" {
		log.Warn("MAIL_DRIVER=log: verification codes are not emailed, they go to the debug log")
	}
	if cfg.MailDriver == "smtp" {
		smtp, err := mailer.NewSMTPSender(cfg)
		if err != nil {
			log.WithError(err).Fatal("smtp client")
		}
		sender = smtp
	}

	app, err := server.Build(server.Deps{Config: cfg, Log: log, DB: gormDB, Mail: sender})
	if err != nil {
		log.WithError(err).Fatal("build app")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, app.Echo, ":"+cfg.Port, log); err != nil {
		log.WithError(err).Error("server stopped")
	}

	//送信中のメールを待つ
	app.Mailer.Wait()

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
