package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamestore/internal/config"
	"gamestore/internal/handler"
	"gamestore/internal/infra/db"
	"gamestore/internal/infra/messaging"
	infraRepo "gamestore/internal/infra/repository"
	"gamestore/internal/server"
	"gamestore/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	//os.Exitはdeferを飛ばすので、Syncは先に済ませる
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run は依存を組み立ててサーバーを動かす。
// 失敗はErrorで記録して返す（後片付けのdeferを必ず通す）。
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Error("failed to connect db", zap.Error(err))
		return err
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("failed to migrate", zap.Error(err))
		return err
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	saleRepo := infraRepo.NewSaleGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//売上イベント（ブローカー未設定なら送らない）
	var publisher usecase.SaleEventPublisher = usecase.NopSaleEventPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := messaging.NewKafkaSalePublisher(cfg.KafkaBrokers, cfg.KafkaSalesTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Warn("failed to close sale event writer", zap.Error(err))
			}
		}()
		publisher = kp
		logger.Info("sale events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaSalesTopic))
	}

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, txm, idGen, clock, logger)
	saleUC := usecase.NewSaleUsecase(txm, productRepo, saleRepo, publisher, idGen, clock, logger, usecase.SaleOptions{
		StrictPriceCheck: cfg.StrictPriceCheck,
	})

	//Handler生成
	e := server.New(cfg, logger, userRepo, server.Handlers{
		System:       handler.NewSystemHandler(cfg.GoEnv, clock),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Sale:         handler.NewSaleHandler(saleUC),
	})

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(ctx, e, addr, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
