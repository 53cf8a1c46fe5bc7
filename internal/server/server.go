package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gamestore/internal/config"
	"gamestore/internal/handler"
	"gamestore/internal/middleware"
	"gamestore/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Handlers はルート登録に使うhandlerの束
type Handlers struct {
	System       *handler.SystemHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Sale         *handler.SaleHandler
}

// New はミドルウェアと /api 以下のルートを登録したechoを返す。
func New(cfg config.Config, logger *zap.Logger, userRepo repository.UserRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	//フロントからのアクセスだけ許可（未設定なら全許可）
	origins := []string{"*"}
	if cfg.FEURL != "" {
		origins = []string{cfg.FEURL}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	api := e.Group("/api")
	h.System.RegisterRoutes(api)
	h.Product.RegisterRoutes(api)
	h.AdminProduct.RegisterRoutes(api, cfg, userRepo)
	h.Sale.RegisterRoutes(api, cfg, userRepo)

	return e
}

// Start はctxがキャンセルされるまでサーバーを動かし、その後graceful shutdownする。
func Start(ctx context.Context, e *echo.Echo, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
