package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes は全ハンドラのルートをまとめて登録する。
func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	productH *handler.ProductHandler,
	adminProductH *handler.AdminProductHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
	adminOrderH *handler.AdminOrderHandler,
	authH *handler.AuthHandler,
	adminUserH *handler.AdminUserHandler,
	adminAuditH *handler.AdminAuditHandler,
) {
	productH.RegisterRoutes(e)
	adminProductH.RegisterRoutes(e, cfg)
	cartH.RegisterRoutes(e)
	orderH.RegisterRoutes(e)
	adminOrderH.RegisterRoutes(e, cfg)
	authH.RegisterRoutes(e)
	adminUserH.RegisterRoutes(e, cfg)
	adminAuditH.RegisterRoutes(e, cfg)
}
