package server

import (
	"app/internal/handler"
	appmw "app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, authH *handler.AuthHandler, authUC *usecase.AuthUsecase) {
	//公開ルート
	e.POST("/auth/register", authH.Register)
	e.POST("/auth/login", authH.Login)

	//保護ルート（BearerAuth必須）
	protected := e.Group("/auth", appmw.BearerAuth(authUC))
	protected.GET("/status", authH.Status)
	protected.POST("/logout", authH.Logout)
}
