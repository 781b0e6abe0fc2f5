package server

import (
	"app/internal/handler"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func Start(addr string, authH *handler.AuthHandler, authUC *usecase.AuthUsecase) error {
	e := echo.New()
	e.HideBanner = true

	//アクセスログとpanic回収
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	RegisterRoutes(e, authH, authUC)

	return e.Start(addr)
}
