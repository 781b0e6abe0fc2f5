package middleware

import (
	"errors"
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Authenticateしたセッションをhandlerへ渡すcontextキー
const CtxSessionKey = "auth_session" // *usecase.AuthSession

type failResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// bearerAuth用の検証ミドルウェア。
// 失敗理由ごとにメッセージを変えて401で返す（呼び出し側がメッセージ文面に依存する）。
func BearerAuth(authUC *usecase.AuthUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")

			session, err := authUC.Authenticate(c.Request().Context(), authz)
			if err != nil {
				return c.JSON(authFailStatus(err), failResponse{
					Status:  "fail",
					Message: authFailMessage(err),
				})
			}

			//contextへ保存
			c.Set(CtxSessionKey, session)

			return next(c)
		}
	}
}

// 認証エラーのHTTPステータス
func authFailStatus(err error) int {
	if errors.Is(err, usecase.ErrInternal) {
		return http.StatusInternalServerError
	}
	return http.StatusUnauthorized
}

// 認証エラーの文面。最初に破った条件を指す。
func authFailMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrBearerMalformed):
		return "Bearer token malformed."
	case errors.Is(err, usecase.ErrTokenExpired):
		return "Signature expired. Please log in again."
	case errors.Is(err, usecase.ErrTokenBlacklisted):
		return "Token blacklisted. Please log in again."
	case errors.Is(err, usecase.ErrInternal):
		return "Some error occurred. Please try again."
	default:
		//署名不正・ユーザー不在はtokenの内容を明かさない
		return "Invalid token. Please log in again."
	}
}
