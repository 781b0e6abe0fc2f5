package handler

import (
	"errors"
	"net/http"
	"time"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authUC *usecase.AuthUsecase
}

// DIコンストラクタ
func NewAuthHandler(authUC *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

// 全レスポンス共通の形。status は "success" か "fail"。
type authResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	AuthToken string      `json:"auth_token,omitempty"`
	Data      *statusData `json:"data,omitempty"`
}

// GET /auth/status の data
type statusData struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	Admin        bool      `json:"admin"`
	RegisteredOn time.Time `json:"registered_on"`
}

// RegisterはPOST /auth/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{
			Status:  "fail",
			Message: "Invalid payload.",
		})
	}

	authToken, err := h.authUC.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return c.JSON(http.StatusBadRequest, authResponse{
				Status:  "fail",
				Message: "Invalid payload.",
			})
		case errors.Is(err, usecase.ErrUserExists):
			//登録成功の201と区別できることがAPI契約なので202
			return c.JSON(http.StatusAccepted, authResponse{
				Status:  "fail",
				Message: "User already exists, please log in.",
			})
		default:
			return c.JSON(http.StatusInternalServerError, authResponse{
				Status:  "fail",
				Message: "Some error occurred. Please try again.",
			})
		}
	}

	return c.JSON(http.StatusCreated, authResponse{
		Status:    "success",
		Message:   "Successfully registered.",
		AuthToken: authToken,
	})
}

// LoginはPOST /auth/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResponse{
			Status:  "fail",
			Message: "Invalid payload.",
		})
	}

	authToken, err := h.authUC.Login(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return c.JSON(http.StatusBadRequest, authResponse{
				Status:  "fail",
				Message: "Invalid payload.",
			})
		case errors.Is(err, usecase.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, authResponse{
				Status:  "fail",
				Message: "User does not exist.",
			})
		case errors.Is(err, usecase.ErrBadCredentials):
			return c.JSON(http.StatusUnauthorized, authResponse{
				Status:  "fail",
				Message: "Login credentials not recognised.",
			})
		default:
			return c.JSON(http.StatusInternalServerError, authResponse{
				Status:  "fail",
				Message: "Some error occurred. Please try again.",
			})
		}
	}

	return c.JSON(http.StatusOK, authResponse{
		Status:    "success",
		Message:   "Successfully logged in.",
		AuthToken: authToken,
	})
}

// StatusはGET /auth/status のハンドラ。BearerAuth通過後にしか呼ばれない。
func (h *AuthHandler) Status(c echo.Context) error {
	session, ok := c.Get(middleware.CtxSessionKey).(*usecase.AuthSession)
	if !ok || session == nil || session.User == nil {
		return c.JSON(http.StatusUnauthorized, authResponse{
			Status:  "fail",
			Message: "Invalid token. Please log in again.",
		})
	}

	return c.JSON(http.StatusOK, authResponse{
		Status: "success",
		Data: &statusData{
			UserID:       session.User.ID,
			Email:        session.User.Email,
			Admin:        session.User.Admin,
			RegisteredOn: session.User.RegisteredOn,
		},
	})
}

// LogoutはPOST /auth/logout のハンドラ。
// 期限切れ・blacklist済みはBearerAuthが同じ401ファミリで落とす。
func (h *AuthHandler) Logout(c echo.Context) error {
	session, ok := c.Get(middleware.CtxSessionKey).(*usecase.AuthSession)
	if !ok || session == nil {
		return c.JSON(http.StatusUnauthorized, authResponse{
			Status:  "fail",
			Message: "Invalid token. Please log in again.",
		})
	}

	if err := h.authUC.Logout(c.Request().Context(), session); err != nil {
		return c.JSON(http.StatusInternalServerError, authResponse{
			Status:  "fail",
			Message: "Some error occurred. Please try again.",
		})
	}

	return c.JSON(http.StatusOK, authResponse{
		Status:  "success",
		Message: "Successfully logged out.",
	})
}
