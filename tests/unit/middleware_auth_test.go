package unit

import (
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/token"
	"app/internal/usecase"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// レスポンス確認用（any禁止）
// =====================

type mwFailResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type mwOKResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// =====================
// helper
// =====================

type mwFixture struct {
	e        *echo.Echo
	userRepo *MockUserRepository
	blRepo   *MockBlacklistTokenRepository
	clock    *fakeClock
	tokenSvc *token.Service
}

// 保護ルートを1本持つechoを組み立てる
func newMWFixture(t *testing.T) *mwFixture {
	t.Helper()

	userRepo := new(MockUserRepository)
	blRepo := new(MockBlacklistTokenRepository)
	v := new(MockAuthValidator)
	clock := &fakeClock{now: testBase}

	uc, tokenSvc := newAuthUC(userRepo, blRepo, v, clock)

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		session, _ := c.Get(middleware.CtxSessionKey).(*usecase.AuthSession)
		return c.JSON(http.StatusOK, mwOKResponse{
			UserID: session.User.ID,
			Email:  session.User.Email,
		})
	}, middleware.BearerAuth(uc))

	return &mwFixture{
		e:        e,
		userRepo: userRepo,
		blRepo:   blRepo,
		clock:    clock,
		tokenSvc: tokenSvc,
	}
}

func runRequest(t *testing.T, e *echo.Echo, method string, path string, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWFail(t *testing.T, rec *httptest.ResponseRecorder) mwFailResponse {
	t.Helper()
	var r mwFailResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

// =====================
// BearerAuth
// =====================

// Authorizationなし => 401 malformed
func TestMiddleware_BearerAuth_NoHeader(t *testing.T) {
	f := newMWFixture(t)

	rec := runRequest(t, f.e, http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeMWFail(t, rec)
	assert.Equal(t, "fail", body.Status)
	assert.Equal(t, "Bearer token malformed.", body.Message)
}

// "Bearer"+tokenでスペースがない => 401 malformed（tokenが有効でも）
func TestMiddleware_BearerAuth_NoSpaceSeparator(t *testing.T) {
	f := newMWFixture(t)

	raw, err := f.tokenSvc.Issue(1, f.clock.Now())
	assert.NoError(t, err)

	rec := runRequest(t, f.e, http.MethodGet, "/protected", "Bearer"+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeMWFail(t, rec)
	assert.Equal(t, "Bearer token malformed.", body.Message)
}

// 署名違い => 401 invalid
func TestMiddleware_BearerAuth_BadSignature(t *testing.T) {
	f := newMWFixture(t)

	other := token.NewService([]byte("wrong-secret"), testTTL)
	raw, err := other.Issue(1, f.clock.Now())
	assert.NoError(t, err)

	rec := runRequest(t, f.e, http.MethodGet, "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeMWFail(t, rec)
	assert.Equal(t, "Invalid token. Please log in again.", body.Message)
}

// 期限切れ => 401 expired
func TestMiddleware_BearerAuth_Expired(t *testing.T) {
	f := newMWFixture(t)

	raw, err := f.tokenSvc.Issue(1, f.clock.Now())
	assert.NoError(t, err)

	f.clock.now = testBase.Add(testTTL + time.Second)

	rec := runRequest(t, f.e, http.MethodGet, "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeMWFail(t, rec)
	assert.Equal(t, "Signature expired. Please log in again.", body.Message)
}

// blacklist済み => 401 blacklisted
func TestMiddleware_BearerAuth_Blacklisted(t *testing.T) {
	f := newMWFixture(t)

	raw, err := f.tokenSvc.Issue(1, f.clock.Now())
	assert.NoError(t, err)

	f.blRepo.On("Exists", mock.Anything, raw).Return(true, nil)

	rec := runRequest(t, f.e, http.MethodGet, "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeMWFail(t, rec)
	assert.Equal(t, "Token blacklisted. Please log in again.", body.Message)
}

// 正常：ctxにセッションが入る
func TestMiddleware_BearerAuth_Success_SetsContext(t *testing.T) {
	f := newMWFixture(t)

	raw, err := f.tokenSvc.Issue(123, f.clock.Now())
	assert.NoError(t, err)

	f.blRepo.On("Exists", mock.Anything, raw).Return(false, nil)
	f.userRepo.On("FindByID", mock.Anything, int64(123)).Return(&model.User{
		ID:    123,
		Email: "joe@example.com",
	}, nil)

	rec := runRequest(t, f.e, http.MethodGet, "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "joe@example.com", body.Email)
}
