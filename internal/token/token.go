package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	//署名・構造が壊れている（偽造含む）
	ErrTokenInvalid = errors.New("token invalid")
	//期限切れ
	ErrTokenExpired = errors.New("token expired")
)

// Service はJWTの発行と検証を行う。
// secretはプロセス内で不変。外には出さない。
type Service struct {
	secret []byte
	ttl    time.Duration
}

// DI
func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue はuserIDをHS256で署名したtokenを発行する。
// nowは呼び出し側から渡す（テストしやすくするため内部でtime.Now()しない）。
func (s *Service) Issue(userID int64, now time.Time) (string, error) {
	expiresAt := now.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify はtokenを検証してuserIDと自然失効時刻を返す。
// 署名検証が通るまでclaimsは一切信用しない。
// 失敗は ErrTokenExpired（期限切れ）か ErrTokenInvalid（それ以外全部）。
func (s *Service) Verify(raw string, now time.Time) (int64, time.Time, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		//alg none等の差し替え攻撃を防ぐ
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))

	if err != nil {
		//期限切れだけは別エラーにする（メッセージを分けるため）
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, time.Time{}, ErrTokenExpired
		}
		return 0, time.Time{}, ErrTokenInvalid
	}

	if tok == nil || !tok.Valid {
		return 0, time.Time{}, ErrTokenInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, ErrTokenInvalid
	}

	userID, err := parseUserID(claims["sub"])
	if err != nil || userID <= 0 {
		return 0, time.Time{}, ErrTokenInvalid
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, time.Time{}, ErrTokenInvalid
	}

	return userID, exp.Time, nil
}

// subをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
