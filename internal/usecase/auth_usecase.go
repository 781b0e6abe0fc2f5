package usecase

import (
	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/token"

	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//202 email重複
	ErrUserExists = errors.New("user already exists")
	//404 ユーザーがいない
	ErrUserNotFound = errors.New("user does not exist")
	//401 パスワード不一致
	ErrBadCredentials = errors.New("bad credentials")
	//500
	ErrInternal = errors.New("internal error")

	//401 Authorizationヘッダの形が崩れている
	ErrBearerMalformed = errors.New("bearer token malformed")
	//401 署名・構造が不正
	ErrTokenInvalid = errors.New("token invalid")
	//401 期限切れ
	ErrTokenExpired = errors.New("token expired")
	//401 blacklist済み
	ErrTokenBlacklisted = errors.New("token blacklisted")
	//401 subのユーザーが既にいない
	ErrUnknownUser = errors.New("unknown user")
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// 検証を通過したセッション。Logoutがtoken文字列と自然失効時刻を使う。
type AuthSession struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase struct {
	users      repository.UserRepository
	blacklist  repository.BlacklistTokenRepository
	tokens     *token.Service
	validator  AuthValidator
	idGen      IDGenerator
	clock      Clock
	bcryptCost int
}

func NewAuthUsecase(
	users repository.UserRepository,
	blacklist repository.BlacklistTokenRepository,
	tokens *token.Service,
	validator AuthValidator,
	idGen IDGenerator,
	clock Clock,
	bcryptCost int,
) *AuthUsecase {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthUsecase{
		users:      users,
		blacklist:  blacklist,
		tokens:     tokens,
		validator:  validator,
		idGen:      idGen,
		clock:      clock,
		bcryptCost: bcryptCost,
	}
}

// Register は会員登録してtokenを発行する。
func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (string, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Password); err != nil {
		return "", ErrValidation
	}

	//email重複チェック
	existing, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return "", ErrInternal
	}
	if existing != nil {
		return "", ErrUserExists
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.bcryptCost)
	if err != nil {
		return "", ErrInternal
	}

	now := u.clock.Now()

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(pwHash),
		Admin:        false,
		RegisteredOn: now,
	}

	if err := u.users.Create(ctx, user); err != nil {
		// unique違反はFindByEmailとCreateの間に別リクエストが入った場合
		return "", ErrUserExists
	}

	//token発行
	authToken, err := u.tokens.Issue(user.ID, now)
	if err != nil {
		return "", ErrInternal
	}

	return authToken, nil
}

// Login はemail+passwordを照合してtokenを発行する。
func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (string, error) {
	//入力検証
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return "", ErrValidation
	}

	now := u.clock.Now()

	//failしてもログイン継続（blacklistの掃除は義務ではない）
	_, _ = u.blacklist.DeleteExpired(ctx, now)

	//ユーザー取得
	user, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", ErrInternal
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrBadCredentials
	}

	//token発行
	authToken, err := u.tokens.Issue(user.ID, now)
	if err != nil {
		return "", ErrInternal
	}

	return authToken, nil
}

// Authenticate はAuthorizationヘッダから認証済みセッションを組み立てる。
// チェック順は契約：ヘッダ形式 → 署名 → 期限 → blacklist → ユーザー解決。
// エラーメッセージが最初に破った条件を指すよう、途中で順番を入れ替えない。
func (u *AuthUsecase) Authenticate(ctx context.Context, authorization string) (*AuthSession, error) {
	//1) Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, ErrBearerMalformed
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return nil, ErrBearerMalformed
	}

	//2) 署名・構造 3) 期限
	userID, expiresAt, err := u.tokens.Verify(raw, u.clock.Now())
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	//4) blacklist照合（完全一致）
	//ログアウト済みでまだ期限内のtokenをここで落とす
	revoked, err := u.blacklist.Exists(ctx, raw)
	if err != nil {
		return nil, ErrInternal
	}
	if revoked {
		return nil, ErrTokenBlacklisted
	}

	//5) ユーザー解決
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, ErrInternal
	}

	return &AuthSession{
		User:      user,
		Token:     raw,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout は検証済みセッションのtokenをblacklistに入れる。
// 同じtokenでの再ログアウトはAuthenticateのblacklist照合で401になる。
func (u *AuthUsecase) Logout(ctx context.Context, session *AuthSession) error {
	if session == nil || session.Token == "" {
		return ErrBearerMalformed
	}

	record := &model.BlacklistToken{
		ID:            u.idGen.NewID(),
		Token:         session.Token,
		ExpiresAt:     session.ExpiresAt,
		BlacklistedOn: u.clock.Now(),
	}

	if err := u.blacklist.Create(ctx, record); err != nil {
		return ErrInternal
	}

	return nil
}
