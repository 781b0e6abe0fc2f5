package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/token"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
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
	//.envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.BlacklistToken{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserRepository(gormDB)
	blacklistRepo := infraRepo.NewBlacklistTokenRepository(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//JWT signer/verifier
	tokenSvc := token.NewService([]byte(cfg.JWTSecret), cfg.SessionTTL)

	//入力validator
	authValidator := validator.NewAuthValidator()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(
		userRepo,
		blacklistRepo,
		tokenSvc,
		authValidator,
		idGen,
		clock,
		cfg.BcryptCost,
	)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, authH, authUC); err != nil {
		panic(err)
	}
}
