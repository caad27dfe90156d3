package main

import (
	"context"
	"os"
	"time"

	"app/internal/cache"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// ワンタイムコードをログに出すだけのSender。メール配送に差し替え可能。
type logCodeSender struct{}

func (s *logCodeSender) Send(ctx context.Context, email string, code string) error {
	logger.Info().Str("email", email).Str("code", code).Msg("login code issued")
	return nil
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envはローカル開発用。無ければ環境変数だけで動く
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.Counter{},
		&model.Product{},
		&model.ArchivedProduct{},
		&model.ArchivedUser{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.User{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	counterRepo := infraRepo.NewCounterGormRepository(gormDB)
	archiveRepo := infraRepo.NewArchiveGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()
	authValidator := validator.NewAuthValidator(userRepo)
	codes := cache.NewCodeCache(clock)
	sender := &logCodeSender{}
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 15 * time.Minute}

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(productRepo, counterRepo, archiveRepo, inventoryRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager)
	orderStatusUC := usecase.NewOrderStatusUsecase(txManager, auditRepo)
	authUC := usecase.NewAuthUsecase(userRepo, authValidator, hasher, verifier, codes, sender, issuer, clock)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, archiveRepo, auditRepo)
	auditUC := usecase.NewAuditUsecase(auditRepo)

	//採番カウンタを既存の最大値に合わせてから受け付ける
	if err := catalogUC.HealNumericSequence(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("sequence heal failed")
	}

	//Handler生成
	productH := handler.NewProductHandler(catalogUC)
	adminProductH := handler.NewAdminProductHandler(catalogUC)
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(checkoutUC, orderStatusUC)
	adminOrderH := handler.NewAdminOrderHandler(orderStatusUC)
	authH := handler.NewAuthHandler(authUC)
	adminUserH := handler.NewAdminUserHandler(adminUserUC)
	adminAuditH := handler.NewAdminAuditHandler(auditUC)

	//Server起動
	e := server.New()
	server.RegisterRoutes(e, cfg, productH, adminProductH, cartH, orderH, adminOrderH, authH, adminUserH, adminAuditH)

	addr := ":" + cfg.Port
	if err := server.Start(e, addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
