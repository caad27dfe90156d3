package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"app/internal/cache"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

//ワンタイムコードの有効期限
const loginCodeTTL = 5 * time.Minute

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

// コード配送は外部コラボレーター（メール等）。実装は注入する。
type CodeSender interface {
	Send(ctx context.Context, email string, code string) error
}

// JWTの発行もmain側で組み立てて注入する。
type TokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

type Clock interface {
	Now() time.Time
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type PasswordVerifier interface {
	Verify(hash string, password string) error
}

type bcryptHasher struct{ cost int }

func NewBcryptPasswordHasher(cost int) PasswordHasher {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type bcryptVerifier struct{}

func NewBcryptPasswordVerifier() PasswordVerifier {
	return &bcryptVerifier{}
}

func (v *bcryptVerifier) Verify(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// AuthUsecase は登録・ログイン（二段階）を持つ。
// ログインはパスワード検証→ワンタイムコード発行、verifyでコードとJWTを交換する。
type AuthUsecase struct {
	userRepo  repo.UserRepository
	validator AuthValidator
	hasher    PasswordHasher
	verifier  PasswordVerifier
	codes     *cache.CodeCache
	sender    CodeSender
	issuer    TokenIssuer
	clock     Clock
}

func NewAuthUsecase(
	userRepo repo.UserRepository,
	validator AuthValidator,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	codes *cache.CodeCache,
	sender CodeSender,
	issuer TokenIssuer,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		validator: validator,
		hasher:    hasher,
		verifier:  verifier,
		codes:     codes,
		sender:    sender,
		issuer:    issuer,
		clock:     clock,
	}
}

type UserOutput struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type TokenOutput struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserOutput `json:"user"`
}

// Register は会員登録。
func (u *AuthUsecase) Register(ctx context.Context, email string, password string, name string) (UserOutput, error) {
	if err := u.validator.ValidateRegister(ctx, email, password); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	user := &model.User{
		Email:        strings.TrimSpace(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return UserOutput{ID: user.ID, Email: user.Email, Name: user.Name, Role: string(user.Role)}, nil
}

// Login はパスワード検証に通ったらワンタイムコードを発行して配送する。
// JWTはまだ返さない。
func (u *AuthUsecase) Login(ctx context.Context, email string, password string) error {
	if err := u.validator.ValidateLogin(ctx, email, password); err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := u.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		//存在有無は漏らさない
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.verifier.Verify(user.PasswordHash, password); err != nil {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	code, err := newLoginCode()
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	u.codes.Put(user.Email, code, loginCodeTTL)

	if err := u.sender.Send(ctx, user.Email, code); err != nil {
		logger.Error().Err(err).Str("email", user.Email).Msg("login code delivery failed")
		return NewHTTPError(http.StatusInternalServerError, "code delivery failed")
	}

	return nil
}

// VerifyCode は有効なコードとJWTを交換する。コードは一度しか使えない。
func (u *AuthUsecase) VerifyCode(ctx context.Context, email string, code string) (TokenOutput, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return TokenOutput{}, NewHTTPError(http.StatusBadRequest, "email and code required")
	}

	stored, ok := u.codes.Get(email)
	if !ok || stored != code {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid or expired code")
	}
	u.codes.Delete(email)

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := u.userRepo.Update(ctx, user); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("last login update failed")
	}

	return TokenOutput{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        UserOutput{ID: user.ID, Email: user.Email, Name: user.Name, Role: string(user.Role)},
	}, nil
}

// 6桁のワンタイムコード
func newLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
