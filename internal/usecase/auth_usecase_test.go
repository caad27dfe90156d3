package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/cache"
	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Fakes（時計・ハッシュ・コード配送は決定的な偽物で回す）
// =====================

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeAuthValidator struct{}

func (v *fakeAuthValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	return nil
}

func (v *fakeAuthValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	return nil
}

type fakeHasher struct{}

func (h *fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

type fakeVerifier struct{}

func (v *fakeVerifier) Verify(hash string, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type recordingSender struct {
	lastEmail string
	lastCode  string
}

func (s *recordingSender) Send(ctx context.Context, email string, code string) error {
	s.lastEmail = email
	s.lastCode = code
	return nil
}

type fakeIssuer struct{}

func (i *fakeIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return "token", now.Add(15 * time.Minute), nil
}

type authFixture struct {
	users  *UserRepoMock
	clock  *fakeClock
	codes  *cache.CodeCache
	sender *recordingSender
	uc     *usecase.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  new(UserRepoMock),
		clock:  &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		sender: &recordingSender{},
	}
	f.codes = cache.NewCodeCache(f.clock)
	f.uc = usecase.NewAuthUsecase(
		f.users,
		&fakeAuthValidator{},
		&fakeHasher{},
		&fakeVerifier{},
		f.codes,
		f.sender,
		&fakeIssuer{},
		f.clock,
	)
	return f
}

func activeUser() *model.User {
	return &model.User{ID: 1, Email: "admin@example.com", Name: "Admin", PasswordHash: "hash:pw", Role: model.RoleAdmin}
}

// =====================
// Register / Login
// =====================

func TestAuthUsecase_Register_StoresHash(t *testing.T) {
	f := newAuthFixture()

	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@example.com" && u.PasswordHash == "hash:pw" && u.Role == model.RoleUser
	})).Return(nil)

	out, err := f.uc.Register(context.Background(), "new@example.com", "pw", "New")
	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", out.Email)

	f.users.AssertExpectations(t)
}

func TestAuthUsecase_Login_SendsOneTimeCode(t *testing.T) {
	f := newAuthFixture()

	f.users.On("FindByEmail", mock.Anything, "admin@example.com").Return(activeUser(), nil)

	err := f.uc.Login(context.Background(), "admin@example.com", "pw")
	assert.NoError(t, err)
	assert.Equal(t, "admin@example.com", f.sender.lastEmail)
	assert.Len(t, f.sender.lastCode, 6)
}

func TestAuthUsecase_Login_WrongPassword_NoCodeSent(t *testing.T) {
	f := newAuthFixture()

	f.users.On("FindByEmail", mock.Anything, "admin@example.com").Return(activeUser(), nil)

	err := f.uc.Login(context.Background(), "admin@example.com", "wrong")
	assertErrContains(t, err, "unauthorized")
	assert.Empty(t, f.sender.lastCode)
}

func TestAuthUsecase_Login_UnknownEmail_SameErrorAsBadPassword(t *testing.T) {
	f := newAuthFixture()

	f.users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	err := f.uc.Login(context.Background(), "ghost@example.com", "pw")
	assertErrContains(t, err, "unauthorized")
}

// =====================
// VerifyCode
// =====================

func TestAuthUsecase_VerifyCode_ExchangesCodeForToken(t *testing.T) {
	f := newAuthFixture()

	f.users.On("FindByEmail", mock.Anything, "admin@example.com").Return(activeUser(), nil)
	f.users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	require.NoError(t, f.uc.Login(context.Background(), "admin@example.com", "pw"))

	out, err := f.uc.VerifyCode(context.Background(), "admin@example.com", f.sender.lastCode)
	assert.NoError(t, err)
	assert.Equal(t, "token", out.AccessToken)
	assert.Equal(t, "ADMIN", out.User.Role)

	// コードは一度しか使えない
	_, err = f.uc.VerifyCode(context.Background(), "admin@example.com", f.sender.lastCode)
	assertErrContains(t, err, "invalid or expired code")
}

func TestAuthUsecase_VerifyCode_ExpiredCodeRejected(t *testing.T) {
	f := newAuthFixture()

	f.users.On("FindByEmail", mock.Anything, "admin@example.com").Return(activeUser(), nil)

	require.NoError(t, f.uc.Login(context.Background(), "admin@example.com", "pw"))

	// TTL（5分）を一秒だけ越える
	f.clock.now = f.clock.now.Add(5*time.Minute + time.Second)

	_, err := f.uc.VerifyCode(context.Background(), "admin@example.com", f.sender.lastCode)
	assertErrContains(t, err, "invalid or expired code")
}

func TestAuthUsecase_VerifyCode_WrongCodeRejected(t *testing.T) {
	f := newAuthFixture()

	f.users.On("FindByEmail", mock.Anything, "admin@example.com").Return(activeUser(), nil)

	require.NoError(t, f.uc.Login(context.Background(), "admin@example.com", "pw"))

	_, err := f.uc.VerifyCode(context.Background(), "admin@example.com", "not-the-code")
	assertErrContains(t, err, "invalid or expired code")
}
