package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository"
	"github.com/dom/matchup-companion/internal/repository/postgres"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/dom/matchup-companion/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	db      *testutil.TestDB
	repos   *repository.Repositories
	service *service.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewAuthService(repos.User, repos.Session, repos.Role, testutil.TestConfig())
	return &authFixture{db: testDB, repos: repos, service: svc}
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	display := "Faker"
	mid := domain.RoleMid
	result, err := f.service.Register(ctx, service.RegisterInput{
		Email:           "  Faker@Example.com ",
		UserName:        "faker",
		Password:        "hunter22",
		DisplayName:     &display,
		PreferredRoleID: &mid,
	})
	require.NoError(t, err)
	assert.Equal(t, "faker@example.com", result.Email)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.False(t, result.IsGuest)
	assert.Empty(t, result.Roles)

	tests := []struct {
		name    string
		input   service.RegisterInput
		wantErr error
	}{
		{
			name:    "email differs only in case",
			input:   service.RegisterInput{Email: "FAKER@example.com", UserName: "someone", Password: "hunter22"},
			wantErr: service.ErrEmailExists,
		},
		{
			name:    "user name taken",
			input:   service.RegisterInput{Email: "other@example.com", UserName: "Faker", Password: "hunter22"},
			wantErr: service.ErrUserNameExists,
		},
		{
			name:    "unknown preferred role",
			input:   service.RegisterInput{Email: "third@example.com", UserName: "third", Password: "hunter22", PreferredRoleID: intPtr(9)},
			wantErr: domain.ErrRoleNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Register(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	me, err := f.service.Me(ctx, result.UserID)
	require.NoError(t, err)
	require.NotNil(t, me.PreferredRoleName)
	assert.Equal(t, "Mid", *me.PreferredRoleName)
}

func TestAuthService_RegisterConcurrentSameUserName(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Register(ctx, service.RegisterInput{
				Email:    fmt.Sprintf("contender%d@example.com", i),
				UserName: "contested",
				Password: "hunter22",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, service.ErrUserNameExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, service.RegisterInput{Email: "login@example.com", UserName: "login", Password: "correct-horse"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "login@example.com", "correct-horse", nil},
		{"email is case insensitive", "LOGIN@example.com", "correct-horse", nil},
		{"wrong password", "login@example.com", "battery-staple", service.ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "correct-horse", service.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.Login(ctx, service.LoginInput{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "login", result.UserName)
		})
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.service.Register(ctx, service.RegisterInput{Email: "claims@example.com", UserName: "claims", Password: "password1"})
	require.NoError(t, err)

	claims, err := f.service.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.UserID, claims.UserID)
	assert.Equal(t, "claims@example.com", claims.Email)
	assert.Equal(t, "claims", claims.DisplayName, "user name stands in for a missing display name")
	assert.False(t, claims.IsAdmin())

	other := testutil.TestConfig()
	other.JWTSecret = "a-different-secret-that-is-long-enough-0000"
	foreign := service.NewAuthService(f.repos.User, f.repos.Session, f.repos.Role, other)
	_, err = foreign.ValidateToken(result.Token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	f.service.SetClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	_, err = f.service.ValidateToken(result.Token)
	assert.ErrorIs(t, err, service.ErrInvalidToken, "expired")

	_, err = f.service.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.service.Register(ctx, service.RegisterInput{Email: "refresh@example.com", UserName: "refresh", Password: "password1"})
	require.NoError(t, err)

	// Access token expiry does not block a refresh.
	f.service.SetClock(func() time.Time { return time.Now().Add(3 * time.Hour) })

	second, err := f.service.Refresh(ctx, service.RefreshInput{Token: first.Token, RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.service.Refresh(ctx, service.RefreshInput{Token: first.Token, RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken, "refresh tokens are single use")

	_, err = f.service.Refresh(ctx, service.RefreshInput{Token: "garbage", RefreshToken: second.RefreshToken})
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)

	require.NoError(t, f.service.Logout(ctx, second.UserID))
	_, err = f.service.Refresh(ctx, service.RefreshInput{Token: second.Token, RefreshToken: second.RefreshToken})
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken, "logout revokes the session")

	third, err := f.service.Login(ctx, service.LoginInput{Email: "refresh@example.com", Password: "password1"})
	require.NoError(t, err)
	f.service.SetClock(func() time.Time { return time.Now().Add(8 * 24 * time.Hour) })
	_, err = f.service.Refresh(ctx, service.RefreshInput{Token: third.Token, RefreshToken: third.RefreshToken})
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken, "session expired")
}

func TestAuthService_Guest(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	start := time.Now()
	f.service.SetClock(func() time.Time { return start })

	guest, err := f.service.CreateGuest(ctx)
	require.NoError(t, err)
	assert.True(t, guest.IsGuest)
	require.NotNil(t, guest.DisplayName)
	assert.Equal(t, "Guest", *guest.DisplayName)
	assert.Regexp(t, `^Guest_[0-9a-f]{8}$`, guest.UserName)
	assert.WithinDuration(t, start.Add(time.Hour), guest.ExpiresAt, time.Second)

	claims, err := f.service.ValidateToken(guest.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsGuest)

	f.service.SetClock(func() time.Time { return start.Add(25 * time.Hour) })
	_, err = f.service.Refresh(ctx, service.RefreshInput{Token: guest.Token, RefreshToken: guest.RefreshToken})
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken, "the session ends with the guest account")

	user, err := f.repos.User.GetByID(ctx, guest.UserID)
	require.NoError(t, err)
	assert.True(t, user.GuestExpired(start.Add(25*time.Hour)))
}

func TestAuthService_Admin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.EnsureAdmin(ctx, "root@example.com", "admin-password"))
	require.NoError(t, f.service.EnsureAdmin(ctx, "root@example.com", "ignored"), "second call is a no-op")

	result, err := f.service.Login(ctx, service.LoginInput{Email: "root@example.com", Password: "admin-password"})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.AdminRole}, result.Roles)
	assert.Equal(t, "root", result.UserName)

	claims, err := f.service.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())

	// An existing account with a taken name gets promoted, not recreated.
	_, err = f.service.Register(ctx, service.RegisterInput{Email: "lead@example.com", UserName: "lead", Password: "password1"})
	require.NoError(t, err)
	require.NoError(t, f.service.EnsureAdmin(ctx, "lead@example.com", "whatever"))
	lead, err := f.repos.User.GetByEmail(ctx, "lead@example.com")
	require.NoError(t, err)
	assert.True(t, lead.HasRole(domain.AdminRole))

	// A fresh admin whose local part is already a user name gets a suffix.
	require.NoError(t, f.service.EnsureAdmin(ctx, "lead@other.example.com", "password2"))
	promoted, err := f.repos.User.GetByEmail(ctx, "lead@other.example.com")
	require.NoError(t, err)
	assert.Equal(t, "lead1", promoted.UserName)

	require.NoError(t, f.service.GrantRole(ctx, "lead@example.com", "Moderator"))
	lead, err = f.repos.User.GetByEmail(ctx, "lead@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{domain.AdminRole, "Moderator"}, lead.RoleNames())

	assert.ErrorIs(t, f.service.GrantRole(ctx, "missing@example.com", domain.AdminRole), domain.ErrUserNotFound)

	err = f.service.EnsureAdmin(ctx, "tiny@example.com", "x")
	assert.ErrorIs(t, err, service.ErrPasswordTooShort)
	_, err = f.repos.User.GetByEmail(ctx, "tiny@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound, "no account is created with a short password")
}
