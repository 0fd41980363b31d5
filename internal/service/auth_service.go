package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/matchup-companion/internal/config"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength matches the registration request validation.
const MinPasswordLength = 6

const (
	guestDisplayName = "Guest"
	guestEmailDomain = "matchupcompanion.local"
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	roleRepo    repository.RoleRepository
	cfg         *config.Config
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, roleRepo repository.RoleRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		roleRepo:    roleRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

type RegisterInput struct {
	Email           string
	UserName        string
	Password        string
	DisplayName     *string
	PreferredRoleID *int
}

type LoginInput struct {
	Email    string
	Password string
}

type RefreshInput struct {
	Token        string
	RefreshToken string
}

// AuthResult is the body of every successful register, login, guest and
// refresh call.
type AuthResult struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       uuid.UUID `json:"userId"`
	Email        string    `json:"email"`
	UserName     string    `json:"userName"`
	DisplayName  *string   `json:"displayName"`
	IsGuest      bool      `json:"isGuest"`
	Roles        []string  `json:"roles"`
}

// Claims is the verified identity carried by an access token.
type Claims struct {
	UserID      uuid.UUID
	Email       string
	UserName    string
	DisplayName string
	IsGuest     bool
	Roles       []string
}

func (c *Claims) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r == name {
			return true
		}
	}
	return false
}

func (c *Claims) IsAdmin() bool {
	return c.HasRole(domain.AdminRole)
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	userName := strings.TrimSpace(input.UserName)

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUserName(ctx, userName); err == nil {
		return nil, ErrUserNameExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if input.PreferredRoleID != nil {
		exists, err := s.roleRepo.Exists(ctx, *input.PreferredRoleID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrRoleNotFound
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:              uuid.New(),
		Email:           email,
		UserName:        userName,
		PasswordHash:    string(hashedPassword),
		DisplayName:     input.DisplayName,
		PreferredRoleID: input.PreferredRoleID,
		LastLoginAt:     &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateUserError(ctx, userName)
		}
		return nil, err
	}

	log.WithField("userID", user.ID).Info("[auth.Register] user registered")
	return s.generateTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.GuestExpired(s.now()) {
		return nil, ErrGuestExpired
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, user)
}

// CreateGuest makes a throwaway account that can read but not write and
// expires after the configured guest session length.
func (s *AuthService) CreateGuest(ctx context.Context) (*AuthResult, error) {
	id := uuid.New()
	password, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(time.Duration(s.cfg.GuestSessionHours) * time.Hour)
	displayName := guestDisplayName
	user := &domain.User{
		ID:             id,
		Email:          fmt.Sprintf("guest_%s@%s", id, guestEmailDomain),
		UserName:       "Guest_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		PasswordHash:   string(password),
		DisplayName:    &displayName,
		IsGuest:        true,
		GuestExpiresAt: &expiresAt,
		EmailConfirmed: true,
		LastLoginAt:    &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.WithField("userID", user.ID).Info("[auth.CreateGuest] guest session started")
	return s.generateTokens(ctx, user)
}

// Refresh trades a refresh token for a new token pair. The access token
// only identifies the user, so its expiry is ignored, but its signature
// must verify. The stored session is rotated.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	claims, err := s.parseToken(input.Token, false)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	session, err := s.sessionRepo.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(session.RefreshTokenHash), []byte(input.RefreshToken)); err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if user.GuestExpired(s.now()) {
		return nil, ErrGuestExpired
	}

	return s.generateTokens(ctx, user)
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newUserView(user), nil
}

// Logout revokes the user's refresh session. Issued access tokens stay
// valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

// duplicateUserError names the unique column a concurrent registration
// collided on. Email and user name both have unique indexes.
func (s *AuthService) duplicateUserError(ctx context.Context, userName string) error {
	if _, err := s.userRepo.GetByUserName(ctx, userName); err == nil {
		return ErrUserNameExists
	}
	return ErrEmailExists
}

// EnsureAdmin makes sure an account with email exists and holds the Admin
// role. password is only used when the account has to be created, and must
// meet the registration minimum.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		if len(password) < MinPasswordLength {
			return fmt.Errorf("create admin account: %w", ErrPasswordTooShort)
		}
		result, regErr := s.Register(ctx, RegisterInput{
			Email:    email,
			UserName: s.freeUserName(ctx, adminUserName(email)),
			Password: password,
		})
		if regErr != nil {
			return fmt.Errorf("create admin account: %w", regErr)
		}
		user = &domain.User{ID: result.UserID}
	} else if err != nil {
		return err
	}

	if user.HasRole(domain.AdminRole) {
		return nil
	}
	if err := s.userRepo.AddRole(ctx, user.ID, domain.AdminRole); err != nil {
		return fmt.Errorf("grant admin role: %w", err)
	}
	log.WithField("userID", user.ID).Info("[auth.EnsureAdmin] admin role granted")
	return nil
}

// GrantRole gives the account with email the named role.
func (s *AuthService) GrantRole(ctx context.Context, email, role string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.userRepo.AddRole(ctx, user.ID, role)
}

// adminUserName derives a user name from the local part of an email.
func adminUserName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	if len(name) < 3 {
		name = "admin"
	}
	if len(name) > 40 {
		name = name[:40]
	}
	return name
}

func (s *AuthService) freeUserName(ctx context.Context, base string) string {
	name := base
	for i := 1; i < 100; i++ {
		if _, err := s.userRepo.GetByUserName(ctx, name); errors.Is(err, domain.ErrUserNotFound) {
			return name
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *AuthService) generateTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	// Reload so roles and the preferred role are present.
	user, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	accessExpiresAt := now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	sessionExpiresAt := now.Add(time.Duration(s.cfg.RefreshTokenDays) * 24 * time.Hour)
	if user.IsGuest && user.GuestExpiresAt != nil {
		if user.GuestExpiresAt.Before(accessExpiresAt) {
			accessExpiresAt = *user.GuestExpiresAt
		}
		if user.GuestExpiresAt.Before(sessionExpiresAt) {
			sessionExpiresAt = *user.GuestExpiresAt
		}
	}

	accessToken, err := s.generateAccessToken(user, now, accessExpiresAt)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.New().String()
	hashedRefresh, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// One live session per user.
	if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return nil, err
	}

	session := &domain.UserSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		RefreshTokenHash: string(hashedRefresh),
		ExpiresAt:        sessionExpiresAt,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiresAt,
		UserID:       user.ID,
		Email:        user.Email,
		UserName:     user.UserName,
		DisplayName:  user.DisplayName,
		IsGuest:      user.IsGuest,
		Roles:        user.RoleNames(),
	}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User, issuedAt, expiresAt time.Time) (string, error) {
	displayName := user.UserName
	if user.DisplayName != nil {
		displayName = *user.DisplayName
	}

	claims := jwt.MapClaims{
		"sub":         user.ID.String(),
		"name":        user.UserName,
		"email":       user.Email,
		"displayName": displayName,
		"isGuest":     user.IsGuest,
		"roles":       user.RoleNames(),
		"iss":         s.cfg.JWTIssuer,
		"aud":         s.cfg.JWTAudience,
		"exp":         expiresAt.Unix(),
		"iat":         issuedAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken verifies signature, issuer, audience and expiry.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	return s.parseToken(tokenString, true)
}

func (s *AuthService) parseToken(tokenString string, validateClaims bool) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if validateClaims {
		opts = append(opts,
			jwt.WithIssuer(s.cfg.JWTIssuer),
			jwt.WithAudience(s.cfg.JWTAudience),
			jwt.WithExpirationRequired(),
		)
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claimsFromMap(mapClaims)
}

func claimsFromMap(m jwt.MapClaims) (*Claims, error) {
	sub, err := m.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: userID}
	claims.Email, _ = m["email"].(string)
	claims.UserName, _ = m["name"].(string)
	claims.DisplayName, _ = m["displayName"].(string)
	claims.IsGuest, _ = m["isGuest"].(bool)
	if roles, ok := m["roles"].([]interface{}); ok {
		for _, r := range roles {
			if name, ok := r.(string); ok {
				claims.Roles = append(claims.Roles, name)
			}
		}
	}
	return claims, nil
}
