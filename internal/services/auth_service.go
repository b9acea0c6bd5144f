package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/besimplit/task-tracker/internal/constants"
	"github.com/besimplit/task-tracker/internal/models"
	"github.com/besimplit/task-tracker/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenIssuer = "task-tracker"

// AuthService handles authentication and user provisioning.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	validate  *validator.Validate
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user with its
// groups. Inactive users are rejected only after the password matched.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// GetUser retrieves a user by ID with its groups.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ProvisionUserInput describes a user created by an operator.
type ProvisionUserInput struct {
	Email       string
	Password    string
	Groups      []string
	IsStaff     bool
	IsSuperuser bool
}

// ProvisionUser creates an active user and adds it to the named groups.
func (s *AuthService) ProvisionUser(ctx context.Context, input ProvisionUserInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, newValidationError("email", RuleEmail, "email must be a valid email")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	groups, err := s.userRepo.FindGroups(ctx, input.Groups...)
	if err != nil {
		return nil, fmt.Errorf("failed to find groups: %w", err)
	}
	if len(groups) != len(uniqueStrings(input.Groups)) {
		return nil, ErrGroupNotFound
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		IsStaff:      input.IsStaff || input.IsSuperuser,
		IsSuperuser:  input.IsSuperuser,
	}
	if err := s.userRepo.Create(ctx, user, groups...); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetUser(ctx, user.ID)
}

// DeactivateUser sets isActive=false. Sessions and tokens of the user stop
// working on their next request.
func (s *AuthService) DeactivateUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetActive(ctx, user.ID, false); err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}
	user.IsActive = false

	return user, nil
}

// DeleteUser hard deletes a user. Tasks keep existing with the assignee or
// creator reference cleared.
func (s *AuthService) DeleteUser(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// TokenClaims are the bearer token claims.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 bearer token for the user.
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	claims := TokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken validates a bearer token and returns the user ID it names.
func (s *AuthService) ParseToken(tokenString string) (uint64, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
