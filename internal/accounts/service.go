package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aziznur-dev/bozorplace-backend/pkg/auth"
	"github.com/aziznur-dev/bozorplace-backend/pkg/auth/session"
	"github.com/aziznur-dev/bozorplace-backend/pkg/config"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	"github.com/aziznur-dev/bozorplace-backend/pkg/enums"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/aziznur-dev/bozorplace-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes registration, login, and session lifecycle operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResultDTO, error)
	Login(ctx context.Context, input LoginInput) (*AuthResultDTO, error)
	Refresh(ctx context.Context, input RefreshInput) (*AuthResultDTO, error)
	Logout(ctx context.Context, accessID string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

type RegisterInput struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Phone    *string `json:"phone" validate:"omitempty,e164"`
	UserType string  `json:"user_type" validate:"omitempty,oneof=user vendor"`
	DeviceID string  `json:"-"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	DeviceID string `json:"-"`
}

type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// sessionManager is the mutation surface of session.Manager the service needs.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo        *Repository
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService constructs an account service instance.
func NewService(repo *Repository, sessions sessionManager, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("account repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		repo:        repo,
		sessions:    sessions,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		now:         time.Now,
	}, nil
}

// Register creates the account and issues the first access/refresh pair. The
// presented device becomes the account's registered device.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResultDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	deviceID := strings.TrimSpace(input.DeviceID)
	if deviceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device id is required")
	}

	userType := enums.UserTypeUser
	if input.UserType != "" {
		parsed, err := enums.ParseUserType(input.UserType)
		if err != nil || parsed == enums.UserTypeAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user type")
		}
		userType = parsed
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	user := &models.User{
		Username:              username,
		Phone:                 input.Phone,
		PasswordHash:          hash,
		UserType:              userType,
		FirstRegisteredDevice: &deviceID,
	}
	if _, err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
	}

	return s.issueTokens(ctx, user, deviceID)
}

// Login verifies the password and the device binding, then issues a fresh
// access/refresh pair.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResultDTO, error) {
	deviceID := strings.TrimSpace(input.DeviceID)
	if deviceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device id is required")
	}

	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if user.FirstRegisteredDevice == nil {
		if err := s.repo.SetFirstRegisteredDevice(ctx, user.ID, deviceID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record device")
		}
		user.FirstRegisteredDevice = &deviceID
	} else if *user.FirstRegisteredDevice != deviceID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unrecognized device")
	}

	return s.issueTokens(ctx, user, deviceID)
}

// Refresh rotates the session behind an expired (or still valid) access token
// and mints a replacement pair bound to the same user and device.
func (s *service) Refresh(ctx context.Context, input RefreshInput) (*AuthResultDTO, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	access, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID:   user.ID,
		UserType: user.UserType,
		DeviceID: claims.DeviceID,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &AuthResultDTO{
		User:         *newUserDTO(user),
		AccessToken:  access,
		RefreshToken: newRefresh,
	}, nil
}

// Logout revokes the refresh session behind the access identifier.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// GetProfile returns the user's own account record.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return newUserDTO(user), nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User, deviceID string) (*AuthResultDTO, error) {
	accessID := session.NewAccessID()

	access, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID:   user.ID,
		UserType: user.UserType,
		DeviceID: deviceID,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &AuthResultDTO{
		User:         *newUserDTO(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
