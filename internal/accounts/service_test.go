package accounts

import (
	"context"
	"sync"
	"testing"

	"github.com/aziznur-dev/bozorplace-backend/pkg/auth"
	"github.com/aziznur-dev/bozorplace-backend/pkg/auth/session"
	"github.com/aziznur-dev/bozorplace-backend/pkg/config"
	"github.com/aziznur-dev/bozorplace-backend/pkg/db/models"
	"github.com/aziznur-dev/bozorplace-backend/pkg/enums"
	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "bozorplace-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

// light parameters keep the hashing fast under test
var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     8,
	ArgonKeyLen:      16,
}

type fakeSessions struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}}
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := "refresh_" + uuid.NewString()
	f.tokens[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.tokens, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh_" + uuid.NewString()
	f.tokens[newID] = token
	return newID, token, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, accessID)
	return nil
}

func (f *fakeSessions) has(accessID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[accessID]
	return ok
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:accounts_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), sessions, testJWTConfig, testPasswordConfig)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	conn := newTestDB(t)
	sessions := newFakeSessions()
	svc := newTestService(t, conn, sessions)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Username: "aziz",
		Password: "correct horse battery",
		DeviceID: "device-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "aziz", result.User.Username)
	assert.Equal(t, enums.UserTypeUser, result.User.UserType)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	claims, err := auth.ParseAccessToken(testJWTConfig, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "device-1", claims.DeviceID)
	assert.True(t, sessions.has(claims.ID))

	// Hash is stored, never the password.
	var stored models.User
	require.NoError(t, conn.First(&stored, "id = ?", result.User.ID).Error)
	assert.NotEqual(t, "correct horse battery", stored.PasswordHash)
	assert.Contains(t, stored.PasswordHash, "$argon2id$")
	require.NotNil(t, stored.FirstRegisteredDevice)
	assert.Equal(t, "device-1", *stored.FirstRegisteredDevice)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, newFakeSessions())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "aziz", Password: "password123", DeviceID: "d1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "aziz", Password: "password456", DeviceID: "d2"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestRegisterRejectsAdminType(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, newFakeSessions())

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "aziz",
		Password: "password123",
		UserType: "admin",
		DeviceID: "d1",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLoginVerifiesPasswordAndDevice(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, newFakeSessions())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "aziz", Password: "password123", DeviceID: "device-1"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginInput{Username: "aziz", Password: "password123", DeviceID: "device-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)

	_, err = svc.Login(ctx, LoginInput{Username: "aziz", Password: "wrong", DeviceID: "device-1"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "password123", DeviceID: "device-1"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	_, err = svc.Login(ctx, LoginInput{Username: "aziz", Password: "password123", DeviceID: "device-2"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestLoginRecordsFirstDevice(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, newFakeSessions())
	ctx := context.Background()

	// Seed a user without a bound device (migrated account).
	result, err := svc.Register(ctx, RegisterInput{Username: "aziz", Password: "password123", DeviceID: "ignored"})
	require.NoError(t, err)
	require.NoError(t, conn.Model(&models.User{}).
		Where("id = ?", result.User.ID).
		UpdateColumn("first_registered_device", nil).Error)

	_, err = svc.Login(ctx, LoginInput{Username: "aziz", Password: "password123", DeviceID: "device-9"})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, conn.First(&stored, "id = ?", result.User.ID).Error)
	require.NotNil(t, stored.FirstRegisteredDevice)
	assert.Equal(t, "device-9", *stored.FirstRegisteredDevice)

	// The recorded device now binds future logins.
	_, err = svc.Login(ctx, LoginInput{Username: "aziz", Password: "password123", DeviceID: "device-10"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	conn := newTestDB(t)
	sessions := newFakeSessions()
	svc := newTestService(t, conn, sessions)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "aziz", Password: "password123", DeviceID: "device-1"})
	require.NoError(t, err)

	oldClaims, err := auth.ParseAccessToken(testJWTConfig, registered.AccessToken)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshInput{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	newClaims, err := auth.ParseAccessToken(testJWTConfig, refreshed.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, oldClaims.ID, newClaims.ID)
	assert.Equal(t, oldClaims.UserID, newClaims.UserID)
	assert.Equal(t, "device-1", newClaims.DeviceID)

	// Old session is gone; replaying the old pair fails.
	assert.False(t, sessions.has(oldClaims.ID))
	_, err = svc.Refresh(ctx, RefreshInput{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRefreshRejectsWrongToken(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, newFakeSessions())
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "aziz", Password: "password123", DeviceID: "device-1"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, RefreshInput{
		AccessToken:  registered.AccessToken,
		RefreshToken: "not-the-token",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	_, err = svc.Refresh(ctx, RefreshInput{
		AccessToken:  "garbage",
		RefreshToken: registered.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	conn := newTestDB(t)
	sessions := newFakeSessions()
	svc := newTestService(t, conn, sessions)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "aziz", Password: "password123", DeviceID: "device-1"})
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(testJWTConfig, registered.AccessToken)
	require.NoError(t, err)
	require.True(t, sessions.has(claims.ID))

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.False(t, sessions.has(claims.ID))
}

func TestGetProfile(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, newFakeSessions())
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "aziz", Password: "password123", DeviceID: "d1"})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "aziz", profile.Username)

	_, err = svc.GetProfile(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
