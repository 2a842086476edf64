package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aidosk/shopapi/internal/models"
	"github.com/aidosk/shopapi/internal/tokens"
	"github.com/aidosk/shopapi/internal/transport"
)

func newUserService(t *testing.T) *UserService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	signer, err := tokens.NewSigner([]byte("test_secret"), "HS256")
	require.NoError(t, err)

	return &UserService{DB: db, Signer: signer, AccessTTL: time.Hour}
}

func TestCreateAccountDuplicateConstraint(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	// The conflicting row is inserted behind the service's back, so only
	// the unique index can reject the second insert.
	require.NoError(t, svc.DB.Create(&models.User{
		FirstName: "first",
		LastName:  "user",
		Email:     "a@b.com",
		Password:  "hash",
	}).Error)

	_, err := svc.CreateAccount(ctx, transport.CreateUserRequest{
		FirstName: "second",
		LastName:  "user",
		Email:     "a@b.com",
		Password:  "pw",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	var count int64
	require.NoError(t, svc.DB.Model(&models.User{}).Where("email = ?", "a@b.com").Count(&count).Error)
	require.Equal(t, int64(1), count)
}
