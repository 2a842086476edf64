package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aidosk/shopapi/internal/hash"
	"github.com/aidosk/shopapi/internal/logging"
	"github.com/aidosk/shopapi/internal/models"
	"github.com/aidosk/shopapi/internal/tokens"
	"github.com/aidosk/shopapi/internal/transport"
)

type UserService struct {
	DB        *gorm.DB
	Signer    *tokens.Signer
	AccessTTL time.Duration
}

func (s *UserService) CreateAccount(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.create_account")

	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("create_account_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	now := time.Now()
	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     pwHash,
		IsActive:     false,
		IsVerified:   false,
		RegisteredAt: &now,
	}
	// The unique index on email is the single source of truth, a pre-flight
	// SELECT would still race with concurrent inserts.
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		l.Error("create_account_error", "error", err)
		return nil, err
	}

	l.Info("account_created", "user_id", user.ID)
	return &user, nil
}

// Login authenticates by email and returns a fresh access/refresh pair.
func (s *UserService) Login(ctx context.Context, username, password string) (*transport.TokenResponse, error) {
	l := logging.FromContext(ctx).With("svc", "user.login")

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error("login_error", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(&user, "")
	if err != nil {
		l.Error("login_error", "error", err)
		return nil, err
	}
	l.Info("login_successful", "user_id", user.ID)
	return pair, nil
}

// Refresh trades a refresh token for a new access token. The refresh token
// itself is echoed back unchanged, there is no rotation.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*transport.TokenResponse, error) {
	l := logging.FromContext(ctx).With("svc", "user.refresh")

	claims, err := s.Signer.Verify(refreshToken)
	if err != nil {
		l.Warn("refresh_rejected", "error", err)
		return nil, ErrInvalidRefreshToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidRefreshToken
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_error", "error", err)
		return nil, err
	}

	return s.issueTokens(&user, refreshToken)
}

func (s *UserService) issueTokens(user *models.User, refreshToken string) (*transport.TokenResponse, error) {
	claims := tokens.UserClaims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}

	access, err := s.Signer.IssueAccess(claims, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	if refreshToken == "" {
		refreshToken, err = s.Signer.IssueRefresh(claims)
		if err != nil {
			return nil, err
		}
	}

	return &transport.TokenResponse{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.AccessTTL.Seconds()),
	}, nil
}
