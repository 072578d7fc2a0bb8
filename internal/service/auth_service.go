package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"repairorder/internal/auth"
	"repairorder/internal/entity"
	"repairorder/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	msgCredentialsRequired = "Username and password are required"
	msgInvalidCredentials  = "Invalid username or password"
	msgUsernameTaken       = "Username already exists"
	msgUserNotFound        = "User not found"
)

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	repo   model.Repository
	tokens *auth.Manager
}

func NewAuthService(repo model.Repository, tokens *auth.Manager) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      entity.UserSummary
}

// Register creates an account and returns its id. Role defaults to "user".
func (s *AuthService) Register(ctx context.Context, req entity.AuthRegisterRequest) (uint, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return 0, validationError(msgCredentialsRequired)
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = entity.UserRoleUser
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return 0, conflictError(msgUsernameTaken)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, storeError("Error registering user", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return 0, storeError("Error registering user", err)
	}

	user := &entity.DbUser{Username: username, PasswordHash: hash, Role: role}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, conflictError(msgUsernameTaken)
		}
		return 0, storeError("Error registering user", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return user.ID, nil
}

// Login verifies credentials. Unknown users and wrong passwords produce the
// same error.
func (s *AuthService) Login(ctx context.Context, req entity.AuthLoginRequest) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, validationError(msgCredentialsRequired)
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authError(msgInvalidCredentials)
		}
		return nil, storeError("Error during login", err)
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, authError(msgInvalidCredentials)
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, storeError("Error during login", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      summarise(user, nil),
	}, nil
}

// CurrentUser loads the caller's profile with its resolved permissions.
func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*entity.UserSummary, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(msgUserNotFound)
		}
		return nil, storeError("Error fetching user", err)
	}

	perms, err := s.Permissions(ctx, user.Role)
	if err != nil && !IsKind(err, KindPermission) {
		return nil, err
	}
	summary := summarise(user, perms)
	return &summary, nil
}

// Permissions resolves the capability set of role. Admin holds everything
// without a roles row; an unknown role is a permission error.
func (s *AuthService) Permissions(ctx context.Context, role string) (auth.PermissionSet, error) {
	if role == entity.UserRoleAdmin {
		return auth.AdminPermissions(), nil
	}
	row, err := s.repo.GetRole(ctx, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.PermissionSet{}, permissionError("Role not found")
		}
		return nil, storeError("Error checking permissions", err)
	}
	return auth.PermissionsFromRole(row), nil
}

func summarise(user *entity.DbUser, perms auth.PermissionSet) entity.UserSummary {
	summary := entity.UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if perms != nil {
		summary.Permissions = perms.Names()
	}
	return summary
}
