package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"repairorder/internal/auth"
	"repairorder/internal/config"
	"repairorder/internal/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultRoles are the non-admin roles created on first start. Existing rows
// are never overwritten so operators can tune the flags in the database.
var DefaultRoles = []entity.DbRole{
	{RoleName: entity.UserRoleUser, CanView: true, CanCreate: true},
	{RoleName: entity.UserRoleViewer, CanView: true},
}

// SeedDefaults ensures the default roles exist and creates the bootstrap admin
// account when ADMIN_USERNAME and ADMIN_PASSWORD are both configured.
func SeedDefaults(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	for _, seed := range DefaultRoles {
		role := seed
		created, err := repo.CreateRoleIfMissing(ctx, &role)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", seed.RoleName, err)
		}
		if created {
			logrus.WithField("role", role.RoleName).Info("seeded default role")
		}
	}

	return seedAdmin(ctx, repo, cfg)
}

func seedAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return nil
	}

	_, err := repo.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &entity.DbUser{
		Username:     username,
		PasswordHash: hash,
		Role:         entity.UserRoleAdmin,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	logrus.WithField("username", username).Info("created bootstrap admin account")
	return nil
}
