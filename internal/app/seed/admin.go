// Package seed создаёт начальные данные после миграции.
package seed

import (
	"context"
	"errors"
	"strings"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/password"
	"chilaquiles/internal/app/repository"
	"chilaquiles/internal/app/role"

	"github.com/sirupsen/logrus"
)

const defaultAdminUsername = "admin"

// Admin создаёт администратора из ADMIN_USERNAME/ADMIN_PASSWORD.
// Без пароля ничего не делает; существующий пользователь не меняется.
func Admin(ctx context.Context, store repository.Storage, cfg config.AdminConfig) (bool, error) {
	if cfg.Password == "" {
		logrus.Info("ADMIN_PASSWORD is empty, admin seed skipped")
		return false, nil
	}

	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		username = defaultAdminUsername
	}

	exists, err := store.UserExistsByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if exists {
		logrus.Infof("admin %s already exists", username)
		return false, nil
	}

	hash, err := password.Hash(cfg.Password)
	if err != nil {
		return false, err
	}

	fullName := cfg.FullName
	if fullName == "" {
		fullName = username
	}

	err = store.CreateUser(ctx, &ds.User{
		FullName:     fullName,
		Username:     username,
		PasswordHash: hash,
		Role:         role.Admin,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
