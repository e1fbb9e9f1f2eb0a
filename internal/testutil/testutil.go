package testutil

import (
	"context"
	"testing"
	"time"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/repository"
	"chilaquiles/internal/app/repository/sqlstore"
	"chilaquiles/internal/app/role"

	"github.com/golang-jwt/jwt"
	"gorm.io/gorm/logger"
)

func memoryDSN(name string) string {
	return "file:" + name + "?mode=memory&cache=shared"
}

// OpenORM открывает gorm-хранилище поверх SQLite в памяти и мигрирует его
func OpenORM(t *testing.T, name string) *repository.Repository {
	t.Helper()
	repo, err := repository.New(config.DialectSQLite, memoryDSN(name), repository.WithLogger(logger.Discard))
	if err != nil {
		t.Fatalf("open orm storage: %v", err)
	}
	// одно соединение держит общую базу в памяти живой
	if err := repo.SetPool(1, 1); err != nil {
		t.Fatalf("set pool: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate orm storage: %v", err)
	}
	return repo
}

// OpenSQL то же для SQL-хранилища
func OpenSQL(t *testing.T, name string) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.New(config.DialectSQLite, memoryDSN(name))
	if err != nil {
		t.Fatalf("open sql storage: %v", err)
	}
	store.SetPool(1, 1)
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate sql storage: %v", err)
	}
	return store
}

// Storages обе реализации хранилища по имени драйвера
func Storages(t *testing.T, name string) map[string]repository.Storage {
	t.Helper()
	return map[string]repository.Storage{
		config.DriverORM: OpenORM(t, name+"_orm"),
		config.DriverSQL: OpenSQL(t, name+"_sql"),
	}
}

// JWTConfig конфигурация подписи для тестов
func JWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Key:           []byte("test-secret"),
		Issuer:        "chilaquiles-auth",
		Audience:      "chilaquiles-clients",
		ExpiresIn:     time.Hour,
		SigningMethod: jwt.SigningMethodHS256,
	}
}

// GenerateJWT подписанный токен с теми же claims, что выдаёт сервис
func GenerateJWT(t *testing.T, cfg config.JWTConfig, userID uint, r role.Role, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   "test",
			Issuer:    cfg.Issuer,
			Audience:  cfg.Audience,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		UserID: userID,
		Role:   r,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
