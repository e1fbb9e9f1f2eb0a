package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/ds"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Repository реализация Storage поверх gorm
type Repository struct {
	db *gorm.DB
}

type Option func(*gorm.Config)

// WithLogger заменяет логгер gorm
func WithLogger(l logger.Interface) Option {
	return func(c *gorm.Config) { c.Logger = l }
}

func New(dialect, dsn string, opts ...Option) (*Repository, error) {
	var dialector gorm.Dialector
	switch dialect {
	case config.DialectMySQL:
		dialector = mysql.Open(dsn)
	case config.DialectPostgres:
		dialector = postgres.Open(dsn)
	case config.DialectSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(gcfg)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, err
	}

	return &Repository{
		db: db,
	}, nil
}

// SetPool настраивает пул соединений database/sql
func (r *Repository) SetPool(maxOpen, maxIdle int) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

// Migrate создаёт/обновляет таблицы users и chilaquiles
func (r *Repository) Migrate(ctx context.Context) error {
	err := r.db.WithContext(ctx).AutoMigrate(
		&ds.User{},
		&ds.Dish{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) Driver() string {
	return config.DriverORM
}

// translate приводит ошибки gorm к ошибкам хранилища
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// affected превращает «ни одной строки» в ErrNotFound
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
