// Package sqlstore реализация repository.Storage на параметризованном SQL (sqlx)
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/repository"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const (
	rowTimeout  = 3 * time.Second
	listTimeout = 5 * time.Second
)

type Store struct {
	db      *sqlx.DB
	dialect string
}

var _ repository.Storage = (*Store)(nil)

// driverName имя драйвера database/sql для диалекта
func driverName(dialect string) (string, error) {
	switch dialect {
	case config.DialectMySQL:
		return "mysql", nil
	case config.DialectPostgres:
		return "pgx", nil
	case config.DialectSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func New(dialect, dsn string) (*Store, error) {
	name, err := driverName(dialect)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Connect(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db, dialect: dialect}, nil
}

// SetPool перекрывает настройки пула из конфига
func (s *Store) SetPool(maxOpen, maxIdle int) {
	if maxOpen > 0 {
		s.db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		s.db.SetMaxIdleConns(maxIdle)
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Driver() string {
	return config.DriverSQL
}

// insert выполняет INSERT и возвращает id новой строки
func (s *Store) insert(ctx context.Context, query string, args ...interface{}) (uint, error) {
	query = s.db.Rebind(query)
	if s.dialect == config.DialectPostgres {
		var id uint
		if err := s.db.QueryRowxContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, translate(err)
		}
		return id, nil
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// exec выполняет UPDATE; ноль затронутых строк это ErrNotFound
func (s *Store) exec(ctx context.Context, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return translate(s.db.GetContext(ctx, dest, s.db.Rebind(query), args...))
}

func (s *Store) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return translate(s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...))
}

// translate приводит ошибки драйверов к ошибкам хранилища
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return repository.ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) &&
		(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return repository.ErrDuplicate
	}
	return err
}
