package dsn

import (
	"fmt"
	"net"
	"strconv"

	"chilaquiles/internal/app/config"

	"github.com/go-sql-driver/mysql"
)

// FromConfig собирает строку подключения для выбранного диалекта.
// Явно заданный DSN имеет приоритет.
func FromConfig(db config.DatabaseConfig) (string, error) {
	if db.DSN != "" {
		return db.DSN, nil
	}

	switch db.Dialect {
	case config.DialectMySQL:
		c := mysql.NewConfig()
		c.User = db.User
		c.Passwd = db.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
		c.DBName = db.Name
		c.ParseTime = true
		// UPDATE без изменений всё равно считается найденной строкой
		c.ClientFoundRows = true
		c.Params = map[string]string{"charset": "utf8mb4"}
		return c.FormatDSN(), nil
	case config.DialectPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			db.Host, db.User, db.Password, db.Name, db.Port), nil
	case config.DialectSQLite:
		if db.Name == "" {
			return "chilaquiles.db", nil
		}
		return db.Name, nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", db.Dialect)
	}
}
