package db

import (
	"fmt"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Handle struct {
	DB   *gorm.DB
	Path string // tylko dla sqlite (plik)
}

// Open otwiera lokalne lustro arkusza wg konfiguracji. Pusty driver = sqlite
// w pliku pod katalogiem danych aplikacji.
func Open(driver, dsn, dir string) (*Handle, error) {
	var (
		gdb  *gorm.DB
		err  error
		path string
	)
	switch driver {
	case "", "sqlite":
		if dsn == "" {
			dsn = filepath.Join(dir, "amz2sheets.db")
		}
		path = dsn
		gdb, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
			// Logger: logger.Default.LogMode(logger.Info), // włącz jeśli chcesz verbose SQL
		})
	case "postgres":
		gdb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "mysql":
		gdb, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("db: nieznany driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	return &Handle{DB: gdb, Path: path}, nil
}
