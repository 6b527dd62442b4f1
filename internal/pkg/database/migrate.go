package database

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Migrate executa um comando do goose (up, down, status, version...) sobre os arquivos de dir.
func Migrate(db *sql.DB, dir, command string, args ...string) error {
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: dialeto inválido: %w", err)
	}

	if err := goose.Run(command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
