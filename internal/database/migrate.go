package database

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all up migrations found at path.
func RunMigrations(dbPath, migrationsPath string) error {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		sqliteDSN(dbPath),
	)
	if err != nil {
		return err
	}
	defer m.Close()
	return runUp(m)
}

// RunEmbeddedMigrations applies the migrations compiled into the binary, so
// startup does not depend on the process working directory.
func RunEmbeddedMigrations(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, sqliteDSN(dbPath))
	if err != nil {
		return err
	}
	defer m.Close()
	return runUp(m)
}

func runUp(m *migrate.Migrate) error {
	err := m.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}

func sqliteDSN(dbPath string) string {
	return fmt.Sprintf("sqlite3://file:%s?_foreign_keys=on", dbPath)
}
