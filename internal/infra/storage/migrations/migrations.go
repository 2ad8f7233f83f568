package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

//go:embed postgres.sql sqlite.sql
var files embed.FS

// ErrUnknownDriver возвращается для неподдерживаемого драйвера
var ErrUnknownDriver = errors.New("migrations: unknown driver")

// Apply создаёт таблицы и индексы, если их ещё нет. Повторный вызов безопасен.
func Apply(ctx context.Context, db dbmetrics.DBExecutor, driver string) error {
	var name string
	switch driver {
	case psqlbuilder.DriverPostgres:
		name = "postgres.sql"
	case psqlbuilder.DriverSQLite:
		name = "sqlite.sql"
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	script, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("migrations: read %s: %w", name, err)
	}

	for _, stmt := range strings.Split(string(script), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrations: apply %s: %w", name, err)
		}
	}

	return nil
}
