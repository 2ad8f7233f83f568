package psqlbuilder

import (
	"github.com/Masterminds/squirrel"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Builder squirrel builder с плейсхолдерами нужного диалекта
type Builder = squirrel.StatementBuilderType

var postgres = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ForDriver возвращает builder для драйвера: $1.. для postgres, ? для sqlite
func ForDriver(driver string) Builder {
	if driver == DriverSQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return postgres
}
