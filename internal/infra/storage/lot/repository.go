package lot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/sqlerr"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const tableName = "parking_lot"

var lotColumns = []string{
	"id",
	"total_capacity",
	"available_spots",
	"created_at",
	"updated_at",
}

// Repository репозиторий конфигурации стоянки (одна строка с id = 1).
// Счётчик мест меняется только условными UPDATE на стороне БД,
// поэтому он не выходит за [0, total_capacity] даже при конкурентных вызовах.
type Repository struct {
	db DBExecutor
	sb psqlbuilder.Builder
}

// NewRepository создает репозиторий для драйвера driver (postgres | sqlite)
func NewRepository(db DBExecutor, driver string) *Repository {
	return &Repository{db: db, sb: psqlbuilder.ForDriver(driver)}
}

// Get возвращает текущую конфигурацию стоянки
func (r *Repository) Get(ctx context.Context) (*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(lotColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": domain.SingletonLotID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	lot, err := scanLot(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLotNotFound
		}
		return nil, fmt.Errorf("%w: Get - execute select: %v", ErrExecQuery, err)
	}

	return lot, nil
}

// Create создаёт стоянку с total_capacity свободных мест
func (r *Repository) Create(ctx context.Context, totalCapacity int, now time.Time) (*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now = now.UTC()

	query, args, err := r.sb.Insert(tableName).
		Columns(lotColumns...).
		Values(domain.SingletonLotID, totalCapacity, totalCapacity, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, ErrLotAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return r.Get(ctx)
}

// Update перезаписывает вместимость и счётчик свободных мест
func (r *Repository) Update(ctx context.Context, totalCapacity, availableSpots int, now time.Time) (*domain.ParkingLot, error) {
	query, args, err := r.sb.Update(tableName).
		Set("total_capacity", totalCapacity).
		Set("available_spots", availableSpots).
		Set("updated_at", now.UTC()).
		Where(squirrel.Eq{"id": domain.SingletonLotID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, "Update", query, args, ErrLotNotFound)
}

// ReserveSpot уменьшает счётчик на 1, только если есть свободные места
func (r *Repository) ReserveSpot(ctx context.Context, now time.Time) (*domain.ParkingLot, error) {
	query, args, err := r.sb.Update(tableName).
		Set("available_spots", squirrel.Expr("available_spots - 1")).
		Set("updated_at", now.UTC()).
		Where(squirrel.Eq{"id": domain.SingletonLotID}).
		Where(squirrel.Gt{"available_spots": 0}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReserveSpot - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, "ReserveSpot", query, args, ErrNoSpotsAvailable)
}

// ReleaseSpot увеличивает счётчик на 1, только если он меньше вместимости
func (r *Repository) ReleaseSpot(ctx context.Context, now time.Time) (*domain.ParkingLot, error) {
	query, args, err := r.sb.Update(tableName).
		Set("available_spots", squirrel.Expr("available_spots + 1")).
		Set("updated_at", now.UTC()).
		Where(squirrel.Eq{"id": domain.SingletonLotID}).
		Where("available_spots < total_capacity").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReleaseSpot - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, "ReleaseSpot", query, args, ErrCapacityExceeded)
}

// ReleaseSpotClamped увеличивает счётчик на 1, но не выше total_capacity
func (r *Repository) ReleaseSpotClamped(ctx context.Context, now time.Time) (*domain.ParkingLot, error) {
	query, args, err := r.sb.Update(tableName).
		Set("available_spots", squirrel.Expr(
			"CASE WHEN available_spots + 1 > total_capacity THEN total_capacity ELSE available_spots + 1 END",
		)).
		Set("updated_at", now.UTC()).
		Where(squirrel.Eq{"id": domain.SingletonLotID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReleaseSpotClamped - build update query: %v", ErrBuildQuery, err)
	}

	return r.execGuarded(ctx, "ReleaseSpotClamped", query, args, ErrLotNotFound)
}

// execGuarded выполняет условный UPDATE и возвращает стоянку после изменения.
// Если ни одна строка не изменилась, возвращает errNoRows.
func (r *Repository) execGuarded(ctx context.Context, op, query string, args []interface{}, errNoRows error) (*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return nil, errNoRows
	}

	return r.Get(ctx)
}

func scanLot(row *sql.Row) (*domain.ParkingLot, error) {
	var lot domain.ParkingLot
	if err := row.Scan(
		&lot.ID,
		&lot.TotalCapacity,
		&lot.AvailableSpots,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	); err != nil {
		return nil, err
	}
	lot.CreatedAt = lot.CreatedAt.UTC()
	lot.UpdatedAt = lot.UpdatedAt.UTC()
	return &lot, nil
}
