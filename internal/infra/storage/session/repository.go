package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/sqlerr"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const tableName = "vehicle_sessions"

var sessionColumns = []string{
	"id",
	"license_plate",
	"parking_spot",
	"entry_time",
	"exit_time",
	"billed_hours",
	"rate_per_hour",
	"fee",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий сессий стоянки
type Repository struct {
	db DBExecutor
	sb psqlbuilder.Builder
}

// NewRepository создает репозиторий для драйвера driver (postgres | sqlite)
func NewRepository(db DBExecutor, driver string) *Repository {
	return &Repository{db: db, sb: psqlbuilder.ForDriver(driver)}
}

// Create сохраняет новую сессию со статусом parked.
// Частичный уникальный индекс по license_plate WHERE status = 'parked'
// не даёт создать вторую активную сессию для того же номера.
func (r *Repository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	entry := s.EntryTime.UTC()
	created := s.CreatedAt.UTC()
	if s.CreatedAt.IsZero() {
		created = entry
	}

	query, args, err := r.sb.Insert(tableName).
		Columns(
			"license_plate",
			"parking_spot",
			"entry_time",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			s.LicensePlate,
			s.ParkingSpot,
			entry,
			string(s.Status),
			created,
			created,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var id int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, ErrActiveSessionExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	result := *s
	result.ID = id
	result.EntryTime = entry
	result.CreatedAt = created
	result.UpdatedAt = created

	return &result, nil
}

// GetActiveByPlate возвращает активную (parked) сессию номера
func (r *Repository) GetActiveByPlate(ctx context.Context, licensePlate string) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(sessionColumns...).
		From(tableName).
		Where(squirrel.Eq{
			"license_plate": licensePlate,
			"status":        string(domain.StatusParked),
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPlate - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: GetActiveByPlate - scan: %v", ErrScanRow, err)
	}

	return s, nil
}

// Close переводит сессию в exited и сохраняет результат расчёта.
// Обновляет только сессию в статусе parked; иначе ErrSessionNotFound.
func (r *Repository) Close(ctx context.Context, s *domain.Session) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update(tableName).
		Set("exit_time", s.ExitTime.Time.UTC()).
		Set("billed_hours", s.BilledHours.Int64).
		Set("rate_per_hour", s.RatePerHour.Float64).
		Set("fee", s.Fee.Float64).
		Set("status", string(domain.StatusExited)).
		Set("updated_at", s.UpdatedAt.UTC()).
		Where(squirrel.Eq{
			"id":     s.ID,
			"status": string(domain.StatusParked),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Close - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Close - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Close - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// List возвращает историю сессий, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.sb.Select(sessionColumns...).
		From(tableName).
		OrderBy("entry_time DESC", "id DESC")

	if filter.LicensePlate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"license_plate": *filter.LicensePlate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan: %v", ErrScanRow, err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return sessions, nil
}

// CountActive возвращает число припаркованных машин
func (r *Repository) CountActive(ctx context.Context) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"status": string(domain.StatusParked)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActive - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActive - execute select: %v", ErrExecQuery, err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s      domain.Session
		status string
	)

	if err := row.Scan(
		&s.ID,
		&s.LicensePlate,
		&s.ParkingSpot,
		&s.EntryTime,
		&s.ExitTime,
		&s.BilledHours,
		&s.RatePerHour,
		&s.Fee,
		&status,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.Status = domain.SessionStatus(status)
	s.EntryTime = s.EntryTime.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	if s.ExitTime.Valid {
		s.ExitTime.Time = s.ExitTime.Time.UTC()
	}

	return &s, nil
}
