package record_entry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
	sessionRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-ParkingService/internal/usecase/record_entry")

// UseCase use case регистрации въезда автомобиля
type UseCase struct {
	lotRepo      LotRepository
	sessionRepo  SessionRepository
	txManager    TransactionManager
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	lotRepo LotRepository,
	sessionRepo SessionRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		lotRepo:      lotRepo,
		sessionRepo:  sessionRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute регистрирует въезд.
// Проверка мест, резервирование и создание сессии выполняются в одной
// сериализуемой транзакции: при любой ошибке счётчик не меняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "RecordEntry")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req = normalizeRequest(req)
	span.SetAttributes(
		attribute.String("parking.license_plate", req.LicensePlate),
		attribute.String("parking.spot", req.ParkingSpot),
	)

	uc.logger.Info("RecordEntry: plate=%s, spot=%s", req.LicensePlate, req.ParkingSpot)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RecordEntry: validation failed: %v", err)
		uc.metrics.RecordEntry(metrics.ResultInvalidInput)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		created *domain.Session
		lot     *domain.ParkingLot
	)

	// 2. Проверка, резервирование места и создание сессии в одной транзакции
	// Уровень изоляции по умолчанию: счётчик меняется условным UPDATE, повторный въезд отсекает уникальный индекс
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем стоянку
		current, err := uc.lotRepo.Get(txCtx)
		if err != nil {
			if errors.Is(err, lotRepo.ErrLotNotFound) {
				uc.logger.Warn("RecordEntry: parking lot is not configured")
				return ErrConfigurationNotFound
			}
			uc.logger.Error("RecordEntry: failed to get parking lot: %v", err)
			return fmt.Errorf("%w: failed to get parking lot: %v", ErrInternal, err)
		}

		if current.IsFull() {
			uc.logger.Warn("RecordEntry: lot full, 0/%d spots available", current.TotalCapacity)
			return ErrLotFull
		}

		// 2.2. Номер не должен уже стоять на стоянке
		active, err := uc.sessionRepo.GetActiveByPlate(txCtx, req.LicensePlate)
		if err != nil && !errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Error("RecordEntry: failed to check active session for plate=%s: %v", req.LicensePlate, err)
			return fmt.Errorf("%w: failed to check active session: %v", ErrInternal, err)
		}
		if active != nil {
			uc.logger.Warn("RecordEntry: plate=%s already parked at spot=%s (session id=%d)",
				req.LicensePlate, active.ParkingSpot, active.ID)
			return ErrAlreadyParked
		}

		// 2.3. Условное уменьшение счётчика
		lot, err = uc.lotRepo.ReserveSpot(txCtx, now)
		if err != nil {
			if errors.Is(err, lotRepo.ErrNoSpotsAvailable) {
				uc.logger.Warn("RecordEntry: lot full on reserve")
				return ErrLotFull
			}
			uc.logger.Error("RecordEntry: failed to reserve spot: %v", err)
			return fmt.Errorf("%w: failed to reserve spot: %v", ErrInternal, err)
		}
		if err := lot.Validate(); err != nil {
			uc.logger.Error("RecordEntry: spot counter out of range after reserve: %v", err)
			return fmt.Errorf("%w: %w", ErrInternal, err)
		}

		// 2.4. Создаём сессию
		created, err = uc.sessionRepo.Create(txCtx, &domain.Session{
			LicensePlate: req.LicensePlate,
			ParkingSpot:  req.ParkingSpot,
			EntryTime:    now,
			Status:       domain.StatusParked,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			if errors.Is(err, sessionRepo.ErrActiveSessionExists) {
				uc.logger.Warn("RecordEntry: plate=%s already parked (unique index)", req.LicensePlate)
				return ErrAlreadyParked
			}
			uc.logger.Error("RecordEntry: failed to create session: %v", err)
			return fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		uc.metrics.RecordEntry(entryResult(err))
		if isKnownError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.metrics.RecordEntry(metrics.ResultSuccess)
	uc.metrics.SetAvailableSpots(lot.AvailableSpots)

	uc.logger.Info("RecordEntry: session id=%d created, plate=%s, spot=%s, available=%d/%d",
		created.ID, created.LicensePlate, created.ParkingSpot, lot.AvailableSpots, lot.TotalCapacity)

	return &Response{
		ID:             created.ID,
		LicensePlate:   created.LicensePlate,
		ParkingSpot:    created.ParkingSpot,
		EntryTime:      created.EntryTime,
		Status:         string(created.Status),
		AvailableSpots: lot.AvailableSpots,
		TotalCapacity:  lot.TotalCapacity,
	}, nil
}

func isKnownError(err error) bool {
	return errors.Is(err, ErrLotFull) ||
		errors.Is(err, ErrAlreadyParked) ||
		errors.Is(err, ErrConfigurationNotFound) ||
		errors.Is(err, ErrInternal)
}

func entryResult(err error) string {
	switch {
	case errors.Is(err, ErrLotFull):
		return metrics.ResultLotFull
	case errors.Is(err, ErrAlreadyParked):
		return metrics.ResultAlreadyParked
	case errors.Is(err, ErrConfigurationNotFound):
		return metrics.ResultNotConfigured
	default:
		return metrics.ResultError
	}
}
