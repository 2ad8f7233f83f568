package record_exit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/guregu/null.v4"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
	sessionRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-ParkingService/internal/usecase/record_exit")

// UseCase use case регистрации выезда и расчёта оплаты
type UseCase struct {
	lotRepo      LotRepository
	sessionRepo  SessionRepository
	txManager    TransactionManager
	metrics      MetricsRecorder
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	lotRepo LotRepository,
	sessionRepo SessionRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.OverflowPolicy == "" {
		settings.OverflowPolicy = domain.OverflowPolicyReject
	}
	return &UseCase{
		lotRepo:      lotRepo,
		sessionRepo:  sessionRepo,
		txManager:    txManager,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute закрывает активную сессию номера, считает оплату и освобождает место.
// Закрытие сессии и увеличение счётчика фиксируются одной транзакцией.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (result *PaymentResult, err error) {
	ctx, span := tracer.Start(ctx, "RecordExit")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req = &Request{
		LicensePlate: domain.NormalizeLicensePlate(req.LicensePlate),
		RatePerHour:  req.RatePerHour,
	}
	span.SetAttributes(attribute.String("parking.license_plate", req.LicensePlate))

	uc.logger.Info("RecordExit: plate=%s", req.LicensePlate)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RecordExit: validation failed: %v", err)
		uc.metrics.RecordExit(metrics.ResultInvalidInput, 0)
		return nil, err
	}

	rate := uc.settings.DefaultRatePerHour
	if req.RatePerHour != nil {
		rate = *req.RatePerHour
	}

	now := uc.timeProvider.Now()

	var (
		session *domain.Session
		charge  domain.Charge
		lot     *domain.ParkingLot
	)

	// 2. Закрываем сессию и освобождаем место в одной транзакции
	// Уровень изоляции по умолчанию: счётчик меняется условным UPDATE, сессия закрывается по status = parked
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Ищем активную сессию
		active, err := uc.sessionRepo.GetActiveByPlate(txCtx, req.LicensePlate)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("RecordExit: no active session for plate=%s", req.LicensePlate)
				return ErrSessionNotFound
			}
			uc.logger.Error("RecordExit: failed to get active session for plate=%s: %v", req.LicensePlate, err)
			return fmt.Errorf("%w: failed to get active session: %v", ErrInternal, err)
		}

		// 2.2. Считаем оплату
		charge = domain.CalculateFee(active.EntryTime, now, rate)

		active.ExitTime = null.TimeFrom(now)
		active.BilledHours = null.IntFrom(int64(charge.BilledHours))
		active.RatePerHour = null.FloatFrom(charge.RatePerHour)
		active.Fee = null.FloatFrom(charge.Fee)
		active.UpdatedAt = now

		// 2.3. Закрываем сессию
		if err := uc.sessionRepo.Close(txCtx, active); err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("RecordExit: session id=%d was closed concurrently", active.ID)
				return ErrSessionNotFound
			}
			uc.logger.Error("RecordExit: failed to close session id=%d: %v", active.ID, err)
			return fmt.Errorf("%w: failed to close session: %v", ErrInternal, err)
		}
		active.Status = domain.StatusExited

		// 2.4. Освобождаем место
		lot, err = uc.releaseSpot(txCtx, now)
		if err != nil {
			return err
		}

		session = active
		return nil
	})

	if err != nil {
		uc.metrics.RecordExit(exitResult(err), 0)
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrCapacityInvariant) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.metrics.RecordExit(metrics.ResultSuccess, charge.Fee)
	uc.metrics.SetAvailableSpots(lot.AvailableSpots)

	uc.logger.Info("RecordExit: session id=%d closed, plate=%s, hours=%d, rate=%.2f, fee=%.2f, available=%d/%d",
		session.ID, session.LicensePlate, charge.BilledHours, charge.RatePerHour, charge.Fee,
		lot.AvailableSpots, lot.TotalCapacity)

	return &PaymentResult{
		SessionID:      session.ID,
		LicensePlate:   session.LicensePlate,
		ParkingSpot:    session.ParkingSpot,
		EntryTime:      session.EntryTime,
		ExitTime:       now,
		Duration:       charge.Duration,
		DurationHours:  charge.BilledHours,
		RatePerHour:    charge.RatePerHour,
		Fee:            charge.Fee,
		Status:         string(session.Status),
		AvailableSpots: lot.AvailableSpots,
	}, nil
}

// releaseSpot увеличивает счётчик с учётом политики переполнения
func (uc *UseCase) releaseSpot(ctx context.Context, now time.Time) (*domain.ParkingLot, error) {
	lot, err := uc.lotRepo.ReleaseSpot(ctx, now)
	if err == nil {
		return uc.checkLot(lot)
	}

	if !errors.Is(err, lotRepo.ErrCapacityExceeded) {
		uc.logger.Error("RecordExit: failed to release spot: %v", err)
		return nil, fmt.Errorf("%w: failed to release spot: %v", ErrInternal, err)
	}

	if uc.settings.OverflowPolicy != domain.OverflowPolicyClamp {
		uc.logger.Error("RecordExit: available spots already at total capacity, rejecting exit")
		return nil, ErrCapacityInvariant
	}

	uc.logger.Warn("RecordExit: available spots already at total capacity, clamping counter")
	lot, err = uc.lotRepo.ReleaseSpotClamped(ctx, now)
	if err != nil {
		uc.logger.Error("RecordExit: failed to clamp spot counter: %v", err)
		return nil, fmt.Errorf("%w: failed to clamp spot counter: %v", ErrInternal, err)
	}

	return uc.checkLot(lot)
}

func (uc *UseCase) checkLot(lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	if err := lot.Validate(); err != nil {
		uc.logger.Error("RecordExit: spot counter out of range after release: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return lot, nil
}

func exitResult(err error) string {
	if errors.Is(err, ErrSessionNotFound) {
		return metrics.ResultNotFound
	}
	return metrics.ResultError
}
