package lot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
	"github.com/m04kA/SMC-ParkingService/internal/service/lot/models"
)

// Service сервис конфигурации и заполненности стоянки
type Service struct {
	lotRepo     LotRepository
	sessionRepo SessionRepository
	txManager   TransactionManager
	metrics     MetricsRecorder
	now         func() time.Time
	logger      Logger
}

// NewService создает новый экземпляр сервиса стоянки
func NewService(
	lotRepo LotRepository,
	sessionRepo SessionRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		lotRepo:     lotRepo,
		sessionRepo: sessionRepo,
		txManager:   txManager,
		metrics:     metrics,
		now:         time.Now,
		logger:      logger,
	}
}

// GetAvailability возвращает вместимость и число свободных мест. Только чтение.
func (s *Service) GetAvailability(ctx context.Context) (*models.AvailabilityResponse, error) {
	lot, err := s.lotRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, lotRepo.ErrLotNotFound) {
			s.logger.Warn("GetAvailability: parking lot is not configured")
			return nil, ErrConfigurationNotFound
		}
		s.logger.Error("GetAvailability: failed to get parking lot: %v", err)
		return nil, fmt.Errorf("%w: failed to get parking lot: %v", ErrInternal, err)
	}

	return models.FromDomainAvailability(lot), nil
}

// Configure создаёт стоянку или меняет её вместимость.
// Свободные места пересчитываются как total - число припаркованных машин,
// поэтому вызов заодно выравнивает счётчик с таблицей сессий.
func (s *Service) Configure(ctx context.Context, req *models.ConfigureLotRequest) (*models.LotResponse, error) {
	s.logger.Info("Configure: totalCapacity=%d", req.TotalCapacity)

	if req.TotalCapacity < 0 {
		s.logger.Warn("Configure: negative capacity %d", req.TotalCapacity)
		return nil, fmt.Errorf("%w: totalCapacity must be >= 0", ErrInvalidInput)
	}

	now := s.now()

	var (
		result  *domain.ParkingLot
		created bool
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		active, err := s.sessionRepo.CountActive(txCtx)
		if err != nil {
			s.logger.Error("Configure: failed to count active sessions: %v", err)
			return fmt.Errorf("%w: failed to count active sessions: %v", ErrInternal, err)
		}

		if req.TotalCapacity < active {
			s.logger.Warn("Configure: capacity %d is below occupancy %d", req.TotalCapacity, active)
			return fmt.Errorf("%w: %d vehicles are parked", ErrCapacityBelowOccupancy, active)
		}

		_, err = s.lotRepo.Get(txCtx)
		switch {
		case errors.Is(err, lotRepo.ErrLotNotFound):
			result, err = s.lotRepo.Create(txCtx, req.TotalCapacity, now)
			if err != nil {
				s.logger.Error("Configure: failed to create parking lot: %v", err)
				return fmt.Errorf("%w: failed to create parking lot: %v", ErrInternal, err)
			}
			created = true
			if active == 0 {
				return s.checkLot(result)
			}
		case err != nil:
			s.logger.Error("Configure: failed to get parking lot: %v", err)
			return fmt.Errorf("%w: failed to get parking lot: %v", ErrInternal, err)
		}

		result, err = s.lotRepo.Update(txCtx, req.TotalCapacity, req.TotalCapacity-active, now)
		if err != nil {
			s.logger.Error("Configure: failed to update parking lot: %v", err)
			return fmt.Errorf("%w: failed to update parking lot: %v", ErrInternal, err)
		}

		return s.checkLot(result)
	})

	if err != nil {
		if errors.Is(err, ErrCapacityBelowOccupancy) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	action := "updated"
	if created {
		action = "created"
	}

	s.metrics.SetAvailableSpots(result.AvailableSpots)
	s.logger.Info("Configure: parking lot %s, total=%d, available=%d",
		action, result.TotalCapacity, result.AvailableSpots)

	return models.FromDomainLot(result, created), nil
}

// EnsureConfigured создаёт стоянку с totalCapacity местами, если она ещё не настроена.
// Уже существующая стоянка не меняется.
func (s *Service) EnsureConfigured(ctx context.Context, totalCapacity int) error {
	_, err := s.lotRepo.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, lotRepo.ErrLotNotFound) {
		return fmt.Errorf("%w: failed to get parking lot: %v", ErrInternal, err)
	}

	_, err = s.Configure(ctx, &models.ConfigureLotRequest{TotalCapacity: totalCapacity})
	return err
}

func (s *Service) checkLot(lot *domain.ParkingLot) error {
	if err := lot.Validate(); err != nil {
		s.logger.Error("Configure: spot counter out of range: %v", err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return nil
}
