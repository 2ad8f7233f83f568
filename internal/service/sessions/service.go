package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ParkingService/internal/service/sessions/models"
)

// Service сервис чтения сессий стоянки
type Service struct {
	sessionRepo SessionRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(sessionRepo SessionRepository, logger Logger) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// GetActiveByPlate возвращает текущую сессию машины на стоянке
func (s *Service) GetActiveByPlate(ctx context.Context, licensePlate string) (*models.SessionResponse, error) {
	plate := domain.NormalizeLicensePlate(licensePlate)
	if plate == "" {
		return nil, fmt.Errorf("%w: licensePlate is required", ErrInvalidInput)
	}

	session, err := s.sessionRepo.GetActiveByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("GetActiveByPlate: no active session for plate=%s", plate)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("GetActiveByPlate: repository error for plate=%s: %v", plate, err)
		return nil, fmt.Errorf("%w: GetActiveByPlate - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSession(session), nil
}

// List возвращает историю сессий, новые первыми
func (s *Service) List(ctx context.Context, req *models.ListSessionsRequest) (*models.SessionListResponse, error) {
	filter := domain.SessionsFilter{Limit: req.Limit}

	if req.LicensePlate != nil {
		plate := domain.NormalizeLicensePlate(*req.LicensePlate)
		if plate != "" {
			filter.LicensePlate = &plate
		}
	}

	if req.Status != nil {
		status, err := domain.ParseSessionStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &status
	}

	switch {
	case filter.Limit < 0:
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	case filter.Limit == 0:
		filter.Limit = domain.DefaultSessionsLimit
	case filter.Limit > domain.MaxSessionsLimit:
		filter.Limit = domain.MaxSessionsLimit
	}

	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d sessions", len(sessions))
	return models.FromDomainSessionList(sessions), nil
}
