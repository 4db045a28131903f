package service

import (
	"context"
	"log"
	"time"

	"task-manager/internal/model"
	"task-manager/internal/repository"
)

// MaintenanceService drops rows that can no longer affect any request.
type MaintenanceService struct {
	tokens   *repository.TokenRepository
	throttle *repository.ThrottleRepository
	now      func() time.Time
}

func NewMaintenanceService(tokens *repository.TokenRepository, throttle *repository.ThrottleRepository) *MaintenanceService {
	return &MaintenanceService{tokens: tokens, throttle: throttle, now: time.Now}
}

// PurgeExpiredTokens removes refresh-token records past their expiry.
func (s *MaintenanceService) PurgeExpiredTokens(ctx context.Context) error {
	purged, err := s.tokens.PurgeExpired(ctx, s.now())
	if err != nil {
		return err
	}
	if purged > 0 {
		log.Printf("[info] purged %d expired refresh tokens", purged)
	}
	return nil
}

// PurgeThrottleCounters removes counters of past UTC days.
func (s *MaintenanceService) PurgeThrottleCounters(ctx context.Context) error {
	purged, err := s.throttle.PurgeBefore(ctx, model.DateOf(s.now().UTC()))
	if err != nil {
		return err
	}
	if purged > 0 {
		log.Printf("[info] purged %d stale throttle counters", purged)
	}
	return nil
}
