package service

import (
	"context"
	"strconv"
	"time"

	"task-manager/internal/apperr"
	"task-manager/internal/auth"
	"task-manager/internal/model"
	"task-manager/internal/repository"
)

const (
	ScopeAnonDaily = "anon_daily"
	ScopeUserDaily = "user_daily"
)

// ThrottleLimits are the daily request quotas per caller kind.
type ThrottleLimits struct {
	AnonDaily int
	UserDaily int
}

// ThrottleService enforces daily request quotas. Counters live in the store
// and roll over at UTC midnight.
type ThrottleService struct {
	repo   *repository.ThrottleRepository
	limits ThrottleLimits
	now    func() time.Time
}

func NewThrottleService(repo *repository.ThrottleRepository, limits ThrottleLimits) *ThrottleService {
	return &ThrottleService{repo: repo, limits: limits, now: time.Now}
}

// Allow counts one request. Authenticated callers are keyed by user id,
// anonymous callers by client address. A non-positive limit disables the scope.
func (s *ThrottleService) Allow(ctx context.Context, identity auth.Identity, clientAddr string) error {
	scope, subject, limit := ScopeAnonDaily, clientAddr, s.limits.AnonDaily
	if !identity.IsZero() {
		scope, subject, limit = ScopeUserDaily, strconv.FormatUint(uint64(identity.UserID), 10), s.limits.UserDaily
	}
	if limit <= 0 {
		return nil
	}

	now := s.now().UTC()
	count, err := s.repo.Hit(ctx, scope, subject, model.DateOf(now))
	if err != nil {
		return err
	}
	if count > limit {
		y, m, d := now.Date()
		nextDay := time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
		return apperr.Throttled(nextDay.Sub(now))
	}
	return nil
}
