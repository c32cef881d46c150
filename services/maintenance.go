package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/repository"
	"github.com/citynect/property-backend/utils"
)

// Maintenance job names, shared by the scheduler, the CLI and the admin API.
const (
	JobExpireDemo         = "expire-demo"
	JobExpirePaid         = "expire-paid"
	JobResetContactLimits = "reset-contact-limits"
	JobResetWrongPass     = "reset-wrong-pass"
	JobBackfillSqFt       = "backfill-sqft"
)

// MaintenanceService runs the periodic sweeps. Every sweep is idempotent.
type MaintenanceService struct {
	users      UserStore
	accounts   AccountStore
	properties PropertyStore
	cache      ResultCache
	policy     Policy
	now        func() time.Time
}

func NewMaintenanceService(users UserStore, accounts AccountStore, properties PropertyStore, cache ResultCache, policy Policy) *MaintenanceService {
	if cache == nil {
		cache = noCache{}
	}
	return &MaintenanceService{
		users:      users,
		accounts:   accounts,
		properties: properties,
		cache:      cache,
		policy:     policy,
		now:        time.Now,
	}
}

func (s *MaintenanceService) jobs() map[string]func(context.Context) (int64, error) {
	return map[string]func(context.Context) (int64, error){
		JobExpireDemo:         s.ExpireDemoAccounts,
		JobExpirePaid:         s.ExpirePaidAccounts,
		JobResetContactLimits: s.ResetContactLimits,
		JobResetWrongPass:     s.ResetWrongPassLimits,
		JobBackfillSqFt:       s.BackfillSqFt,
	}
}

// JobNames lists the runnable sweeps in a stable order.
func (s *MaintenanceService) JobNames() []string {
	names := make([]string, 0, 5)
	for name := range s.jobs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes one sweep by name and returns how many records it touched.
func (s *MaintenanceService) Run(ctx context.Context, name string) (int64, error) {
	job, ok := s.jobs()[name]
	if !ok {
		return 0, utils.NotFound("unknown maintenance job %q", name)
	}
	start := time.Now()
	n, err := job(ctx)
	if err != nil {
		slog.Error("maintenance job failed", "job", name, "error", err)
		return n, err
	}
	slog.Info("maintenance job finished", "job", name, "affected", n, "duration", time.Since(start))
	return n, nil
}

func (s *MaintenanceService) ExpireDemoAccounts(ctx context.Context) (int64, error) {
	demos, err := s.accounts.ExpiredDemos(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("MaintenanceService.ExpireDemoAccounts: %w", err)
	}

	var n int64
	for _, demo := range demos {
		if err := s.accounts.SetDemoStatus(ctx, demo.ID, models.AccountExpired); err != nil {
			return n, fmt.Errorf("MaintenanceService.ExpireDemoAccounts: %w", err)
		}
		if err := s.downgrade(ctx, demo.UserID); err != nil {
			return n, fmt.Errorf("MaintenanceService.ExpireDemoAccounts: %w", err)
		}
		n++
	}
	return n, nil
}

func (s *MaintenanceService) ExpirePaidAccounts(ctx context.Context) (int64, error) {
	paid, err := s.accounts.ExpiredPaid(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("MaintenanceService.ExpirePaidAccounts: %w", err)
	}

	var n int64
	for _, account := range paid {
		if err := s.accounts.SetPaidStatus(ctx, account.ID, models.AccountExpired); err != nil {
			return n, fmt.Errorf("MaintenanceService.ExpirePaidAccounts: %w", err)
		}
		if err := s.downgrade(ctx, account.UserID); err != nil {
			return n, fmt.Errorf("MaintenanceService.ExpirePaidAccounts: %w", err)
		}
		n++
	}
	return n, nil
}

func (s *MaintenanceService) downgrade(ctx context.Context, userID string) error {
	err := s.users.Downgrade(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Warn("expired account references a missing user", "userId", userID)
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		slog.Warn("cache invalidation failed", "userId", userID, "error", err)
	}
	return nil
}

func (s *MaintenanceService) ResetContactLimits(ctx context.Context) (int64, error) {
	n, err := s.users.ResetContactLimits(ctx, s.policy.DailyContactLimit, s.policy.PrivilegedUserID,
		s.policy.PrivilegedDailyContactLimit, s.policy.WrongPassLimit)
	if err != nil {
		return 0, fmt.Errorf("MaintenanceService.ResetContactLimits: %w", err)
	}
	return n, nil
}

func (s *MaintenanceService) ResetWrongPassLimits(ctx context.Context) (int64, error) {
	n, err := s.users.ResetWrongPassLimits(ctx, s.policy.WrongPassLimit)
	if err != nil {
		return 0, fmt.Errorf("MaintenanceService.ResetWrongPassLimits: %w", err)
	}
	return n, nil
}

func (s *MaintenanceService) BackfillSqFt(ctx context.Context) (int64, error) {
	n, err := s.properties.BackfillSqFt(ctx)
	if err != nil {
		return n, fmt.Errorf("MaintenanceService.BackfillSqFt: %w", err)
	}
	if n > 0 {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			slog.Warn("cache invalidation failed", "error", err)
		}
	}
	return n, nil
}
