package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/citynect/property-backend/cache"
	"github.com/citynect/property-backend/config"
	"github.com/citynect/property-backend/repository"
	"github.com/citynect/property-backend/scheduler"
	"github.com/citynect/property-backend/services"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg         config.Settings
	mongo       *mongo.Client
	redis       *redis.Client
	collections *config.Collections
	records     *repository.RecordRepository

	properties  *services.PropertyService
	users       *services.UserService
	maintenance *services.MaintenanceService
}

func newApp(ctx context.Context, cfg config.Settings) (*app, error) {
	client, err := config.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	redisClient, err := config.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPass)
	if err != nil {
		config.CloseDBConnection(ctx, client)
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	c := config.InitCollections(client, cfg.Database)
	policy := policyFromSettings(cfg)

	propertyRepo := repository.NewPropertyRepository(c.Properties)
	userRepo := repository.NewUserRepository(c.Users)
	accountRepo := repository.NewAccountRepository(c.DemoAccounts, c.PaidAccounts)
	suggestions := repository.NewRecordRepository(c.Suggestions)
	passwordRequests := repository.NewRecordRepository(c.PasswordRequests)
	resultCache := cache.New(redisClient, cfg.CacheTTL)

	return &app{
		cfg:         cfg,
		mongo:       client,
		redis:       redisClient,
		collections: c,
		records:     repository.NewRecordRepository(c.APILogs),
		properties: services.NewPropertyService(
			propertyRepo,
			userRepo,
			repository.NewStatusRepository(c.Statuses),
			repository.NewRemarkRepository(c.Remarks),
			suggestions,
			resultCache,
			policy,
		),
		users: services.NewUserService(
			userRepo,
			propertyRepo,
			accountRepo,
			repository.NewSessionRepository(c.Sessions),
			passwordRequests,
			resultCache,
			[]byte(cfg.JWTKey),
			policy,
		),
		maintenance: services.NewMaintenanceService(userRepo, accountRepo, propertyRepo, resultCache, policy),
	}, nil
}

func (a *app) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Error("error closing redis connection", "error", err)
		}
	}
	config.CloseDBConnection(ctx, a.mongo)
}

func policyFromSettings(cfg config.Settings) services.Policy {
	return services.Policy{
		DefaultPageSize:             cfg.DefaultPageSize,
		MaxPageSize:                 cfg.MaxPageSize,
		ExcludedStatuses:            cfg.ExcludedStatuses,
		PrivilegedUserID:            cfg.PrivilegedUserID,
		Location:                    cfg.Location(),
		TokenTTL:                    cfg.TokenTTL,
		DemoContactLimit:            cfg.DemoContactLimit,
		PremiumContactLimit:         cfg.PremiumContactLimit,
		DailyContactLimit:           cfg.DailyContactLimit,
		PrivilegedDailyContactLimit: cfg.PrivilegedDailyContactLimit,
		WrongPassLimit:              cfg.WrongPassLimit,
	}
}

// scheduledJobs maps the configured hours onto the nightly sweeps. The sqFt
// backfill only runs on demand.
func scheduledJobs(s config.Schedule) []scheduler.Job {
	if !s.Enabled {
		return nil
	}
	return []scheduler.Job{
		{Name: services.JobResetContactLimits, Hour: s.ResetContactHour},
		{Name: services.JobExpireDemo, Hour: s.ExpireDemoHour},
		{Name: services.JobExpirePaid, Hour: s.ExpirePaidHour},
		{Name: services.JobResetWrongPass, Hour: s.ResetWrongPassHour},
	}
}
