package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-manager/internal/auth"
	"task-manager/internal/config"
	"task-manager/internal/httpapi"
	"task-manager/internal/repository"
	"task-manager/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	throttleRepo := repository.NewThrottleRepository(db)

	issuer, err := auth.NewManager(auth.Config{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	authSvc := service.NewAuthService(userRepo, tokenRepo, issuer)
	categorySvc := service.NewCategoryService(categoryRepo)
	taskSvc := service.NewTaskService(taskRepo, categoryRepo, service.TaskOptions{
		EnforceCategoryOwnership: cfg.EnforceCategoryOwnership,
	})
	throttleSvc := service.NewThrottleService(throttleRepo, service.ThrottleLimits{
		AnonDaily: cfg.AnonDailyLimit,
		UserDaily: cfg.UserDailyLimit,
	})
	maintenanceSvc := service.NewMaintenanceService(tokenRepo, throttleRepo)

	scheduler := service.NewSchedulerService(time.UTC)
	if cfg.CleanupInterval > 0 {
		if _, err := scheduler.ScheduleInterval("purge tokens", cfg.CleanupInterval, maintenanceSvc.PurgeExpiredTokens); err != nil {
			log.Fatalf("schedule token purge: %v", err)
		}
	}
	if _, err := scheduler.ScheduleDaily("purge throttle counters", cfg.ThrottlePurgeAt, maintenanceSvc.PurgeThrottleCounters); err != nil {
		log.Fatalf("schedule throttle purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	api := httpapi.NewServer(authSvc, categorySvc, taskSvc, throttleSvc, httpapi.Options{
		CORSOrigins: cfg.CORSOrigins,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[info] task manager listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}
	log.Println("Shutdown complete.")
}
