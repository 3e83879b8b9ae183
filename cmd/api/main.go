package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicore/clinic-api/internal/config"
	"github.com/clinicore/clinic-api/internal/domain/appointment"
	v1 "github.com/clinicore/clinic-api/internal/handler/v1"
	"github.com/clinicore/clinic-api/internal/repository/postgres"
	"github.com/clinicore/clinic-api/internal/service"
	"github.com/clinicore/clinic-api/pkg/auth"
	"github.com/clinicore/clinic-api/pkg/database"
	"github.com/clinicore/clinic-api/pkg/logger"
	"github.com/clinicore/clinic-api/pkg/metrics"
	"github.com/clinicore/clinic-api/pkg/tracer"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Missing .env is fine; environments like containers inject config directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector(cfg.App.Name)
	go func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		for range time.Tick(15 * time.Second) {
			collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
		}
	}()

	jwtManager := auth.NewJWTManager(cfg.JWT)

	apptRepo := postgres.NewAppointmentRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, log)
	defer auditSvc.Shutdown()

	validator := appointment.NewValidator(apptRepo)
	apptSvc := service.NewAppointmentService(apptRepo, doctorRepo, roomRepo, validator, auditSvc, log)
	doctorSvc := service.NewDoctorService(doctorRepo, apptRepo, auditSvc, log)
	roomSvc := service.NewRoomService(roomRepo, apptRepo, auditSvc, log)
	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)

	router := v1.NewRouter(v1.RouterDeps{
		Config:       cfg,
		Metrics:      collector,
		JWTManager:   jwtManager,
		Auth:         v1.NewAuthHandler(authSvc),
		Appointments: v1.NewAppointmentHandler(apptSvc, collector),
		Doctors:      v1.NewDoctorHandler(doctorSvc),
		Rooms:        v1.NewRoomHandler(roomSvc),
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
