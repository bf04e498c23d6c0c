package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/andervilo/timesheet-go/internal/adapters/http/handler"
	"github.com/andervilo/timesheet-go/internal/adapters/repository/postgres"
	"github.com/andervilo/timesheet-go/internal/core/employee"
	"github.com/andervilo/timesheet-go/internal/core/employer"
	"github.com/andervilo/timesheet-go/internal/platform/config"
	pg "github.com/andervilo/timesheet-go/internal/platform/db/postgres"
	"github.com/andervilo/timesheet-go/internal/platform/logger"
	"github.com/andervilo/timesheet-go/internal/platform/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

//	@title			Timesheet API
//	@version		1.0
//	@description	Employee and employer management with filtered, paginated search.
//	@BasePath		/

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env は任意。存在しなければ環境変数のみを使う。
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	dbPool, err := pg.NewPool(ctx, cfg.Database, pg.WithQueryLogger(zl.Named("pgx")))
	if err != nil {
		zl.Fatal("failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	employeeSvc := employee.NewService(postgres.NewEmployeeRepository(dbPool), txManager, cfg.Pagination.MaxPageSize)
	employerSvc := employer.NewService(postgres.NewEmployerRepository(dbPool), txManager, cfg.Pagination.MaxPageSize)

	router := handler.NewRouter(handler.Dependencies{
		Employees: employeeSvc,
		Employers: employerSvc,
		CORS:      cfg.CORS,
		Logger:    zl,
	})

	if err := server.New(cfg.Server, router, zl).Run(ctx); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}
