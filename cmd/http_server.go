package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/auth"
	authpg "github.com/jansssss/jbfPL/internal/auth/postgres"
	"github.com/jansssss/jbfPL/internal/employee"
	employeepg "github.com/jansssss/jbfPL/internal/employee/postgres"
	"github.com/jansssss/jbfPL/internal/notification"
	"github.com/jansssss/jbfPL/internal/proposal"
	proposalpg "github.com/jansssss/jbfPL/internal/proposal/postgres"
	"github.com/jansssss/jbfPL/internal/transport/rest"
	"github.com/jansssss/jbfPL/internal/transport/swagger"
	"github.com/jansssss/jbfPL/internal/workitem"
	workitempg "github.com/jansssss/jbfPL/internal/workitem/postgres"
	"github.com/jansssss/jbfPL/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler     *auth.Handler
	ProposalHandler *proposal.Handler
	WorkItemHandler *workitem.Handler
	EmployeeHandler *employee.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Config,
		deps.AuthHandler,
		deps.ProposalHandler,
		deps.WorkItemHandler,
		deps.EmployeeHandler,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		lg.Warn("openapi spec validation failed, swagger UI may be broken", "error", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := notification.NewBus(lg)
	bus.Subscribe(func(ctx context.Context, notice notification.Notice) error {
		lg.Info("notice",
			"notice_id", notice.ID,
			"severity", notice.Severity,
			"text", notice.Text)
		return nil
	})
	notifier := notification.NewBusNotifier(bus, config.Notification.DismissAfterOrDefault())

	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authRepo := authpg.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokens, notifier, config.Organization.EmailDomain, config.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(authService)

	proposalRepo := proposalpg.NewRepository(gormDB, lg)
	proposalService := proposal.NewService(proposalRepo, notifier, lg)
	proposalHandler := proposal.NewHandler(proposalService)

	workItemRepo := workitempg.NewRepository(gormDB, lg)
	workItemService := workitem.NewService(workItemRepo, notifier, lg)
	workItemHandler := workitem.NewHandler(workItemService)

	employeeRepo := employeepg.NewRepository(gormDB, lg)
	employeeService := employee.NewService(
		employeeRepo,
		authService,
		notifier,
		lg,
		config.Organization.EmailDomain,
		config.Organization.TempPassword,
	)
	employeeHandler := employee.NewHandler(employeeService)

	return &Dependencies{
		Config:          config,
		DB:              db,
		GormDB:          gormDB,
		Router:          chi.NewRouter(),
		Logger:          lg,
		AuthHandler:     authHandler,
		ProposalHandler: proposalHandler,
		WorkItemHandler: workItemHandler,
		EmployeeHandler: employeeHandler,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm wraps the existing pgx connection so both layers share one pool
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
}
