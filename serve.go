package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frtutracker/config"
	"frtutracker/database"
	"frtutracker/handlers"
	"frtutracker/logger"
	"frtutracker/scheduler"
	"frtutracker/services"
	"frtutracker/sheets"
	"frtutracker/utils"

	"github.com/spf13/cobra"
)

func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

// setup loads the ambient pieces every command needs.
func setup(ctx context.Context, cfg config.Config) (*database.DB, *services.RecordStore, error) {
	logConfig := logger.Config{
		Level:    logger.ParseLevel(cfg.Logging.Level),
		LogDir:   cfg.Logging.Dir,
		MaxSize:  cfg.Logging.MaxSize,
		MaxAge:   cfg.Logging.MaxAge,
		UseColor: cfg.Logging.UseColor,
	}
	if err := logger.Initialize(logConfig); err != nil {
		return nil, nil, err
	}
	utils.SetLocation(cfg.Location())

	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	store := services.NewRecordStore(services.NewSQLExecutor(db.DB), db.Dialect)
	return db, store, nil
}

func runServe(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, store, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer logger.Close()

	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Info("FRTU Status Tracker Starting")
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = utils.RandomSecret(32)
		if err != nil {
			return err
		}
		logger.Warn("JWT_SECRET not set, using a random secret; sessions end on restart")
	}
	utils.SetJWTSecret([]byte(secret))
	if cfg.Report.DownloadSecret != "" {
		utils.SetExportURLSecret([]byte(cfg.Report.DownloadSecret))
	} else {
		utils.SetExportURLSecret([]byte(secret))
	}
	if cfg.Auth.PasscodeHash == "" {
		logger.Warn("No passcode hash configured, any directory member can sign in")
	}

	var (
		mirror      services.Mirror = services.NopMirror{}
		asyncMirror *services.AsyncMirror
	)
	if cfg.Mirror.Endpoint != "" {
		asyncMirror = services.NewAsyncMirror(services.MirrorConfig{
			Endpoint:  cfg.Mirror.Endpoint,
			Timeout:   cfg.Mirror.Timeout.Duration,
			QueueSize: cfg.Mirror.QueueSize,
			Sink:      services.LogSink,
		})
		mirror = asyncMirror
	} else {
		logger.Warn("Mirror endpoint not configured, audit entries stay local")
	}

	audit := services.NewAuditLogger(mirror)
	directory := services.NewDirectoryService(store, cfg.Directory.Endpoint, cfg.Directory.Timeout.Duration, nil)
	devices := services.NewDeviceService(store, audit, directory)
	stats := services.NewStatsService(store)
	exporter := services.NewReportExporter(cfg.Report.PDFFontPath)
	sessions := services.NewSessionService(directory, cfg.Auth.PasscodeHash, cfg.Auth.TokenTTL.Duration)

	creds := sheets.Credentials{
		Email:         cfg.Sheets.ServiceAccountEmail,
		PrivateKey:    cfg.Sheets.PrivateKey,
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
	}
	if !creds.Configured() {
		logger.Warn("Missing Google Credentials in Environment Variables")
	}
	gateway := sheets.NewGateway(creds, sheets.GatewayConfig{
		LogSheet:         cfg.Sheets.LogSheet,
		DirectorySheet:   cfg.Sheets.DirectorySheet,
		DirectoryColumn:  cfg.Sheets.DirectoryColumn,
		DirectoryMaxRows: cfg.Sheets.DirectoryMaxRows,
		HeaderLabels:     cfg.Sheets.HeaderLabels,
		Timeout:          cfg.Sheets.Timeout.Duration,
	}, nil)

	mux := handlers.NewRouter(handlers.Handlers{
		Devices:   handlers.NewDeviceHandler(devices),
		Logs:      handlers.NewLogHandler(devices, exporter, cfg.Report.DownloadTTL.Duration),
		Sessions:  handlers.NewSessionHandler(sessions),
		Directory: handlers.NewDirectoryHandler(directory),
		Dashboard: handlers.NewDashboardHandler(stats, devices),
		Sheets:    handlers.NewSheetHandler(gateway),
		Members:   directory,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening on http://localhost%s", server.Addr)
		logger.Info("Swagger UI: http://localhost%s/swagger/index.html", server.Addr)
		logger.Info("Database: %s", db.Dialect.Name)
		logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	schedDone := scheduler.StartScheduler(ctx, cfg.Scheduler.DirectoryRefresh.Duration, directory)

	select {
	case err := <-serveErr:
		stop()
		<-schedDone
		if err != nil {
			logger.Error("Server failed: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Warn("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var drain closer
	if asyncMirror != nil {
		drain = asyncMirror
	}
	shutdown(shutdownCtx, drain, server)
	<-schedDone
	logger.Info("Server stopped")
	return nil
}

type closer interface {
	Close(ctx context.Context) error
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown drains the mirror before the server stops listening: the default
// mirror endpoint is this server.
func shutdown(ctx context.Context, mirror closer, server shutdowner) {
	if mirror != nil {
		if err := mirror.Close(ctx); err != nil {
			logger.Warn("Mirror did not drain: %v", err)
		}
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown: %v", err)
	}
}
