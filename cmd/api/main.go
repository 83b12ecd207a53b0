package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/config"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	appHTTP "github.com/cmlabs-hris/attendance-desk/internal/handler/http"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
	"github.com/cmlabs-hris/attendance-desk/internal/repository/rest"
	adminService "github.com/cmlabs-hris/attendance-desk/internal/service/admin"
	attendanceService "github.com/cmlabs-hris/attendance-desk/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-desk/internal/service/auth"
	compOffService "github.com/cmlabs-hris/attendance-desk/internal/service/compoff"
	employeeService "github.com/cmlabs-hris/attendance-desk/internal/service/employee"
	exportService "github.com/cmlabs-hris/attendance-desk/internal/service/export"
	"github.com/cmlabs-hris/attendance-desk/internal/service/file"
	leaveService "github.com/cmlabs-hris/attendance-desk/internal/service/leave"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-desk"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Failed to load timezone:", err)
	}

	client := upstream.NewClient(cfg.Upstream)

	employeeRepo := rest.NewEmployeeRepository(client, loc)
	attendanceRepo := rest.NewAttendanceRepository(client, loc)
	compOffRepo := rest.NewCompOffRepository(client, loc)
	adminRepo := rest.NewAdminRepository(client)
	authRepo := rest.NewAuthRepository(client)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}
	fileService := file.NewFileService(fileStorage)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	views := attendanceService.NewViewStore(cfg.View.IdleTimeout)

	attendanceSvc := attendanceService.NewAttendanceService(employeeRepo, attendanceRepo, views, loc)
	authService := serviceAuth.NewAuthService(authRepo, JWTService, attendanceSvc)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	leaveSvc := leaveService.NewLeaveService(employeeRepo, attendanceRepo, attendanceSvc, loc)
	compOffSvc := compOffService.NewCompOffService(compOffRepo)
	adminSvc := adminService.NewAdminService(adminRepo)
	exportSvc := exportService.NewExportService(
		attendanceSvc,
		employeeRepo,
		attendanceRepo,
		compOffRepo,
		fileService,
		writers(cfg.Export.Format),
		cfg.Export.DateLayout,
		loc,
	)

	// a token the backend rejects ends the desk session too
	client.OnUnauthorized(func(ctx context.Context, _ string) {
		if sess, err := auth.SessionFromContext(ctx); err == nil {
			authService.Expire(ctx, sess)
		}
	})

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		CompOff:    appHTTP.NewCompOffHandler(compOffSvc),
		Export:     appHTTP.NewExportHandler(exportSvc),
		Admin:      appHTTP.NewAdminHandler(adminSvc),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.FrontendURL,
		Files:          fileStorage.FS(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	scheduler.AddJob("evict_idle_views", cfg.View.EvictInterval, func(ctx context.Context) error {
		if n := views.EvictIdle(); n > 0 {
			slog.Info("Evicted idle attendance views", "count", n)
		}
		return nil
	})
	scheduler.AddJob("purge_revoked_tokens", time.Hour, func(ctx context.Context) error {
		if n := JWTService.PurgeRevoked(time.Now()); n > 0 {
			slog.Info("Purged revoked tokens", "count", n)
		}
		return nil
	})
	scheduler.AddJob("purge_exports", cfg.Export.Retention/4, func(ctx context.Context) error {
		_, err := fileService.PurgeExports(ctx, cfg.Export.Retention)
		return err
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "address", cfg.Address(), "upstream", cfg.Upstream.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// writers prefers the configured format and keeps delimited text as the
// fallback when a workbook cannot be produced.
func writers(format string) exportService.Writers {
	csv := spreadsheet.NewDelimitedWriter()
	if format == config.ExportFormatCSV {
		return exportService.Writers{Primary: csv}
	}
	return exportService.Writers{Primary: spreadsheet.NewExcelWriter(), Fallback: csv}
}
