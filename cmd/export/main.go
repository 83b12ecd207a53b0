// Command export runs one attendance-desk export against the backend and
// writes the files into a local directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cmlabs-hris/attendance-desk/internal/config"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/export"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
	"github.com/cmlabs-hris/attendance-desk/internal/repository/rest"
	attendanceService "github.com/cmlabs-hris/attendance-desk/internal/service/attendance"
	exportService "github.com/cmlabs-hris/attendance-desk/internal/service/export"
	"github.com/cmlabs-hris/attendance-desk/internal/service/file"
)

const cliSessionKey = "cli"

type options struct {
	kind     string
	out      string
	format   string
	email    string
	password string

	month    string
	from     string
	to       string
	teamType string
	shift    string
	employee string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.kind, "kind", "attendance", "export to run: attendance, full, compoff or employees")
	flag.StringVar(&o.out, "out", ".", "directory the files are written to")
	flag.StringVar(&o.format, "format", "", "xlsx or csv (defaults to EXPORT_FORMAT)")
	flag.StringVar(&o.email, "email", os.Getenv("DESK_EMAIL"), "admin email (or DESK_EMAIL)")
	flag.StringVar(&o.password, "password", os.Getenv("DESK_PASSWORD"), "admin password (or DESK_PASSWORD)")
	flag.StringVar(&o.month, "month", "", "month as YYYY-MM")
	flag.StringVar(&o.from, "from", "", "first day as YYYY-MM-DD")
	flag.StringVar(&o.to, "to", "", "last day as YYYY-MM-DD")
	flag.StringVar(&o.teamType, "team", "", "team type filter")
	flag.StringVar(&o.shift, "shift", "", "shift filter")
	flag.StringVar(&o.employee, "employee", export.AllEmployees, "employee id for a full export, or ALL")
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, o); err != nil {
		slog.Error("Export failed", "kind", o.kind, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, o options) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	format := o.format
	if format == "" {
		format = cfg.Export.Format
	}

	client := upstream.NewClient(cfg.Upstream)
	employeeRepo := rest.NewEmployeeRepository(client, loc)
	attendanceRepo := rest.NewAttendanceRepository(client, loc)
	compOffRepo := rest.NewCompOffRepository(client, loc)

	ctx, err = login(ctx, rest.NewAuthRepository(client), o.email, o.password)
	if err != nil {
		return err
	}

	outDir, err := storage.NewLocalStorage(o.out, o.out)
	if err != nil {
		return err
	}

	views := attendanceService.NewViewStore(0)
	attendanceSvc := attendanceService.NewAttendanceService(employeeRepo, attendanceRepo, views, loc)
	exporter := exportService.NewExportService(
		attendanceSvc,
		employeeRepo,
		attendanceRepo,
		compOffRepo,
		file.NewDirectoryFileService(outDir),
		writers(format),
		cfg.Export.DateLayout,
		loc,
	)

	result, err := runExport(ctx, exporter, o)
	if err != nil {
		return err
	}
	if result.Fallback {
		slog.Warn("Spreadsheet output unavailable, wrote CSV instead")
	}
	for _, f := range result.Files {
		fmt.Println(f.URL)
	}
	return nil
}

// login builds the session the services expect, the same way the server
// does at login, and attaches it with the backend token to ctx.
func login(ctx context.Context, repo auth.AuthRepository, email, password string) (context.Context, error) {
	req := auth.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	up, err := repo.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	ctx = upstream.WithToken(ctx, up.Token)

	id, err := repo.Me(ctx)
	if err != nil {
		return nil, err
	}
	sess := auth.Session{
		AccessToken:   cliSessionKey,
		UpstreamToken: up.Token,
		UserID:        id.UserID,
		Email:         email,
		Role:          up.Role,
		Scope:         up.Scope,
	}
	if id.Email != "" {
		sess.Email = id.Email
	}
	if id.Role != "" {
		sess.Role = id.Role
		sess.Scope = id.Scope
	}
	if sess.Role != auth.RoleSuper && sess.Role != auth.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", auth.ErrInvalidCredentials, sess.Role)
	}
	slog.Info("Logged in", "user_id", sess.UserID, "role", sess.Role)
	return auth.WithSession(ctx, sess), nil
}

func runExport(ctx context.Context, exporter export.ExportService, o options) (export.Result, error) {
	period := attendance.PeriodQuery{Month: o.month, From: o.from, To: o.to}

	switch o.kind {
	case "attendance":
		req := export.AttendanceExportRequest{MatrixQuery: attendance.MatrixQuery{
			PeriodQuery: period,
			TeamType:    o.teamType,
			Shift:       o.shift,
		}}
		if err := req.Validate(); err != nil {
			return export.Result{}, err
		}
		return exporter.Attendance(ctx, req)
	case "full":
		req := export.FullExportRequest{EmployeeID: o.employee, From: o.from, To: o.to}
		if err := req.Validate(); err != nil {
			return export.Result{}, err
		}
		return exporter.Full(ctx, req)
	case "compoff":
		return exporter.CompOff(ctx)
	case "employees":
		return exporter.Employees(ctx, export.EmployeeExportRequest{
			Filter: employee.Filter{TeamType: o.teamType, Shift: o.shift},
		})
	default:
		return export.Result{}, fmt.Errorf("unknown export kind %q", o.kind)
	}
}

func writers(format string) exportService.Writers {
	csv := spreadsheet.NewDelimitedWriter()
	if format == config.ExportFormatCSV {
		return exportService.Writers{Primary: csv}
	}
	return exportService.Writers{Primary: spreadsheet.NewExcelWriter(), Fallback: csv}
}
