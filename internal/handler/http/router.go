package http

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// FilesPath is where stored export files are served from.
const FilesPath = "/files"

type Handlers struct {
	Auth       AuthHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	CompOff    CompOffHandler
	Export     ExportHandler
	Admin      AdminHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// Files, when set, is served under FilesPath.
	Files fs.FS
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.Files != nil {
		r.Handle(FilesPath+"/*", http.StripPrefix(FilesPath, http.FileServer(http.FS(opts.Files))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Get("/has-super", h.Auth.HasSuper)
			r.Post("/setup-super", h.Auth.SetupSuper)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Get("/statuses", h.Attendance.Statuses)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.Post("/", h.Employee.CreateEmployee)
				r.Put("/{id}", h.Employee.UpdateEmployee)
				r.Delete("/{id}", h.Employee.DeleteEmployee)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/matrix", h.Attendance.Matrix)
				r.Post("/mark", h.Attendance.Mark)
				r.Post("/note", h.Attendance.UpdateNote)
				r.Get("/insight", h.Leave.Insight)
				r.Get("/leaves", h.Leave.Details)
				r.Put("/leaves/notes", h.Leave.SaveNotes)
			})

			r.Route("/compoff", func(r chi.Router) {
				r.Get("/", h.CompOff.List)
				r.Post("/", h.CompOff.Save)
				r.Delete("/{id}", h.CompOff.Delete)
			})

			r.Route("/exports", func(r chi.Router) {
				r.Post("/attendance", h.Export.Attendance)
				r.Post("/full", h.Export.Full)
				r.Post("/compoff", h.Export.CompOff)
				r.Post("/employees", h.Export.Employees)
			})

			// Super admin only
			r.Route("/admins", func(r chi.Router) {
				r.Use(middleware.RequireSuper)
				r.Get("/", h.Admin.List)
				r.Post("/", h.Admin.Create)
				r.Delete("/{id}", h.Admin.Delete)
			})
		})
	})
	return r
}
