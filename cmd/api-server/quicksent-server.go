package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"quicksent/db"
	"quicksent/db/migrations"
	"quicksent/internal/auth"
	"quicksent/internal/config"
	"quicksent/internal/handlers"
	"quicksent/internal/puesc"
	"quicksent/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}
	if cfg.PostgresConn == "" {
		log.Fatal("POSTGRES_CONN env variable is not set")
	}

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		log.Fatalf("Cannot connect to DB: %v", err)
	}
	defer dbConn.Close()

	migrations.Run(dbConn.DB)

	store := db.NewStorage(dbConn)
	authSvc := auth.NewService(store, time.Duration(cfg.SessionTTLHours)*time.Hour, nil)
	gateway := puesc.NewClient(cfg)
	builder := puesc.NewBuilder(cfg.SenderSystemID, cfg.ReceiverSystemID, nil)
	h := handlers.NewHandler(store, authSvc, gateway, builder, cfg.ReportDir)

	go func() {
		for range time.Tick(time.Hour) {
			n, err := store.DeleteExpiredSessions(context.Background(), time.Now().UTC())
			if err != nil {
				log.Printf("Session cleanup failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Removed %d expired sessions", n)
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		r.Post("/auth/login", h.LoginHandler)
		r.Post("/auth/logout", h.LogoutHandler)
		r.Post("/auth/register", h.RegisterHandler)

		r.Group(func(r chi.Router) {
			r.Use(authSvc.RequireAuth)

			r.Get("/auth/me", h.MeHandler)
			r.Get("/dashboard/stats", h.GetDashboardStatsHandler)

			// PUESC gateway
			r.Post("/gus/validate", h.ValidateGusHandler)
			r.Get("/puesc/health", h.PuescHealthHandler)
			r.Get("/puesc/docs", h.PuescDocsHandler)

			// declarations
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePermission(models.PermSentView))
				r.Get("/declarations", h.GetDeclarationsHandler)
				r.Get("/declarations/{declarationNumber}", h.GetDeclarationHandler)
				r.Get("/declarations/{declarationNumber}/status", h.GetDeclarationStatusHandler)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePermission(models.PermSentCreate))
				r.Post("/declarations/new", h.CreateDeclarationHandler)
				r.Post("/declarations/{declarationNumber}/submit", h.SubmitDeclarationHandler)
			})
			r.With(auth.RequirePermission(models.PermSentEdit)).
				Post("/declarations/{declarationNumber}/edit", h.EditDeclarationHandler)

			// master data
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePermission(models.PermDataManage))

				r.Get("/companies", h.GetCompaniesHandler)
				r.Post("/companies/new", h.CreateCompanyHandler)
				r.Get("/companies/{companyId}", h.GetCompanyHandler)
				r.Put("/companies/{companyId}", h.UpdateCompanyHandler)
				r.Delete("/companies/{companyId}", h.DeleteCompanyHandler)

				r.Get("/contractors", h.GetContractorsHandler)
				r.Post("/contractors/new", h.CreateContractorHandler)
				r.Get("/contractors/{contractorId}", h.GetContractorHandler)
				r.Put("/contractors/{contractorId}", h.UpdateContractorHandler)
				r.Delete("/contractors/{contractorId}", h.DeleteContractorHandler)

				r.Get("/locations", h.GetLocationsHandler)
				r.Post("/locations/new", h.CreateLocationHandler)
				r.Get("/locations/{locationId}", h.GetLocationHandler)
				r.Put("/locations/{locationId}", h.UpdateLocationHandler)
				r.Delete("/locations/{locationId}", h.DeleteLocationHandler)

				r.Get("/products", h.GetProductsHandler)
				r.Post("/products/new", h.CreateProductHandler)
				r.Get("/products/{productId}", h.GetProductHandler)
				r.Put("/products/{productId}", h.UpdateProductHandler)
				r.Delete("/products/{productId}", h.DeleteProductHandler)

				r.Get("/vehicles", h.GetVehiclesHandler)
				r.Post("/vehicles/new", h.CreateVehicleHandler)
				r.Get("/vehicles/{vehicleId}", h.GetVehicleHandler)
				r.Put("/vehicles/{vehicleId}", h.UpdateVehicleHandler)
				r.Delete("/vehicles/{vehicleId}", h.DeleteVehicleHandler)

				r.Get("/drivers", h.GetDriversHandler)
				r.Post("/drivers/new", h.CreateDriverHandler)
				r.Get("/drivers/{driverId}", h.GetDriverHandler)
				r.Put("/drivers/{driverId}", h.UpdateDriverHandler)
				r.Delete("/drivers/{driverId}", h.DeleteDriverHandler)

				r.Get("/transport-templates", h.GetTransportTemplatesHandler)
				r.Post("/transport-templates/new", h.CreateTransportTemplateHandler)
				r.Get("/transport-templates/{templateId}", h.GetTransportTemplateHandler)
				r.Put("/transport-templates/{templateId}", h.UpdateTransportTemplateHandler)
				r.Delete("/transport-templates/{templateId}", h.DeleteTransportTemplateHandler)
			})

			// reports
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePermission(models.PermReportsView))
				r.Get("/reports", h.GetReportsHandler)
				r.Get("/reports/{reportId}", h.GetReportHandler)
				r.Get("/reports/{reportId}/download", h.DownloadReportHandler)
			})
			r.With(auth.RequirePermission(models.PermReportsCreate)).
				Post("/reports/new", h.CreateReportHandler)

			// user management
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePermission(models.PermUsersView))
				r.Get("/users", h.GetUsersHandler)
				r.Get("/users/stats", h.GetUserStatsHandler)
				r.Get("/users/{userId}", h.GetUserHandler)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePermission(models.PermUsersManage))
				r.Post("/users/new", h.CreateUserHandler)
				r.Put("/users/{userId}", h.UpdateUserHandler)
				r.Delete("/users/{userId}", h.DeleteUserHandler)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequirePermission(models.PermAuditView))
				r.Get("/activity", h.GetActivityLogsHandler)
				r.Get("/audit", h.GetAuditTrailHandler)
			})
		})
	})

	log.Printf("Starting server on %s", cfg.ServerAddress)
	log.Fatal(http.ListenAndServe(cfg.ServerAddress, r))
}
