package main

import (
	"log"
	"net/http"
	"time"

	"timeledger/config"
	"timeledger/database"
	"timeledger/handlers"
	"timeledger/middleware"
	"timeledger/models"
	"timeledger/summary"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	adminHandler := handlers.NewAdminHandler(cfg)
	hoursHandler := handlers.NewHoursHandler(cfg)
	timersHandler := handlers.NewTimersHandler(cfg)
	requestsHandler := handlers.NewRequestsHandler(cfg)
	summaryHandler := handlers.NewSummaryHandler(cfg)

	// Periodic zero-row sweep, safety net behind the reconciler
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			removed, err := summary.SweepZeroRows(database.GetDB())
			if err != nil {
				log.Printf("Summary sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Summary sweep removed %d zero rows", removed)
			}
		}
	}()

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/login", authHandler.Login)
	router.Post("/register", authHandler.Register)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Get("/logout", authHandler.Logout)

		// Password change (accessible even when password change required)
		r.Post("/change-password", authHandler.ChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePasswordChange)

			// Hour entries
			r.Get("/hours", hoursHandler.List)
			r.Post("/hours", hoursHandler.Create)
			r.Post("/hours/update", hoursHandler.Update)
			r.Post("/hours/delete", hoursHandler.Delete)

			// Tasks and timers
			r.Get("/tasks", timersHandler.ListTasks)
			r.Post("/tasks", timersHandler.CreateTask)
			r.Post("/timers/start", timersHandler.Start)
			r.Post("/timers/stop", timersHandler.Stop)
			r.Get("/timers/active", timersHandler.Active)

			// Leave requests
			r.Get("/requests", requestsHandler.List)
			r.Post("/requests", requestsHandler.Create)
			r.Post("/requests/cancel", requestsHandler.Cancel)

			// Summaries
			r.Get("/summary", summaryHandler.List)

			// Admin and HR only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleHR))
				r.Post("/requests/approve", requestsHandler.Approve)
				r.Post("/requests/reject", requestsHandler.Reject)
				r.Get("/summary/export", summaryHandler.ExportCSV)
			})

			// Admin only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/invites", authHandler.ListInvites)
				r.Post("/invites", authHandler.CreateInvite)
				r.Get("/users", adminHandler.ListUsers)
				r.Post("/users/update", adminHandler.UpdateUser)
				r.Post("/users/delete", adminHandler.DeleteUser)
				r.Get("/teams", adminHandler.ListTeams)
				r.Post("/teams", adminHandler.CreateTeam)
				r.Post("/teams/delete", adminHandler.DeleteTeam)
				r.Get("/projects", adminHandler.ListProjects)
				r.Post("/projects", adminHandler.CreateProject)
				r.Post("/projects/delete", adminHandler.DeleteProject)
				r.Post("/supervisors", adminHandler.AssignSupervisor)
				r.Post("/supervisors/delete", adminHandler.RemoveSupervisorAssignment)
				r.Post("/admin/rebuild", summaryHandler.Rebuild)
				r.Post("/admin/sweep", summaryHandler.Sweep)
			})
		})
	})

	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
