package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/audit"
	"github.com/appointra/scheduler/internal/clock"
	"github.com/appointra/scheduler/internal/config"
	"github.com/appointra/scheduler/internal/handlers"
	infraRepo "github.com/appointra/scheduler/internal/infra/repository"
	"github.com/appointra/scheduler/internal/infra/reservation"
	"github.com/appointra/scheduler/internal/middleware"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/notify"
	ucBooking "github.com/appointra/scheduler/internal/usecase/booking"
)

func Register(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================

	repo := infraRepo.NewBookingGormRepository(db)
	holds := reservation.NewRedisHoldStore(rdb)
	clk := clock.System{}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	notifier := notify.NewScheduler(db, log)

	scanner := ucBooking.NewConflictScanner(repo, holds)

	// ======================================================
	// USE CASES
	// ======================================================

	slotsUC := ucBooking.NewGetSlots(repo, scanner, clk, log)
	createUC := ucBooking.NewCreateAppointment(
		repo, holds, scanner, clk,
		auditDispatcher, notifier, log,
	)
	holdUC := ucBooking.NewPlaceHold(repo, holds, scanner, clk, cfg.HoldTTL)
	cancelUC := ucBooking.NewCancelAppointment(repo, clk, auditDispatcher, notifier)
	completeUC := ucBooking.NewCompleteAppointment(repo, clk, auditDispatcher)
	listUC := ucBooking.NewListAppointments(repo, clk)

	// ======================================================
	// HANDLERS
	// ======================================================

	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	companyHandler := handlers.NewCompanyHandler(db)
	staffHandler := handlers.NewStaffHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(db)
	timeOffHandler := handlers.NewTimeOffHandler(db, clk, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createUC, cancelUC, completeUC, listUC,
	)

	publicHandler := handlers.NewPublicHandler(
		db, repo, slotsUC, createUC, holdUC,
	)

	// ======================================================
	// ROUTES
	// ======================================================

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC (by company slug)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/reservations", publicHandler.CreateReservation)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE (staff dashboard)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.Auth(cfg.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/company", companyHandler.GetMeCompany)
			secured.PATCH("/me/company", companyHandler.UpdateMeCompany)

			secured.GET("/me/customers", customerHandler.List)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/availability", availabilityHandler.Get)
			secured.PUT("/me/availability", availabilityHandler.Update)

			secured.POST("/me/time-off", timeOffHandler.Request)
			secured.GET("/me/time-off", timeOffHandler.List)

			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)

			// Management-only
			managed := secured.Group("/")
			managed.Use(middleware.RequireRole(models.RoleOwner, models.RoleManager))
			{
				managed.GET("/me/staff", staffHandler.List)
				managed.POST("/me/staff", staffHandler.Create)
				managed.PATCH("/me/staff/:id", staffHandler.Update)

				managed.PUT("/me/services/:id/staff", serviceHandler.AssignStaff)

				managed.PATCH("/me/time-off/:id/approve", timeOffHandler.Approve)
				managed.PATCH("/me/time-off/:id/reject", timeOffHandler.Reject)
			}
		}
	}
}
