package router

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean_backend/internal/config"
	"homeclean_backend/internal/confirm"
	"homeclean_backend/internal/events"
	"homeclean_backend/internal/guard"
	"homeclean_backend/internal/handlers"
	"homeclean_backend/internal/middleware"
	"homeclean_backend/internal/repositories"
	"homeclean_backend/internal/services"
	"homeclean_backend/internal/session"
	"homeclean_backend/internal/wizard"
	"homeclean_backend/pkg/utils"
)

// Dependencies are the shared backends built by main.
type Dependencies struct {
	DB            *sql.DB
	Config        *config.Config
	Guard         guard.Guard
	Confirmations confirm.Store
	Revocations   session.RevocationStore
	Publisher     events.Publisher
}

// Setup initializes the routing for the application.
func Setup(ctx context.Context, engine *gin.Engine, deps Dependencies) error {
	cfg := deps.Config

	// Repositories
	authRepo := repositories.NewAuthRepository(deps.DB)
	serviceRepo := repositories.NewServiceRepository(deps.DB)
	customerRepo := repositories.NewCustomerRepository(deps.DB)
	bookingRepo := repositories.NewBookingRepository(deps.DB)
	historyRepo := repositories.NewStatusHistoryRepository(deps.DB)

	// Services
	var policy services.TransitionPolicy = services.PermissivePolicy{}
	if cfg.StrictTransitions {
		policy = services.NewStrictPolicy()
	}
	signer := utils.NewTokenSigner(cfg.JWTSecret, cfg.JWTTTL)

	authService := services.NewAuthService(authRepo, deps.DB, signer, deps.Revocations)
	catalogService := services.NewCatalogService(serviceRepo, deps.DB, deps.Guard, deps.Confirmations, cfg.DeleteConfirmationTTL)
	bookingService := services.NewBookingService(deps.DB, customerRepo, bookingRepo, historyRepo, catalogService, wizard.NewCalendar(cfg.Location), deps.Publisher)
	bookingAdminService := services.NewBookingAdminService(deps.DB, bookingRepo, historyRepo, policy, deps.Guard, deps.Publisher, cfg.Location)
	customerService := services.NewCustomerService(customerRepo)
	statsService := services.NewStatsService(bookingRepo, customerRepo, serviceRepo)

	if cfg.AdminBootstrapEmail != "" {
		if err := authService.EnsureBootstrapAdmin(ctx, cfg.AdminBootstrapEmail, cfg.AdminBootstrapPassword); err != nil {
			return err
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	publicHandler := handlers.NewPublicBookingHandler(bookingService, catalogService)
	bookingHandler := handlers.NewBookingHandler(bookingAdminService)
	serviceHandler := handlers.NewServiceHandler(catalogService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	dashboardHandler := handlers.NewDashboardHandler(statsService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := engine.Group("/api/v1")
	SetupPublicRoutes(apiV1, publicHandler)
	SetupAuthRoutes(apiV1, authHandler, middleware.SessionAuth(authService))

	admin := apiV1.Group("/admin")
	admin.Use(middleware.SessionAuth(authService))
	{
		SetupBookingRoutes(admin, bookingHandler)
		SetupServiceRoutes(admin, serviceHandler)
		SetupCustomerRoutes(admin, customerHandler)
		SetupDashboardRoutes(admin, dashboardHandler)
	}
	return nil
}
