package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"studiopromise/internal/config"
	"studiopromise/internal/database"
	"studiopromise/internal/middleware"
	"studiopromise/internal/modules/auth"
	"studiopromise/internal/modules/booking"
	"studiopromise/internal/modules/pipeline"
	"studiopromise/internal/modules/quotation"
	"studiopromise/internal/modules/realtime"
	jwtsvc "studiopromise/internal/pkg/jwt"
	"studiopromise/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	studioRepo := repository.NewStudioRepository(db)
	dealRepo := repository.NewDealRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	itemRepo := repository.NewQuoteItemRepository(db)
	configRepo := repository.NewPricingConfigRepository(db)
	bookingRepo := repository.NewEventBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	broker := realtime.NewBroker()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(bookingRepo, studioRepo, cfg.DailyEventLimit)
	bookingHandler := booking.NewHandler(bookingService)

	pipelineService := pipeline.NewService(dealRepo, quotationRepo, bookingService, broker)
	pipelineHandler := pipeline.NewHandler(pipelineService)

	quotationService := quotation.NewService(quotationRepo, itemRepo, dealRepo, configRepo, broker)
	quotationHandler := quotation.NewHandler(quotationService)

	hub := realtime.NewHub(broker, dealRepo, cfg.PollInterval)
	realtimeHandler := realtime.NewHandler(hub, dealRepo, studioRepo, j)

	sweeper, err := realtime.NewSweeper(dealRepo, broker, cfg.SweepInterval)
	if err != nil {
		log.Fatal(err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	// Viewer-facing routes: canonical redirects and websockets.
	realtimeHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1.Group("/auth"))

		// protected (staff endpoints)
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected.Group("/auth"))
			pipelineHandler.RegisterRoutes(protected)
			quotationHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
