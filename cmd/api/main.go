package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tutorhub/internal/config"
	"tutorhub/internal/database"
	"tutorhub/internal/middleware"
	"tutorhub/internal/modules/assistant"
	"tutorhub/internal/modules/auth"
	"tutorhub/internal/modules/booking"
	"tutorhub/internal/modules/payment"
	"tutorhub/internal/modules/schedule"
	"tutorhub/internal/modules/tutor"
	jwtsvc "tutorhub/internal/pkg/jwt"
	"tutorhub/internal/repository"
)

func main() {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	sessionRepo := repository.NewPaymentSessionRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, j, auth.NewGoogleVerifier(cfg.GoogleTokenInfoURL, cfg.GoogleClientID))
	authHandler := auth.NewHandler(authService)

	tutorService := tutor.NewService(tutorRepo)
	tutorHandler := tutor.NewHandler(tutorService)

	scheduleService := schedule.NewService(scheduleRepo, tutorRepo)
	scheduleHandler := schedule.NewHandler(scheduleService)

	bookingService := booking.NewService(bookingRepo, scheduleRepo, tutorRepo)
	bookingHandler := booking.NewHandler(bookingService)

	gateway := payment.NewSnapGateway(cfg.GatewayURL, cfg.GatewayServerKey)
	paymentService := payment.NewService(
		sessionRepo,
		bookingRepo,
		bookingRepo,
		gateway,
		cfg.GatewayServerKey,
		cfg.OrderRefPrefix,
		log.Printf,
	)
	paymentHandler := payment.NewHandler(paymentService, log.Printf)

	chatClient := assistant.NewOpenAIClient(cfg.OpenAIURL, cfg.OpenAIKey, cfg.OpenAIModel)
	assistantService := assistant.NewService(tutorRepo, chatClient)
	assistantHandler := assistant.NewHandler(assistantService, log.Printf)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterRoutes(api)
		tutorHandler.RegisterPublicRoutes(api)
		paymentHandler.RegisterPublicRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			tutorHandler.RegisterProtectedRoutes(protected)
			scheduleHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			assistantHandler.RegisterRoutes(protected)
		}
	}

	log.Printf("level=info msg=listening addr=%s env=%s", cfg.ListenAddr, cfg.AppEnv)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
