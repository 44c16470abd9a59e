package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bikerental/internal/config"
	"bikerental/internal/database"
	"bikerental/internal/middleware"
	"bikerental/internal/modules/auth"
	"bikerental/internal/modules/booking"
	"bikerental/internal/modules/catalog"
	"bikerental/internal/modules/events"
	"bikerental/internal/modules/inventory"
	"bikerental/internal/modules/review"
	"bikerental/internal/pkg/jwt"
	"bikerental/internal/pkg/keylock"
	"bikerental/internal/repository"
)

func main() {
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
	shopRepo := repository.NewShopRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	j := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	// One lock map for every mutating operation that touches a vehicle's
	// inventory, shared across services.
	locks := keylock.New(cfg.LockWait)

	hub := events.NewHub()
	defer hub.Close()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(shopRepo, vehicleRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, vehicleRepo, shopRepo, events.NewSink(hub), locks)
	bookingHandler := booking.NewHandler(bookingService)

	inventoryService := inventory.NewService(inventoryRepo, vehicleRepo, shopRepo, bookingRepo, locks)
	inventoryHandler := inventory.NewHandler(inventoryService)

	reviewService := review.NewService(reviewRepo, shopRepo)
	reviewHandler := review.NewHandler(reviewService)

	eventsHandler := events.NewHandler(hub)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		reviewHandler.RegisterRoutes(v1)
		inventoryHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterProtectedRoutes(protected)
			reviewHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			inventoryHandler.RegisterProtectedRoutes(protected)
			eventsHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
