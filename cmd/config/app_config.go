package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/api/handlers"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/api/routes"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/middleware"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/events"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/mailing"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/storage"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/dish"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/favorite"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/jwt"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/rating"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/restaurant"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/review"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/user"
)

// NewPublisher falls back to a no-op publisher when redis is not configured
// or unreachable.
func NewPublisher(log *logger.Logger) events.Publisher {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return events.NewNopPublisher()
	}
	pub, err := events.NewRedisPublisher(log, addr, utils.GetConfig("REDIS_CHANNEL"))
	if err != nil {
		log.Warn("redis unavailable, catalog events disabled", "addr", addr, "error", err)
		return events.NewNopPublisher()
	}
	return pub
}

func NewRatingAggregator(db *gorm.DB, publisher events.Publisher, log *logger.Logger) rating.Aggregator {
	return rating.NewAggregator(
		rating.NewRatingRepository(db),
		mailing.NewAlertMailer(log),
		publisher,
		log,
		utils.RatingRecomputeAttempts(),
	)
}

func NewApp(db *gorm.DB, log *logger.Logger) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: utils.GetConfig("APP_ENV") != "production",
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, err
	}
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Ho_Chi_Minh",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	publisher := NewPublisher(log)
	app.Hooks().OnShutdown(func() error {
		_ = file.Close()
		return publisher.Close()
	})

	// Repository
	userRepository := user.NewUserRepository(db)
	dishRepository := dish.NewDishRepository(db)
	restaurantRepository := restaurant.NewRestaurantRepository(db)
	reviewRepository := review.NewReviewRepository(db)
	favoriteRepository := favorite.NewFavoriteRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	aggregator := NewRatingAggregator(db, publisher, log)
	userService := user.NewUserService(userRepository, jwtService)
	dishService := dish.NewDishService(dishRepository, s3, publisher, log)
	restaurantService := restaurant.NewRestaurantService(restaurantRepository, dishRepository, publisher, log)
	reviewService := review.NewReviewService(reviewRepository, dishRepository, restaurantRepository, aggregator, log)
	favoriteService := favorite.NewFavoriteService(favoriteRepository, dishRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	dishHandler := handlers.NewDishHandler(dishService, validator)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, validator)
	reviewHandler := handlers.NewReviewHandler(reviewService, validator)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService, validator)
	adminHandler := handlers.NewAdminHandler(aggregator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		DishHandler:       dishHandler,
		RestaurantHandler: restaurantHandler,
		ReviewHandler:     reviewHandler,
		FavoriteHandler:   favoriteHandler,
		AdminHandler:      adminHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
