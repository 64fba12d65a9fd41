package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/api/handlers"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/middleware"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/jwt"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	DishHandler       handlers.DishHandler
	RestaurantHandler handlers.RestaurantHandler
	ReviewHandler     handlers.ReviewHandler
	FavoriteHandler   handlers.FavoriteHandler
	AdminHandler      handlers.AdminHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Dishes()
	c.Restaurants()
	c.Reviews()
	c.Favorites()
	c.Admin()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Dishes() {
	dishes := c.App.Group("/api/v1/dishes")
	dishes.Get("", c.DishHandler.GetDishes)
	dishes.Get("/:id", c.DishHandler.GetDish)
	dishes.Get("/:id/reviews", c.ReviewHandler.GetDishReviews)
	dishes.Get("/:id/restaurants", c.RestaurantHandler.RestaurantsServingDish)
	dishes.Post("/:id/reviews", c.Middleware.AuthMiddleware(c.JWTService), c.ReviewHandler.CreateReview)
}

func (c *Config) Restaurants() {
	restaurants := c.App.Group("/api/v1/restaurants")
	restaurants.Get("", c.RestaurantHandler.SearchRestaurants)
	restaurants.Get("/nearby", c.RestaurantHandler.NearbyRestaurants)
	restaurants.Get("/:id", c.RestaurantHandler.GetRestaurant)
	restaurants.Get("/:id/reviews", c.ReviewHandler.GetRestaurantReviews)
	restaurants.Post("/:id/reviews", c.Middleware.AuthMiddleware(c.JWTService), c.ReviewHandler.CreateRestaurantReview)
}

func (c *Config) Reviews() {
	reviews := c.App.Group("/api/v1/reviews", c.Middleware.AuthMiddleware(c.JWTService))
	reviews.Post("", c.ReviewHandler.CreateReview)
	reviews.Post("/restaurants", c.ReviewHandler.CreateRestaurantReview)
	reviews.Put("/:id", c.ReviewHandler.UpdateReview)
	reviews.Delete("/:id", c.ReviewHandler.DeleteReview)
}

func (c *Config) Favorites() {
	favorites := c.App.Group("/api/v1/favorites", c.Middleware.AuthMiddleware(c.JWTService))
	favorites.Get("", c.FavoriteHandler.GetFavorites)
	favorites.Get("/:dish_id", c.FavoriteHandler.CheckFavorite)
	favorites.Post("/:dish_id", c.FavoriteHandler.AddFavorite)
	favorites.Delete("/:dish_id", c.FavoriteHandler.RemoveFavorite)
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/v1/admin", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.AdminOnly())

	dishes := admin.Group("/dishes")
	dishes.Get("", c.DishHandler.AdminGetDishes)
	dishes.Post("", c.DishHandler.CreateDish)
	dishes.Get("/:id", c.DishHandler.AdminGetDish)
	dishes.Put("/:id", c.DishHandler.UpdateDish)
	dishes.Delete("/:id", c.DishHandler.DeleteDish)
	dishes.Post("/:id/restore", c.DishHandler.RestoreDish)
	dishes.Get("/:id/history", c.DishHandler.GetDishHistory)
	dishes.Post("/:id/revert", c.DishHandler.RevertDish)
	dishes.Post("/:id/image", c.DishHandler.UploadDishImage)

	restaurants := admin.Group("/restaurants")
	restaurants.Get("", c.RestaurantHandler.AdminSearchRestaurants)
	restaurants.Post("", c.RestaurantHandler.CreateRestaurant)
	restaurants.Get("/:id", c.RestaurantHandler.AdminGetRestaurant)
	restaurants.Put("/:id", c.RestaurantHandler.UpdateRestaurant)
	restaurants.Delete("/:id", c.RestaurantHandler.DeleteRestaurant)
	restaurants.Post("/:id/restore", c.RestaurantHandler.RestoreRestaurant)
	restaurants.Put("/:id/dishes", c.RestaurantHandler.AssignDishes)

	admin.Delete("/reviews/:id", c.ReviewHandler.AdminDeleteReview)
	admin.Post("/ratings/reconcile", c.AdminHandler.ReconcileRatings)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
