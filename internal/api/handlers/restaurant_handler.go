package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/api/presenters"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/restaurant"
)

type (
	RestaurantHandler interface {
		SearchRestaurants(c *fiber.Ctx) error
		NearbyRestaurants(c *fiber.Ctx) error
		GetRestaurant(c *fiber.Ctx) error
		RestaurantsServingDish(c *fiber.Ctx) error

		AdminSearchRestaurants(c *fiber.Ctx) error
		AdminGetRestaurant(c *fiber.Ctx) error
		CreateRestaurant(c *fiber.Ctx) error
		UpdateRestaurant(c *fiber.Ctx) error
		DeleteRestaurant(c *fiber.Ctx) error
		RestoreRestaurant(c *fiber.Ctx) error
		AssignDishes(c *fiber.Ctx) error
	}

	restaurantHandler struct {
		restaurantService restaurant.RestaurantService
		validator         *validator.Validate
	}
)

func NewRestaurantHandler(restaurantService restaurant.RestaurantService, validator *validator.Validate) RestaurantHandler {
	return &restaurantHandler{
		restaurantService: restaurantService,
		validator:         validator,
	}
}

func (h *restaurantHandler) parseFilter(c *fiber.Ctx) (*domain.RestaurantFilter, error) {
	filter := new(domain.RestaurantFilter)
	if err := c.QueryParser(filter); err != nil {
		return nil, err
	}
	if err := h.validator.Struct(filter); err != nil {
		return nil, err
	}
	return filter, nil
}

func (h *restaurantHandler) search(c *fiber.Ctx, includeDeleted bool) error {
	filter, err := h.parseFilter(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRestaurants, err)
	}
	filter.IncludeDeleted = includeDeleted

	res, err := h.restaurantService.SearchRestaurants(c.Context(), *filter, parsePagination(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRestaurants, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRestaurants)
}

func (h *restaurantHandler) SearchRestaurants(c *fiber.Ctx) error {
	return h.search(c, false)
}

func (h *restaurantHandler) AdminSearchRestaurants(c *fiber.Ctx) error {
	return h.search(c, c.QueryBool("include_deleted", true))
}

func (h *restaurantHandler) NearbyRestaurants(c *fiber.Ctx) error {
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	if errLng != nil || errLat != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRestaurants, domain.ErrInvalidCoordinates)
	}
	radius, err := strconv.ParseFloat(c.Query("radius", "5000"), 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRestaurants, domain.ErrInvalidRadius)
	}

	filter, err := h.parseFilter(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRestaurants, err)
	}

	res, err := h.restaurantService.FindNearbyRestaurants(c.Context(), domain.NearbyRestaurantsRequest{
		Center:       domain.Location{Longitude: lng, Latitude: lat},
		RadiusMeters: radius,
		Filter:       *filter,
		Page:         parsePagination(c),
	})
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRestaurants, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRestaurants)
}

func (h *restaurantHandler) GetRestaurant(c *fiber.Ctx) error {
	res, err := h.restaurantService.GetRestaurantByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRestaurant, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRestaurant)
}

func (h *restaurantHandler) AdminGetRestaurant(c *fiber.Ctx) error {
	res, err := h.restaurantService.AdminGetRestaurantByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRestaurant, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRestaurant)
}

func (h *restaurantHandler) RestaurantsServingDish(c *fiber.Ctx) error {
	res, err := h.restaurantService.ListRestaurantsServingDish(c.Context(), c.Params("id"), parsePagination(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRestaurants, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRestaurants)
}

func (h *restaurantHandler) CreateRestaurant(c *fiber.Ctx) error {
	req := new(domain.CreateRestaurantRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRestaurant, err)
	}

	res, err := h.restaurantService.CreateRestaurant(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateRestaurant, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRestaurant)
}

func (h *restaurantHandler) UpdateRestaurant(c *fiber.Ctx) error {
	req := new(domain.UpdateRestaurantRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRestaurant, err)
	}

	res, err := h.restaurantService.UpdateRestaurant(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateRestaurant, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRestaurant)
}

func (h *restaurantHandler) DeleteRestaurant(c *fiber.Ctx) error {
	if err := h.restaurantService.SoftDeleteRestaurant(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteRestaurant, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRestaurant)
}

func (h *restaurantHandler) RestoreRestaurant(c *fiber.Ctx) error {
	if err := h.restaurantService.RestoreRestaurant(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRestoreRestaurant, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRestoreRestaurant)
}

func (h *restaurantHandler) AssignDishes(c *fiber.Ctx) error {
	req := new(domain.AssignDishesRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.restaurantService.AssignDishes(c.Context(), c.Params("id"), req.DishIDs)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedAssignDishes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAssignDishes)
}
