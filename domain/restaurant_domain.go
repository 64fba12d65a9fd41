package domain

import "time"

var (
	MessageSuccessCreateRestaurant  = "restaurant created successfully"
	MessageSuccessUpdateRestaurant  = "restaurant updated successfully"
	MessageSuccessGetRestaurants    = "restaurants retrieved successfully"
	MessageSuccessGetRestaurant     = "restaurant retrieved successfully"
	MessageSuccessDeleteRestaurant  = "restaurant deleted successfully"
	MessageSuccessRestoreRestaurant = "restaurant restored successfully"
	MessageSuccessAssignDishes      = "dishes assigned successfully"

	MessageFailedCreateRestaurant  = "failed to create restaurant"
	MessageFailedUpdateRestaurant  = "failed to update restaurant"
	MessageFailedGetRestaurants    = "failed to retrieve restaurants"
	MessageFailedGetRestaurant     = "failed to retrieve restaurant"
	MessageFailedDeleteRestaurant  = "failed to delete restaurant"
	MessageFailedRestoreRestaurant = "failed to restore restaurant"
	MessageFailedAssignDishes      = "failed to assign dishes"

	ErrRestaurantNotFound       = NewError(ErrNotFound, "restaurant not found")
	ErrRestaurantAlreadyDeleted = NewError(ErrConflict, "restaurant is already deleted")
	ErrRestaurantNotDeleted     = NewError(ErrConflict, "restaurant is not deleted")
	ErrInvalidLocation          = NewError(ErrValidation, "longitude must be within [-180, 180] and latitude within [-90, 90]")
	ErrInvalidRadius            = NewError(ErrValidation, "radius must be a positive number of meters")
	ErrInvalidCoordinates       = NewError(ErrValidation, "invalid coordinates")
)

type (
	Location struct {
		Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
		Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	}

	CreateRestaurantRequest struct {
		Name     string   `json:"name" validate:"required,max=200"`
		Address  string   `json:"address" validate:"required"`
		Location Location `json:"location" validate:"required"`
		Phone    string   `json:"phone" validate:"omitempty,max=30"`
		Website  string   `json:"website" validate:"omitempty,url"`
		Images   []string `json:"images" validate:"omitempty,dive,url"`
		DishIDs  []string `json:"dish_ids" validate:"omitempty,dive,uuid"`
	}

	UpdateRestaurantRequest struct {
		Name     *string   `json:"name" validate:"omitempty,min=1,max=200"`
		Address  *string   `json:"address" validate:"omitempty,min=1"`
		Location *Location `json:"location" validate:"omitempty"`
		Phone    *string   `json:"phone" validate:"omitempty,max=30"`
		Website  *string   `json:"website" validate:"omitempty,url"`
		Images   *[]string `json:"images" validate:"omitempty,dive,url"`
	}

	AssignDishesRequest struct {
		DishIDs []string `json:"dish_ids" validate:"dive,uuid"`
	}

	RestaurantFilter struct {
		Category       string  `query:"category"`
		Query          string  `query:"q"`
		MinRating      float64 `query:"min_rating" validate:"min=0,max=5"`
		MaxRating      float64 `query:"max_rating" validate:"min=0,max=5"`
		Sort           string  `query:"sort" validate:"omitempty,oneof=rating_desc rating_asc name_asc newest"`
		IncludeDeleted bool    `query:"-"`
	}

	NearbyRestaurantsRequest struct {
		Center       Location `validate:"required"`
		RadiusMeters float64  `validate:"gt=0"`
		Filter       RestaurantFilter
		Page         PaginationRequest
	}

	RestaurantResponse struct {
		ID            string         `json:"id"`
		Name          string         `json:"name"`
		Address       string         `json:"address"`
		Location      Location       `json:"location"`
		Phone         string         `json:"phone,omitempty"`
		Website       string         `json:"website,omitempty"`
		Images        []string       `json:"images"`
		AverageRating float64        `json:"average_rating"`
		ReviewCount   int            `json:"review_count"`
		Dishes        []DishResponse `json:"dishes,omitempty"`
		Status        string         `json:"status,omitempty"`
		DeletedAt     *time.Time     `json:"deleted_at,omitempty"`
		CreatedAt     time.Time      `json:"created_at"`
		UpdatedAt     time.Time      `json:"updated_at"`
	}

	RestaurantListResponse struct {
		Restaurants []RestaurantResponse `json:"restaurants"`
		Pagination  PaginationResponse   `json:"pagination"`
	}
)
