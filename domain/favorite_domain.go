package domain

import "time"

var (
	MessageSuccessAddFavorite    = "dish added to favorites"
	MessageSuccessRemoveFavorite = "dish removed from favorites"
	MessageSuccessGetFavorites   = "favorites retrieved successfully"

	MessageFailedAddFavorite    = "failed to add favorite"
	MessageFailedRemoveFavorite = "failed to remove favorite"
	MessageFailedGetFavorites   = "failed to retrieve favorites"

	ErrAlreadyFavorited = NewError(ErrConflict, "dish is already in favorites")
	ErrFavoriteNotFound = NewError(ErrNotFound, "favorite not found")
)

type (
	FavoriteRequest struct {
		DishID string `json:"dish_id" validate:"required,uuid"`
	}

	FavoriteResponse struct {
		Dish    DishResponse `json:"dish"`
		AddedAt time.Time    `json:"added_at"`
	}

	FavoriteListResponse struct {
		Favorites  []FavoriteResponse `json:"favorites"`
		Pagination PaginationResponse `json:"pagination"`
	}
)
