package domain

import (
	"mime/multipart"
	"time"
)

var (
	MessageSuccessCreateDish     = "dish created successfully"
	MessageSuccessUpdateDish     = "dish updated successfully"
	MessageSuccessGetDishes      = "dishes retrieved successfully"
	MessageSuccessGetDish        = "dish retrieved successfully"
	MessageSuccessDeleteDish     = "dish deleted successfully"
	MessageSuccessRestoreDish    = "dish restored successfully"
	MessageSuccessGetDishHistory = "dish history retrieved successfully"
	MessageSuccessRevertDish     = "dish reverted successfully"
	MessageSuccessUploadImage    = "image uploaded successfully"

	MessageFailedCreateDish     = "failed to create dish"
	MessageFailedUpdateDish     = "failed to update dish"
	MessageFailedGetDishes      = "failed to retrieve dishes"
	MessageFailedGetDish        = "failed to retrieve dish"
	MessageFailedDeleteDish     = "failed to delete dish"
	MessageFailedRestoreDish    = "failed to restore dish"
	MessageFailedGetDishHistory = "failed to retrieve dish history"
	MessageFailedRevertDish     = "failed to revert dish"
	MessageFailedUploadImage    = "failed to upload image"

	ErrDishNotFound        = NewError(ErrNotFound, "dish not found")
	ErrVersionNotFound     = NewError(ErrNotFound, "version not found")
	ErrDishAlreadyDeleted  = NewError(ErrConflict, "dish is already deleted")
	ErrDishNotDeleted      = NewError(ErrConflict, "dish is not deleted")
	ErrInvalidPriceRange   = NewError(ErrValidation, "price range minimum exceeds maximum")
	ErrInvalidCookingTime  = NewError(ErrValidation, "cooking time must not be negative")
	ErrDishNameRequired    = NewError(ErrValidation, "dish name is required")
	ErrInvalidRatingFilter = NewError(ErrValidation, "rating filter must be between 0 and 5")
)

const (
	SortRatingDesc = "rating_desc"
	SortRatingAsc  = "rating_asc"
	SortNameAsc    = "name_asc"
	SortNewest     = "newest"
)

type (
	LocalizedText struct {
		Vi string `json:"vi" validate:"max=200"`
		Ja string `json:"ja" validate:"max=200"`
	}

	LocalizedDescription struct {
		Vi string `json:"vi" validate:"max=5000"`
		Ja string `json:"ja" validate:"max=5000"`
	}

	PriceRange struct {
		Min int `json:"min" validate:"min=0"`
		Max int `json:"max" validate:"min=0"`
	}

	CreateDishRequest struct {
		Name        LocalizedText        `json:"name" validate:"required"`
		Description LocalizedDescription `json:"description"`
		Images      []string             `json:"images" validate:"omitempty,dive,url"`
		Ingredients []string             `json:"ingredients" validate:"omitempty,dive,required"`
		Category    string               `json:"category" validate:"required"`
		Region      string               `json:"region" validate:"omitempty"`
		CookingTime int                  `json:"cooking_time" validate:"min=0"`
		PriceRange  PriceRange           `json:"price_range"`
	}

	// UpdateDishRequest carries partial changes; nil fields are left untouched.
	UpdateDishRequest struct {
		Name        *LocalizedText        `json:"name" validate:"omitempty"`
		Description *LocalizedDescription `json:"description" validate:"omitempty"`
		Images      *[]string             `json:"images" validate:"omitempty,dive,url"`
		Ingredients *[]string             `json:"ingredients" validate:"omitempty,dive,required"`
		Category    *string               `json:"category" validate:"omitempty,min=1"`
		Region      *string               `json:"region"`
		CookingTime *int                  `json:"cooking_time" validate:"omitempty,min=0"`
		PriceRange  *PriceRange           `json:"price_range" validate:"omitempty"`
	}

	RevertDishRequest struct {
		Version int `json:"version" validate:"required,min=1"`
	}

	UploadDishImageRequest struct {
		DishID string                `json:"dish_id" form:"dish_id" validate:"required,uuid"`
		Image  *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	DishFilter struct {
		Category       string  `query:"category"`
		Region         string  `query:"region"`
		Query          string  `query:"q"`
		MinRating      float64 `query:"min_rating" validate:"min=0,max=5"`
		MaxRating      float64 `query:"max_rating" validate:"min=0,max=5"`
		Sort           string  `query:"sort" validate:"omitempty,oneof=rating_desc rating_asc name_asc newest"`
		IncludeDeleted bool    `query:"-"`
	}

	DishResponse struct {
		ID            string               `json:"id"`
		Name          LocalizedText        `json:"name"`
		Description   LocalizedDescription `json:"description"`
		Images        []string             `json:"images"`
		Ingredients   []string             `json:"ingredients"`
		Category      string               `json:"category"`
		Region        string               `json:"region"`
		CookingTime   int                  `json:"cooking_time"`
		PriceRange    PriceRange           `json:"price_range"`
		AverageRating float64              `json:"average_rating"`
		ReviewCount   int                  `json:"review_count"`
		Version       int                  `json:"version"`
		Status        string               `json:"status,omitempty"`
		DeletedAt     *time.Time           `json:"deleted_at,omitempty"`
		CreatedAt     time.Time            `json:"created_at"`
		UpdatedAt     time.Time            `json:"updated_at"`
	}

	DishVersionResponse struct {
		Version    int          `json:"version"`
		Data       DishSnapshot `json:"data"`
		ModifiedBy string       `json:"modified_by"`
		ModifiedAt time.Time    `json:"modified_at"`
	}

	DishSnapshot struct {
		Name        LocalizedText        `json:"name"`
		Description LocalizedDescription `json:"description"`
		Images      []string             `json:"images"`
		Ingredients []string             `json:"ingredients"`
		Category    string               `json:"category"`
		Region      string               `json:"region"`
		CookingTime int                  `json:"cooking_time"`
		PriceRange  PriceRange           `json:"price_range"`
	}

	DishHistoryResponse struct {
		DishID         string                `json:"dish_id"`
		CurrentVersion int                   `json:"current_version"`
		History        []DishVersionResponse `json:"history"`
	}

	DishListResponse struct {
		Dishes     []DishResponse     `json:"dishes"`
		Pagination PaginationResponse `json:"pagination"`
	}
)
