package domain

import "time"

const MaxCommentLength = 1000

var (
	MessageSuccessCreateReview = "review created successfully"
	MessageSuccessUpdateReview = "review updated successfully"
	MessageSuccessDeleteReview = "review deleted successfully"
	MessageSuccessGetReviews   = "reviews retrieved successfully"
	MessageSuccessReconcile    = "rating aggregates reconciled"

	MessageFailedCreateReview = "failed to create review"
	MessageFailedUpdateReview = "failed to update review"
	MessageFailedDeleteReview = "failed to delete review"
	MessageFailedGetReviews   = "failed to retrieve reviews"
	MessageFailedReconcile    = "failed to reconcile rating aggregates"

	ErrReviewNotFound       = NewError(ErrNotFound, "review not found")
	ErrDuplicateReview      = NewError(ErrConflict, "user has already reviewed this item")
	ErrInvalidRating        = NewError(ErrValidation, "rating must be an integer between 1 and 5")
	ErrCommentTooLong       = NewError(ErrValidation, "comment must be at most 1000 characters")
	ErrNotReviewAuthor      = NewError(ErrForbidden, "only the author can modify this review")
	ErrEmptyReviewChange    = NewError(ErrValidation, "no review changes supplied")
	ErrReviewTargetRequired = NewError(ErrValidation, "review must target a dish or a restaurant")
)

type (
	CreateReviewRequest struct {
		DishID  string `json:"dish_id" validate:"required,uuid"`
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment" validate:"max=1000"`
	}

	CreateRestaurantReviewRequest struct {
		RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
		Rating       int    `json:"rating" validate:"required,min=1,max=5"`
		Comment      string `json:"comment" validate:"max=1000"`
	}

	UpdateReviewRequest struct {
		Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
		Comment *string `json:"comment" validate:"omitempty,max=1000"`
	}

	ReviewResponse struct {
		ID           string    `json:"id"`
		UserID       string    `json:"user_id"`
		UserName     string    `json:"user_name,omitempty"`
		DishID       string    `json:"dish_id,omitempty"`
		RestaurantID string    `json:"restaurant_id,omitempty"`
		Rating       int       `json:"rating"`
		Comment      string    `json:"comment,omitempty"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	ReviewListResponse struct {
		Reviews    []ReviewResponse   `json:"reviews"`
		Pagination PaginationResponse `json:"pagination"`
	}

	RatingSummary struct {
		AverageRating float64 `json:"average_rating"`
		ReviewCount   int     `json:"review_count"`
	}

	ReconcileResult struct {
		Dishes      int `json:"dishes"`
		Restaurants int `json:"restaurants"`
		Failed      int `json:"failed"`
	}
)
