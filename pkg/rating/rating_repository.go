package rating

import (
	"context"

	"gorm.io/gorm"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
)

type (
	// Stats is the raw aggregate over visible reviews, before rounding.
	Stats struct {
		Average float64
		Count   int64
	}

	RatingRepository interface {
		DishStats(ctx context.Context, dishID string) (Stats, error)
		RestaurantStats(ctx context.Context, restaurantID string) (Stats, error)
		SetDishRating(ctx context.Context, dishID string, average float64, count int) error
		SetRestaurantRating(ctx context.Context, restaurantID string, average float64, count int) error
		ListDishIDs(ctx context.Context) ([]string, error)
		ListRestaurantIDs(ctx context.Context) ([]string, error)
	}

	ratingRepository struct {
		db *gorm.DB
	}
)

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

const statsColumns = "COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count"

func (r *ratingRepository) DishStats(ctx context.Context, dishID string) (Stats, error) {
	var stats Stats
	err := r.db.WithContext(ctx).
		Scopes(entities.ReviewsOfDish(dishID)).
		Select(statsColumns).
		Scan(&stats).Error
	return stats, err
}

func (r *ratingRepository) RestaurantStats(ctx context.Context, restaurantID string) (Stats, error) {
	var stats Stats
	err := r.db.WithContext(ctx).
		Scopes(entities.ReviewsOfRestaurant(restaurantID)).
		Select(statsColumns).
		Scan(&stats).Error
	return stats, err
}

// SetDishRating writes both aggregate columns in one statement. Soft-deleted
// dishes are updated too so a restore shows current values.
func (r *ratingRepository) SetDishRating(ctx context.Context, dishID string, average float64, count int) error {
	res := r.db.WithContext(ctx).Unscoped().
		Model(&entities.Dish{}).
		Where("id = ?", dishID).
		UpdateColumns(map[string]interface{}{
			"average_rating": average,
			"review_count":   count,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDishNotFound
	}
	return nil
}

func (r *ratingRepository) SetRestaurantRating(ctx context.Context, restaurantID string, average float64, count int) error {
	res := r.db.WithContext(ctx).Unscoped().
		Model(&entities.Restaurant{}).
		Where("id = ?", restaurantID).
		UpdateColumns(map[string]interface{}{
			"average_rating": average,
			"review_count":   count,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}

func (r *ratingRepository) ListDishIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Unscoped().Model(&entities.Dish{}).Pluck("id", &ids).Error
	return ids, err
}

func (r *ratingRepository) ListRestaurantIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Unscoped().Model(&entities.Restaurant{}).Pluck("id", &ids).Error
	return ids, err
}
