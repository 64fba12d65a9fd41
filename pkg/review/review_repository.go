package review

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
)

type (
	ReviewRepository interface {
		CreateReview(ctx context.Context, review *entities.Review) error
		GetReviewByID(ctx context.Context, id string) (*entities.Review, error)
		HasDishReview(ctx context.Context, userID, dishID string) (bool, error)
		HasRestaurantReview(ctx context.Context, userID, restaurantID string) (bool, error)
		UpdateReview(ctx context.Context, review *entities.Review) error
		SoftDeleteReview(ctx context.Context, id string) error
		HardDeleteReview(ctx context.Context, id string) (*entities.Review, error)
		ListDishReviews(ctx context.Context, dishID string, page domain.PaginationRequest) ([]*entities.Review, int64, error)
		ListRestaurantReviews(ctx context.Context, restaurantID string, page domain.PaginationRequest) ([]*entities.Review, int64, error)
	}

	reviewRepository struct {
		db *gorm.DB
	}
)

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *entities.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateReview
		}
		return err
	}
	return nil
}

func (r *reviewRepository) GetReviewByID(ctx context.Context, id string) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) HasDishReview(ctx context.Context, userID, dishID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Scopes(entities.ReviewsOfDish(dishID)).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) HasRestaurantReview(ctx context.Context, userID, restaurantID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Scopes(entities.ReviewsOfRestaurant(restaurantID)).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) UpdateReview(ctx context.Context, review *entities.Review) error {
	res := r.db.WithContext(ctx).
		Model(review).
		Select("rating", "comment", "updated_at").
		Updates(review)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) SoftDeleteReview(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// HardDeleteReview removes the row whether or not it was soft-deleted and
// returns it so the caller knows which aggregate to refresh.
func (r *reviewRepository) HardDeleteReview(ctx context.Context, id string) (*entities.Review, error) {
	var review entities.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("id = ?", id).First(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReviewNotFound
			}
			return err
		}
		return tx.Unscoped().Delete(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListDishReviews(ctx context.Context, dishID string, page domain.PaginationRequest) ([]*entities.Review, int64, error) {
	return r.list(ctx, entities.ReviewsOfDish(dishID), page)
}

func (r *reviewRepository) ListRestaurantReviews(ctx context.Context, restaurantID string, page domain.PaginationRequest) ([]*entities.Review, int64, error) {
	return r.list(ctx, entities.ReviewsOfRestaurant(restaurantID), page)
}

func (r *reviewRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page domain.PaginationRequest) ([]*entities.Review, int64, error) {
	var reviews []*entities.Review
	var count int64

	if err := r.db.WithContext(ctx).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("User").
		Order("created_at DESC, id").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, count, nil
}
