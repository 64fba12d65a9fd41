package favorite

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
)

type (
	FavoriteRepository interface {
		AddFavorite(ctx context.Context, favorite *entities.Favorite) error
		RemoveFavorite(ctx context.Context, userID, dishID string) error
		IsFavorite(ctx context.Context, userID, dishID string) (bool, error)
		ListFavorites(ctx context.Context, userID string, page domain.PaginationRequest) ([]*entities.Favorite, int64, error)
	}

	favoriteRepository struct {
		db *gorm.DB
	}
)

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) AddFavorite(ctx context.Context, favorite *entities.Favorite) error {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyFavorited
		}
		return err
	}
	return nil
}

func (r *favoriteRepository) RemoveFavorite(ctx context.Context, userID, dishID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND dish_id = ?", userID, dishID).
		Delete(&entities.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (r *favoriteRepository) IsFavorite(ctx context.Context, userID, dishID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Where("user_id = ? AND dish_id = ?", userID, dishID).
		Count(&count).Error
	return count > 0, err
}

// ListFavorites filters on active dishes before counting and paging, so
// totals never include edges to soft-deleted dishes.
func (r *favoriteRepository) ListFavorites(ctx context.Context, userID string, page domain.PaginationRequest) ([]*entities.Favorite, int64, error) {
	var favorites []*entities.Favorite
	var count int64

	query := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Joins("JOIN dishes ON dishes.id = favorites.dish_id AND dishes.deleted_at IS NULL").
		Where("favorites.user_id = ?", userID)

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Dish").
		Order("favorites.added_at DESC, favorites.dish_id").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&favorites).Error; err != nil {
		return nil, 0, err
	}

	return favorites, count, nil
}
