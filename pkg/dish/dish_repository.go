package dish

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
)

type (
	// Mutation edits a locked dish in place. Returning an error aborts the
	// surrounding transaction.
	Mutation func(dish *entities.Dish) error

	DishRepository interface {
		CreateDish(ctx context.Context, dish *entities.Dish) error
		GetDishByID(ctx context.Context, id string, includeDeleted bool) (*entities.Dish, error)
		GetDishes(ctx context.Context, filter domain.DishFilter, page domain.PaginationRequest) ([]*entities.Dish, int64, error)
		ModifyDish(ctx context.Context, id string, actor string, mutate Mutation) (*entities.Dish, error)
		SoftDeleteDish(ctx context.Context, id string) error
		RestoreDish(ctx context.Context, id string) error
	}

	dishRepository struct {
		db *gorm.DB
	}
)

func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

var dishOrder = map[string]string{
	domain.SortRatingDesc: "average_rating DESC, review_count DESC, id",
	domain.SortRatingAsc:  "average_rating ASC, review_count ASC, id",
	domain.SortNameAsc:    "name_vi ASC, id",
	domain.SortNewest:     "created_at DESC, id",
}

func (r *dishRepository) CreateDish(ctx context.Context, dish *entities.Dish) error {
	return r.db.WithContext(ctx).Create(dish).Error
}

func (r *dishRepository) GetDishByID(ctx context.Context, id string, includeDeleted bool) (*entities.Dish, error) {
	var dish entities.Dish
	query := r.db.WithContext(ctx)
	if includeDeleted {
		query = query.Unscoped()
	}
	if err := query.Where("id = ?", id).First(&dish).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDishNotFound
		}
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) GetDishes(ctx context.Context, filter domain.DishFilter, page domain.PaginationRequest) ([]*entities.Dish, int64, error) {
	var dishes []*entities.Dish
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Dish{})
	if filter.IncludeDeleted {
		query = query.Unscoped()
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name_vi) LIKE ? OR LOWER(name_ja) LIKE ?", like, like)
	}
	if filter.MinRating > 0 {
		query = query.Where("average_rating >= ?", filter.MinRating)
	}
	if filter.MaxRating > 0 {
		query = query.Where("average_rating <= ?", filter.MaxRating)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	order, ok := dishOrder[filter.Sort]
	if !ok {
		order = dishOrder[domain.SortRatingDesc]
	}
	if err := query.Order(order).Offset(page.Offset()).Limit(page.Limit).Find(&dishes).Error; err != nil {
		return nil, 0, err
	}

	return dishes, count, nil
}

// ModifyDish is the only place dish history grows. Inside one transaction it
// locks the live row, appends a snapshot of the current content as the next
// version, lets mutate edit the dish and writes the content columns back.
// Rating aggregates are never part of the write.
func (r *dishRepository) ModifyDish(ctx context.Context, id string, actor string, mutate Mutation) (*entities.Dish, error) {
	var dish entities.Dish

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&dish).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDishNotFound
			}
			return err
		}

		version := entities.DishVersion{
			Version:    len(dish.History) + 1,
			Data:       dish.Snapshot(),
			ModifiedBy: actor,
			ModifiedAt: time.Now().UTC(),
		}

		if err := mutate(&dish); err != nil {
			return err
		}
		dish.History = append(dish.History, version)

		return tx.Model(&dish).Select(entities.DishContentColumns).Updates(&dish).Error
	})
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) SoftDeleteDish(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Dish{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	return r.transitionFailure(ctx, id, domain.ErrDishAlreadyDeleted)
}

func (r *dishRepository) RestoreDish(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().
		Model(&entities.Dish{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		UpdateColumn("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	return r.transitionFailure(ctx, id, domain.ErrDishNotDeleted)
}

// transitionFailure tells a missing dish apart from one already in the
// target state after a conditional update touched no rows.
func (r *dishRepository) transitionFailure(ctx context.Context, id string, conflict error) error {
	var count int64
	if err := r.db.WithContext(ctx).Unscoped().
		Model(&entities.Dish{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrDishNotFound
	}
	return conflict
}
