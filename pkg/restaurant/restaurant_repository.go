package restaurant

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/geo"
)

type (
	RestaurantRepository interface {
		CreateRestaurant(ctx context.Context, restaurant *entities.Restaurant, dishIDs []string) error
		GetRestaurantByID(ctx context.Context, id string, includeDeleted bool) (*entities.Restaurant, error)
		UpdateRestaurant(ctx context.Context, restaurant *entities.Restaurant) error
		SoftDeleteRestaurant(ctx context.Context, id string) error
		RestoreRestaurant(ctx context.Context, id string) error
		AssignDishes(ctx context.Context, restaurantID string, dishIDs []string) error
		GetRestaurantDishes(ctx context.Context, restaurantID string) ([]*entities.Dish, error)
		SearchRestaurants(ctx context.Context, filter domain.RestaurantFilter, page domain.PaginationRequest) ([]*entities.Restaurant, int64, error)
		FindInBox(ctx context.Context, box geo.Box, filter domain.RestaurantFilter) ([]*entities.Restaurant, error)
		ListRestaurantsServingDish(ctx context.Context, dishID string, page domain.PaginationRequest) ([]*entities.Restaurant, int64, error)
	}

	restaurantRepository struct {
		db *gorm.DB
	}
)

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

var restaurantOrder = map[string]string{
	domain.SortRatingDesc: "average_rating DESC, review_count DESC, id",
	domain.SortRatingAsc:  "average_rating ASC, review_count ASC, id",
	domain.SortNameAsc:    "name ASC, id",
	domain.SortNewest:     "created_at DESC, id",
}

// restaurantContentColumns excludes the rating aggregates, which only the
// rating aggregator writes.
var restaurantContentColumns = []string{
	"name", "address", "location_longitude", "location_latitude",
	"phone", "website", "images", "updated_at",
}

func orderFor(sort string) string {
	if order, ok := restaurantOrder[sort]; ok {
		return order
	}
	return restaurantOrder[domain.SortRatingDesc]
}

func (r *restaurantRepository) CreateRestaurant(ctx context.Context, restaurant *entities.Restaurant, dishIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(restaurant).Error; err != nil {
			return err
		}
		if len(dishIDs) == 0 {
			return nil
		}
		return replaceAssignment(tx, restaurant.ID, dishIDs)
	})
}

func (r *restaurantRepository) GetRestaurantByID(ctx context.Context, id string, includeDeleted bool) (*entities.Restaurant, error) {
	var restaurant entities.Restaurant
	query := r.db.WithContext(ctx)
	if includeDeleted {
		query = query.Unscoped()
	}
	if err := query.Where("id = ?", id).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) UpdateRestaurant(ctx context.Context, restaurant *entities.Restaurant) error {
	res := r.db.WithContext(ctx).
		Model(restaurant).
		Select(restaurantContentColumns).
		Updates(restaurant)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}

func (r *restaurantRepository) SoftDeleteRestaurant(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Restaurant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	return r.transitionFailure(ctx, id, domain.ErrRestaurantAlreadyDeleted)
}

func (r *restaurantRepository) RestoreRestaurant(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().
		Model(&entities.Restaurant{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		UpdateColumn("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	return r.transitionFailure(ctx, id, domain.ErrRestaurantNotDeleted)
}

func (r *restaurantRepository) transitionFailure(ctx context.Context, id string, conflict error) error {
	var count int64
	if err := r.db.WithContext(ctx).Unscoped().
		Model(&entities.Restaurant{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrRestaurantNotFound
	}
	return conflict
}

// AssignDishes replaces the dish set of an active restaurant. Either every id
// names an active dish and the whole set is written, or nothing changes.
func (r *restaurantRepository) AssignDishes(ctx context.Context, restaurantID string, dishIDs []string) error {
	rid, err := uuid.Parse(restaurantID)
	if err != nil {
		return domain.ErrRestaurantNotFound
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant entities.Restaurant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", rid).
			First(&restaurant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRestaurantNotFound
			}
			return err
		}
		return replaceAssignment(tx, rid, dishIDs)
	})
}

func replaceAssignment(tx *gorm.DB, restaurantID uuid.UUID, dishIDs []string) error {
	ids, invalid := normalizeIDs(dishIDs)

	active := map[string]bool{}
	if len(ids) > 0 {
		var found []entities.Dish
		// share-lock the dishes so a concurrent soft delete waits for this assignment
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id").
			Where("id IN ?", ids).
			Find(&found).Error; err != nil {
			return err
		}
		for _, d := range found {
			active[d.ID.String()] = true
		}
	}

	var offending []string
	for _, raw := range dishIDs {
		if invalid[raw] {
			offending = append(offending, raw)
			delete(invalid, raw)
		}
	}
	for _, id := range ids {
		if !active[id] {
			offending = append(offending, id)
		}
	}
	if len(offending) > 0 {
		return &domain.InactiveDishesError{IDs: offending}
	}

	if err := tx.Where("restaurant_id = ?", restaurantID).Delete(&entities.RestaurantDish{}).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]entities.RestaurantDish, 0, len(ids))
	for i, id := range ids {
		rows = append(rows, entities.RestaurantDish{
			RestaurantID: restaurantID,
			DishID:       uuid.MustParse(id),
			Position:     i,
		})
	}
	return tx.Create(&rows).Error
}

// normalizeIDs collapses duplicates keeping the first occurrence. Strings that
// are not uuids are returned separately.
func normalizeIDs(raw []string) ([]string, map[string]bool) {
	seen := map[string]bool{}
	invalid := map[string]bool{}
	ids := make([]string, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			invalid[s] = true
			continue
		}
		key := id.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		ids = append(ids, key)
	}
	return ids, invalid
}

// GetRestaurantDishes resolves the stored references in position order and
// drops any that no longer point to an active dish.
func (r *restaurantRepository) GetRestaurantDishes(ctx context.Context, restaurantID string) ([]*entities.Dish, error) {
	var refs []entities.RestaurantDish
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("position ASC").
		Find(&refs).Error; err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return []*entities.Dish{}, nil
	}

	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.DishID)
	}

	var dishes []*entities.Dish
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entities.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}

	out := make([]*entities.Dish, 0, len(dishes))
	for _, ref := range refs {
		if d, ok := byID[ref.DishID]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *restaurantRepository) filtered(ctx context.Context, filter domain.RestaurantFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.Restaurant{})
	if filter.IncludeDeleted {
		query = query.Unscoped()
	}
	if filter.Category != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM restaurant_dishes rd JOIN dishes d ON d.id = rd.dish_id "+
				"WHERE rd.restaurant_id = restaurants.id AND d.deleted_at IS NULL AND d.category = ?)",
			filter.Category,
		)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if filter.MinRating > 0 {
		query = query.Where("average_rating >= ?", filter.MinRating)
	}
	if filter.MaxRating > 0 {
		query = query.Where("average_rating <= ?", filter.MaxRating)
	}
	return query
}

func (r *restaurantRepository) SearchRestaurants(ctx context.Context, filter domain.RestaurantFilter, page domain.PaginationRequest) ([]*entities.Restaurant, int64, error) {
	var restaurants []*entities.Restaurant
	var count int64

	query := r.filtered(ctx, filter)
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order(orderFor(filter.Sort)).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&restaurants).Error; err != nil {
		return nil, 0, err
	}
	return restaurants, count, nil
}

// FindInBox returns every restaurant inside box that passes filter, in the
// requested order. It over-selects; callers apply the exact cap test.
func (r *restaurantRepository) FindInBox(ctx context.Context, box geo.Box, filter domain.RestaurantFilter) ([]*entities.Restaurant, error) {
	var restaurants []*entities.Restaurant

	query := r.filtered(ctx, filter).
		Where("location_latitude BETWEEN ? AND ?", box.MinLatitude, box.MaxLatitude)
	if !box.FullLongitude() {
		query = query.Where("location_longitude BETWEEN ? AND ?", box.MinLongitude, box.MaxLongitude)
	}

	if err := query.Order(orderFor(filter.Sort)).Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *restaurantRepository) ListRestaurantsServingDish(ctx context.Context, dishID string, page domain.PaginationRequest) ([]*entities.Restaurant, int64, error) {
	var restaurants []*entities.Restaurant
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Restaurant{}).
		Where("EXISTS (SELECT 1 FROM restaurant_dishes rd WHERE rd.restaurant_id = restaurants.id AND rd.dish_id = ?)", dishID)

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order(orderFor(domain.SortRatingDesc)).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&restaurants).Error; err != nil {
		return nil, 0, err
	}
	return restaurants, count, nil
}
