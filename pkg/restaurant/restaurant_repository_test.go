package restaurant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/entities"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/testutil"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
	"github.com/tranhuy105/ITSS-CongAn-sub000/pkg/dish"
)

type catalog struct {
	db          *gorm.DB
	dishes      dish.DishRepository
	restaurants RestaurantRepository
	svc         RestaurantService
}

func newCatalog(t *testing.T) catalog {
	db := testutil.NewDB(t)
	dishes := dish.NewDishRepository(db)
	restaurants := NewRestaurantRepository(db)
	return catalog{
		db:          db,
		dishes:      dishes,
		restaurants: restaurants,
		svc:         NewRestaurantService(restaurants, dishes, nil, logger.Nop()),
	}
}

func (c catalog) dish(t *testing.T, name, category string) string {
	t.Helper()
	d := &entities.Dish{Name: entities.LocalizedText{Vi: name}, Category: category}
	require.NoError(t, c.dishes.CreateDish(context.Background(), d))
	return d.ID.String()
}

func (c catalog) restaurant(t *testing.T, name string, lon, lat float64, dishIDs ...string) string {
	t.Helper()
	res, err := c.svc.CreateRestaurant(context.Background(), domain.CreateRestaurantRequest{
		Name:     name,
		Address:  "Hà Nội",
		Location: domain.Location{Longitude: lon, Latitude: lat},
		DishIDs:  dishIDs,
	})
	require.NoError(t, err)
	return res.ID
}

func TestAssignDishes_RejectsInactiveWithoutPartialWrite(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	pho := c.dish(t, "Phở", "noodle")
	bun := c.dish(t, "Bún chả", "noodle")
	gone := c.dish(t, "Bánh cuốn", "roll")
	require.NoError(t, c.dishes.SoftDeleteDish(ctx, gone))

	rid := c.restaurant(t, "Phở Thìn", 105.85, 21.02, pho)

	missing := uuid.NewString()
	_, err := c.svc.AssignDishes(ctx, rid, []string{bun, gone, missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var inactive *domain.InactiveDishesError
	require.True(t, errors.As(err, &inactive))
	assert.ElementsMatch(t, []string{gone, missing}, inactive.IDs)

	got, err := c.svc.GetRestaurantByID(ctx, rid)
	require.NoError(t, err)
	require.Len(t, got.Dishes, 1)
	assert.Equal(t, pho, got.Dishes[0].ID)
}

func TestAssignDishes_ReplacesAndDedupes(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	pho := c.dish(t, "Phở", "noodle")
	bun := c.dish(t, "Bún chả", "noodle")
	rid := c.restaurant(t, "Quán", 105.85, 21.02, pho)

	got, err := c.svc.AssignDishes(ctx, rid, []string{bun, pho, bun})
	require.NoError(t, err)
	require.Len(t, got.Dishes, 2)
	assert.Equal(t, bun, got.Dishes[0].ID)
	assert.Equal(t, pho, got.Dishes[1].ID)

	got, err = c.svc.AssignDishes(ctx, rid, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Dishes)
}

func TestCreateRestaurant_WithInactiveDishRollsBack(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	_, err := c.svc.CreateRestaurant(ctx, domain.CreateRestaurantRequest{
		Name:     "Ghost",
		Address:  "Nowhere",
		Location: domain.Location{Longitude: 105, Latitude: 21},
		DishIDs:  []string{uuid.NewString()},
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	var count int64
	require.NoError(t, c.db.Unscoped().Model(&entities.Restaurant{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRestaurantDishes_DropSoftDeletedAndReturnOnRestore(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	pho := c.dish(t, "Phở", "noodle")
	bun := c.dish(t, "Bún chả", "noodle")
	rid := c.restaurant(t, "Quán", 105.85, 21.02, pho, bun)

	require.NoError(t, c.dishes.SoftDeleteDish(ctx, pho))
	got, err := c.svc.GetRestaurantByID(ctx, rid)
	require.NoError(t, err)
	require.Len(t, got.Dishes, 1)
	assert.Equal(t, bun, got.Dishes[0].ID)

	require.NoError(t, c.dishes.RestoreDish(ctx, pho))
	got, err = c.svc.GetRestaurantByID(ctx, rid)
	require.NoError(t, err)
	require.Len(t, got.Dishes, 2)
	assert.Equal(t, pho, got.Dishes[0].ID)
}

func TestFindNearby_CategoryIntersectsRadius(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	noodle := c.dish(t, "Phở", "noodle")
	rice := c.dish(t, "Cơm tấm", "rice")

	// about 1 km from the center
	near := c.restaurant(t, "Near noodles", 105.8432, 21.0278, noodle)
	c.restaurant(t, "Near rice", 105.8440, 21.0278, rice)
	// about 30 km away
	c.restaurant(t, "Far noodles", 106.1230, 21.0278, noodle)

	res, err := c.svc.FindNearbyRestaurants(ctx, domain.NearbyRestaurantsRequest{
		Center:       domain.Location{Longitude: 105.8342, Latitude: 21.0278},
		RadiusMeters: 5000,
		Filter:       domain.RestaurantFilter{Category: "noodle"},
	})
	require.NoError(t, err)
	require.Len(t, res.Restaurants, 1)
	assert.Equal(t, near, res.Restaurants[0].ID)
	assert.Equal(t, int64(1), res.Pagination.Total)

	// a deleted dish no longer qualifies the restaurant for its category
	require.NoError(t, c.dishes.SoftDeleteDish(ctx, noodle))
	res, err = c.svc.FindNearbyRestaurants(ctx, domain.NearbyRestaurantsRequest{
		Center:       domain.Location{Longitude: 105.8342, Latitude: 21.0278},
		RadiusMeters: 5000,
		Filter:       domain.RestaurantFilter{Category: "noodle"},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Restaurants)
}

func TestFindNearby_PaginationTotals(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		c.restaurant(t, "Quán", 105.8342+float64(i)*0.001, 21.0278)
	}
	c.restaurant(t, "Far", 107, 21.0278)

	res, err := c.svc.FindNearbyRestaurants(ctx, domain.NearbyRestaurantsRequest{
		Center:       domain.Location{Longitude: 105.8342, Latitude: 21.0278},
		RadiusMeters: 2000,
		Page:         domain.PaginationRequest{Page: 3, Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, res.Restaurants, 1)
	assert.Equal(t, domain.PaginationResponse{Page: 3, Limit: 2, Total: 5, TotalPages: 3}, res.Pagination)
}

func TestRestaurantSoftDelete(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	rid := c.restaurant(t, "Quán", 105.85, 21.02)

	assert.ErrorIs(t, c.svc.RestoreRestaurant(ctx, rid), domain.ErrRestaurantNotDeleted)
	require.NoError(t, c.svc.SoftDeleteRestaurant(ctx, rid))
	assert.ErrorIs(t, c.svc.SoftDeleteRestaurant(ctx, rid), domain.ErrConflict)

	_, err := c.svc.GetRestaurantByID(ctx, rid)
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)

	list, err := c.svc.SearchRestaurants(ctx, domain.RestaurantFilter{}, domain.PaginationRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Restaurants)

	_, err = c.svc.AssignDishes(ctx, rid, nil)
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)

	require.NoError(t, c.svc.RestoreRestaurant(ctx, rid))
	assert.ErrorIs(t, c.svc.SoftDeleteRestaurant(ctx, uuid.NewString()), domain.ErrNotFound)
}

func TestRestoreRestaurant_KeepsUpdatedAt(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	rid := c.restaurant(t, "Bún chả Hương Liên", 105.85, 21.02)

	before, err := c.svc.GetRestaurantByID(ctx, rid)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, c.svc.SoftDeleteRestaurant(ctx, rid))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, c.svc.RestoreRestaurant(ctx, rid))

	after, err := c.svc.GetRestaurantByID(ctx, rid)
	require.NoError(t, err)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt), "updated_at %v became %v", before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, before, after)
}

func TestListRestaurantsServingDish(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	pho := c.dish(t, "Phở", "noodle")
	a := c.restaurant(t, "A", 105.85, 21.02, pho)
	b := c.restaurant(t, "B", 105.86, 21.02, pho)
	require.NoError(t, c.svc.SoftDeleteRestaurant(ctx, b))

	res, err := c.svc.ListRestaurantsServingDish(ctx, pho, domain.PaginationRequest{})
	require.NoError(t, err)
	require.Len(t, res.Restaurants, 1)
	assert.Equal(t, a, res.Restaurants[0].ID)

	require.NoError(t, c.dishes.SoftDeleteDish(ctx, pho))
	_, err = c.svc.ListRestaurantsServingDish(ctx, pho, domain.PaginationRequest{})
	assert.ErrorIs(t, err, domain.ErrDishNotFound)
}

func TestSearchRestaurants_Filters(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	setRating := func(id string, avg float64) {
		require.NoError(t, c.db.Model(&entities.Restaurant{}).Where("id = ?", id).UpdateColumn("average_rating", avg).Error)
	}

	thin := c.restaurant(t, "Phở Thìn", 105.85, 21.02)
	ly := c.restaurant(t, "Phở Lý Quốc Sư", 105.85, 21.03)
	bun := c.restaurant(t, "Bún Chả", 105.86, 21.02)
	setRating(thin, 4.5)
	setRating(ly, 3.0)
	setRating(bun, 4.0)

	res, err := c.svc.SearchRestaurants(ctx, domain.RestaurantFilter{Query: "PHỞ"}, domain.PaginationRequest{})
	require.NoError(t, err)
	require.Len(t, res.Restaurants, 2)
	assert.Equal(t, thin, res.Restaurants[0].ID)
	assert.Equal(t, ly, res.Restaurants[1].ID)

	res, err = c.svc.SearchRestaurants(ctx, domain.RestaurantFilter{MinRating: 3.5}, domain.PaginationRequest{})
	require.NoError(t, err)
	require.Len(t, res.Restaurants, 2)
	assert.Equal(t, thin, res.Restaurants[0].ID)
	assert.Equal(t, bun, res.Restaurants[1].ID)

	res, err = c.svc.SearchRestaurants(ctx, domain.RestaurantFilter{Sort: domain.SortNameAsc}, domain.PaginationRequest{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, res.Restaurants, 1)
	assert.Equal(t, ly, res.Restaurants[0].ID)
	assert.Equal(t, domain.PaginationResponse{Page: 2, Limit: 1, Total: 3, TotalPages: 3}, res.Pagination)

	_, err = c.svc.SearchRestaurants(ctx, domain.RestaurantFilter{MinRating: 4, MaxRating: 2}, domain.PaginationRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
